package storage

import "fmt"

// MigrationNeededError signals a legacy v1 blob. The caller decides whether
// to migrate; decoding never rewrites the document on its own.
type MigrationNeededError struct {
	V1 *V1Document
}

func (e *MigrationNeededError) Error() string {
	return fmt.Sprintf("storage: document uses legacy format version 1 (%d entries); explicit migration required", len(e.V1.Entries))
}

// NewerVersionError signals a blob written by a newer release than this
// codec understands.
type NewerVersionError struct {
	Version int
}

func (e *NewerVersionError) Error() string {
	return fmt.Sprintf("storage: document format version %d is newer than this release supports", e.Version)
}
