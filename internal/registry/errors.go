package registry

import "fmt"

// EntryNotFoundError indicates an operation referenced an entry id that is
// not present in the document.
type EntryNotFoundError struct {
	ID uint64
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("registry: entry %d not found", e.ID)
}

// DuplicateBindingError indicates an attempt to bind an entry to a target it
// is already bound to.
type DuplicateBindingError struct {
	EntryID uint64
	Token   string
}

func (e *DuplicateBindingError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("registry: entry %d already carries an equivalent dangling binding", e.EntryID)
	}
	return fmt.Sprintf("registry: entry %d already bound to target %q", e.EntryID, e.Token)
}

// InvalidDocumentError indicates restored document state that violates the
// identity invariants.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("registry: invalid document state: %s", e.Reason)
}
