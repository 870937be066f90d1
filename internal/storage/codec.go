// Package storage encodes the registry to and from the persisted blob kept
// in the document store. Two on-disk shapes exist: the legacy v1 shape bound
// targets by cached names only, the current v2 shape carries durable tokens
// and the monotonic id counter. Decoding a v1 blob never migrates silently.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
)

type documentV2 struct {
	FormatVersion int       `json:"formatVersion"`
	NextID        uint64    `json:"nextId"`
	Entries       []entryV2 `json:"entries"`
}

type entryV2 struct {
	ID       uint64     `json:"id"`
	Template string     `json:"template"`
	Targets  []targetV2 `json:"targets"`
}

type targetV2 struct {
	Token     string `json:"token"`
	Component string `json:"component,omitempty"`
	Sketch    string `json:"sketch,omitempty"`
}

// Encode serializes a registry document as a v2 blob.
func Encode(doc *registry.Document) ([]byte, error) {
	out := documentV2{
		FormatVersion: registry.CurrentFormatVersion,
		NextID:        doc.NextID(),
		Entries:       make([]entryV2, 0, doc.Len()),
	}
	for _, e := range doc.Entries() {
		enc := entryV2{ID: e.ID(), Template: e.Template()}
		for _, b := range e.Bindings() {
			enc.Targets = append(enc.Targets, targetV2{
				Token:     b.Token,
				Component: b.Hint.Component,
				Sketch:    b.Hint.Sketch,
			})
		}
		out.Entries = append(out.Entries, enc)
	}

	blob, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("storage: encode document: %w", err)
	}
	log.Debug(log.CatCodec, "encoded document", "entries", doc.Len(), "nextId", doc.NextID())
	return blob, nil
}

// versionProbe sniffs the format without committing to a shape. Legacy v1
// blobs carry nextId but no formatVersion.
type versionProbe struct {
	FormatVersion *int    `json:"formatVersion"`
	NextID        *uint64 `json:"nextId"`
}

// Decode deserializes a persisted blob into a registry document. An empty
// blob yields a fresh empty document. A v1 blob returns MigrationNeededError
// carrying the decoded legacy state; a blob written by a newer format
// returns NewerVersionError.
func Decode(blob []byte) (*registry.Document, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return registry.NewDocument(), nil
	}

	var probe versionProbe
	if err := json.Unmarshal(blob, &probe); err != nil {
		return nil, fmt.Errorf("storage: probe document format: %w", err)
	}

	switch {
	case probe.FormatVersion == nil:
		v1, err := decodeV1(blob)
		if err != nil {
			return nil, err
		}
		log.Info(log.CatCodec, "legacy v1 document detected", "entries", len(v1.Entries))
		return nil, &MigrationNeededError{V1: v1}
	case *probe.FormatVersion == 1:
		v1, err := decodeV1(blob)
		if err != nil {
			return nil, err
		}
		return nil, &MigrationNeededError{V1: v1}
	case *probe.FormatVersion > registry.CurrentFormatVersion:
		return nil, &NewerVersionError{Version: *probe.FormatVersion}
	case *probe.FormatVersion != registry.CurrentFormatVersion:
		return nil, fmt.Errorf("storage: unknown format version %d", *probe.FormatVersion)
	}

	var raw documentV2
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("storage: decode v2 document: %w", err)
	}

	entries := make([]*registry.Entry, 0, len(raw.Entries))
	for _, e := range raw.Entries {
		bindings := make([]registry.Binding, 0, len(e.Targets))
		for _, t := range e.Targets {
			bindings = append(bindings, registry.Binding{
				Token: t.Token,
				Hint:  registry.DisplayHint{Component: t.Component, Sketch: t.Sketch},
			})
		}
		entries = append(entries, registry.RestoreEntry(e.ID, e.Template, bindings))
	}

	doc, err := registry.Restore(raw.NextID, entries)
	if err != nil {
		return nil, fmt.Errorf("storage: decode v2 document: %w", err)
	}
	log.Debug(log.CatCodec, "decoded document", "entries", doc.Len(), "nextId", doc.NextID())
	return doc, nil
}
