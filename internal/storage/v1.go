package storage

import (
	"encoding/json"
	"fmt"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
)

// V1Document is the decoded legacy shape: targets identified by cached
// component/sketch names only, no durable tokens.
type V1Document struct {
	NextID  uint64    `json:"nextId"`
	Entries []V1Entry `json:"entries"`
}

// V1Entry is one legacy template rule.
type V1Entry struct {
	ID       uint64     `json:"id"`
	Template string     `json:"template"`
	Targets  []V1Target `json:"targets"`
}

// V1Target names a legacy binding by its containing component and sketch.
type V1Target struct {
	Component string `json:"component"`
	Sketch    string `json:"sketch"`
}

func decodeV1(blob []byte) (*V1Document, error) {
	var v1 V1Document
	if err := json.Unmarshal(blob, &v1); err != nil {
		return nil, fmt.Errorf("storage: decode v1 document: %w", err)
	}
	return &v1, nil
}

// NameResolver maps a legacy component/sketch name pair to the durable token
// of the live target, when one still exists under that name.
type NameResolver interface {
	ResolveTargetName(component, sketch string) (token string, ok bool)
}

// MigrationReport summarizes one migration run. Dangling holds the bindings
// whose names no longer resolve; they are kept tokenless in the migrated
// document, not dropped.
type MigrationReport struct {
	Resolved int
	Dangling []DanglingBinding
}

// DanglingBinding identifies a legacy binding that could not be re-resolved.
type DanglingBinding struct {
	EntryID uint64
	Hint    registry.DisplayHint
}

// Migrate converts a legacy document to the current format by re-resolving
// every name-based binding to a durable token. The conversion is one-way and
// best-effort: unresolvable bindings become dangling and are reported. The
// caller must obtain explicit confirmation before persisting the result.
func Migrate(v1 *V1Document, resolver NameResolver) (*registry.Document, *MigrationReport, error) {
	report := &MigrationReport{}

	entries := make([]*registry.Entry, 0, len(v1.Entries))
	nextID := v1.NextID
	for _, e := range v1.Entries {
		if e.ID >= nextID {
			nextID = e.ID + 1
		}
		bindings := make([]registry.Binding, 0, len(e.Targets))
		for _, t := range e.Targets {
			hint := registry.DisplayHint{Component: t.Component, Sketch: t.Sketch}
			token, ok := resolver.ResolveTargetName(t.Component, t.Sketch)
			if !ok {
				report.Dangling = append(report.Dangling, DanglingBinding{EntryID: e.ID, Hint: hint})
				bindings = append(bindings, registry.Binding{Hint: hint})
				continue
			}
			report.Resolved++
			bindings = append(bindings, registry.Binding{Token: token, Hint: hint})
		}
		entries = append(entries, registry.RestoreEntry(e.ID, e.Template, bindings))
	}

	doc, err := registry.Restore(nextID, entries)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: migrate v1 document: %w", err)
	}
	log.Info(log.CatCodec, "migrated v1 document",
		"entries", doc.Len(), "resolved", report.Resolved, "dangling", len(report.Dangling))
	return doc, report, nil
}
