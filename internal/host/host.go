// Package host is the engine's stand-in for the CAD application: it mints
// durable target tokens, owns target text state and answers context lookups.
// The engine itself never holds live target handles, only tokens.
package host

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/resolve"
)

// Target is one text-bearing entity living in a component's sketch.
type Target struct {
	Token         string `json:"token"`
	Component     string `json:"component"`
	Sketch        string `json:"sketch"`
	ComponentDesc string `json:"compdesc,omitempty"`
	PartNumber    string `json:"partnum,omitempty"`
	Configuration string `json:"configuration,omitempty"`
	Text          string `json:"text"`
}

// UnknownTargetError indicates a token that resolves to no live target.
type UnknownTargetError struct {
	Token string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("host: no target for token %s", e.Token)
}

// MemoryHost holds the document context and targets in memory. It satisfies
// the render engine's sink, provider, undo and recompute ports plus the
// storage codec's name resolver.
type MemoryHost struct {
	ctx        resolve.Context
	targets    map[string]*Target
	order      []string
	recomputes int
}

// NewMemoryHost starts an empty host for the named document file.
func NewMemoryHost(file string, version int) *MemoryHost {
	return &MemoryHost{
		ctx:     resolve.Context{File: file, Version: version, SaveTime: time.Now()},
		targets: map[string]*Target{},
	}
}

// Document returns the document-level context.
func (h *MemoryHost) Document() resolve.Context {
	return h.ctx
}

// SetContext replaces the document-level context, e.g. to stamp the next
// save's version and timestamp before rendering.
func (h *MemoryHost) SetContext(ctx resolve.Context) {
	h.ctx = ctx
}

// Target resolves a token to its per-target context.
func (h *MemoryHost) Target(token string) (resolve.TargetContext, bool) {
	t, ok := h.targets[token]
	if !ok {
		return resolve.TargetContext{}, false
	}
	return resolve.TargetContext{
		Component:     t.Component,
		Sketch:        t.Sketch,
		ComponentDesc: t.ComponentDesc,
		PartNumber:    t.PartNumber,
		Configuration: t.Configuration,
	}, true
}

// WriteTargetText stores the rendered string on the target, reporting
// whether the text actually changed.
func (h *MemoryHost) WriteTargetText(token, text string) (bool, error) {
	t, ok := h.targets[token]
	if !ok {
		return false, &UnknownTargetError{Token: token}
	}
	if t.Text == text {
		return false, nil
	}
	t.Text = text
	return true, nil
}

// TriggerRecompute counts recompute requests; the in-memory host has no
// geometry to rebuild.
func (h *MemoryHost) TriggerRecompute() error {
	h.recomputes++
	log.Debug(log.CatHost, "recompute requested", "count", h.recomputes)
	return nil
}

// Recomputes returns how many recompute requests the host has seen.
func (h *MemoryHost) Recomputes() int {
	return h.recomputes
}

// BeginUndoGroup opens a named undo unit. The in-memory host only logs the
// boundaries.
func (h *MemoryHost) BeginUndoGroup(name string) func() {
	log.Debug(log.CatHost, "undo group opened", "name", name)
	return func() {
		log.Debug(log.CatHost, "undo group closed", "name", name)
	}
}

// ResolveTargetName maps a component/sketch name pair to a token, for
// migrating legacy name-based bindings. Names must match exactly.
func (h *MemoryHost) ResolveTargetName(component, sketch string) (string, bool) {
	for _, token := range h.order {
		t := h.targets[token]
		if t.Component == component && t.Sketch == sketch {
			return t.Token, true
		}
	}
	return "", false
}

// CreateTarget mints a new target with a fresh durable token.
func (h *MemoryHost) CreateTarget(component, sketch string) Target {
	t := &Target{
		Token:     uuid.NewString(),
		Component: component,
		Sketch:    sketch,
	}
	h.targets[t.Token] = t
	h.order = append(h.order, t.Token)
	log.Debug(log.CatHost, "target created", "token", t.Token, "component", component, "sketch", sketch)
	return *t
}

// DuplicateTarget copies a target into a new component occurrence. The copy
// gets its own token; the caller rebinds it in the registry under the source
// entry.
func (h *MemoryHost) DuplicateTarget(token, newComponent string) (Target, error) {
	src, ok := h.targets[token]
	if !ok {
		return Target{}, &UnknownTargetError{Token: token}
	}
	dup := *src
	dup.Token = uuid.NewString()
	dup.Component = newComponent
	h.targets[dup.Token] = &dup
	h.order = append(h.order, dup.Token)
	log.Debug(log.CatHost, "target duplicated", "source", token, "token", dup.Token, "component", newComponent)
	return dup, nil
}

// RenameSketch renames the sketch holding one target. The token is stable
// across renames.
func (h *MemoryHost) RenameSketch(token, name string) error {
	t, ok := h.targets[token]
	if !ok {
		return &UnknownTargetError{Token: token}
	}
	t.Sketch = name
	return nil
}

// RenameComponent renames a component wherever it appears and returns the
// tokens of the affected targets so the registry can refresh its hints.
func (h *MemoryHost) RenameComponent(oldName, newName string) []string {
	var affected []string
	for _, token := range h.order {
		t := h.targets[token]
		if t.Component == oldName {
			t.Component = newName
			affected = append(affected, token)
		}
	}
	return affected
}

// RemoveTarget deletes a target; its token stops resolving, leaving any
// registry binding dangling.
func (h *MemoryHost) RemoveTarget(token string) error {
	if _, ok := h.targets[token]; !ok {
		return &UnknownTargetError{Token: token}
	}
	delete(h.targets, token)
	for i, tok := range h.order {
		if tok == token {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return nil
}

// Targets returns the live targets in creation order.
func (h *MemoryHost) Targets() []Target {
	out := make([]Target, 0, len(h.order))
	for _, token := range h.order {
		out = append(out, *h.targets[token])
	}
	return out
}

type snapshot struct {
	File     string    `json:"file"`
	Version  int       `json:"version"`
	SaveTime time.Time `json:"saveTime"`
	Saved    bool      `json:"saved"`
	Targets  []Target  `json:"targets"`
}

// Snapshot serializes the host state so the CLI can keep targets and their
// tokens stable between invocations.
func (h *MemoryHost) Snapshot() ([]byte, error) {
	s := snapshot{
		File:     h.ctx.File,
		Version:  h.ctx.Version,
		SaveTime: h.ctx.SaveTime,
		Saved:    h.ctx.Saved,
		Targets:  h.Targets(),
	}
	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("host: snapshot: %w", err)
	}
	return blob, nil
}

// RestoreHost rebuilds a host from a snapshot blob.
func RestoreHost(blob []byte) (*MemoryHost, error) {
	var s snapshot
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("host: restore snapshot: %w", err)
	}
	h := &MemoryHost{
		ctx:     resolve.Context{File: s.File, Version: s.Version, SaveTime: s.SaveTime, Saved: s.Saved},
		targets: map[string]*Target{},
	}
	for _, t := range s.Targets {
		copied := t
		h.targets[t.Token] = &copied
		h.order = append(h.order, t.Token)
	}
	return h, nil
}
