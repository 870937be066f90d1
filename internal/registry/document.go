package registry

import (
	"fmt"
	"sort"
)

// CurrentFormatVersion is the storage format this package produces.
const CurrentFormatVersion = 2

// Document is the registry of one open document: every text parameter entry
// plus the monotonic id counter. Ids are never recycled, even after an entry
// is removed.
type Document struct {
	nextID  uint64
	entries []*Entry
}

// NewDocument returns an empty registry.
func NewDocument() *Document {
	return &Document{}
}

// Restore rebuilds a registry from decoded storage state. Entry ids must be
// unique and nextID must exceed every live id.
func Restore(nextID uint64, entries []*Entry) (*Document, error) {
	seen := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.id]; ok {
			return nil, &InvalidDocumentError{Reason: fmt.Sprintf("duplicate entry id %d", e.id)}
		}
		seen[e.id] = struct{}{}
		if e.id >= nextID {
			return nil, &InvalidDocumentError{Reason: fmt.Sprintf("entry id %d not below next id %d", e.id, nextID)}
		}
	}
	return &Document{nextID: nextID, entries: entries}, nil
}

// NextID returns the id the next created entry will receive.
func (d *Document) NextID() uint64 {
	return d.nextID
}

// Len returns the number of live entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Entries returns the live entries ordered by id. The slice is a copy; the
// entries are shared.
func (d *Document) Entries() []*Entry {
	out := make([]*Entry, len(d.entries))
	copy(out, d.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Entry looks up a live entry by id.
func (d *Document) Entry(id uint64) (*Entry, error) {
	for _, e := range d.entries {
		if e.id == id {
			return e, nil
		}
	}
	return nil, &EntryNotFoundError{ID: id}
}

// NewEntry creates an entry with the next monotonic id and the given
// template. The id is unique for the document's lifetime.
func (d *Document) NewEntry(template string) *Entry {
	e := &Entry{id: d.nextID, template: template}
	d.nextID++
	d.entries = append(d.entries, e)
	return e
}

// RemoveEntry deletes an entry. Its id is retired, never reassigned.
func (d *Document) RemoveEntry(id uint64) error {
	for i, e := range d.entries {
		if e.id == id {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return nil
		}
	}
	return &EntryNotFoundError{ID: id}
}

// SetTemplate replaces an entry's template pattern.
func (d *Document) SetTemplate(id uint64, template string) error {
	e, err := d.Entry(id)
	if err != nil {
		return err
	}
	e.template = template
	return nil
}

// Bind attaches a target to an entry. The binding order is preserved and
// duplicates are rejected.
func (d *Document) Bind(id uint64, token string, hint DisplayHint) error {
	e, err := d.Entry(id)
	if err != nil {
		return err
	}
	return e.addBinding(Binding{Token: token, Hint: hint})
}

// Unbind detaches a target from an entry. Removing the last binding keeps
// the entry alive; unbound entries are legal.
func (d *Document) Unbind(id uint64, token string) error {
	e, err := d.Entry(id)
	if err != nil {
		return err
	}
	if !e.removeBinding(token) {
		return &EntryNotFoundError{ID: id}
	}
	return nil
}

// EntriesBoundTo returns the entries carrying a binding for the token,
// ordered by id.
func (d *Document) EntriesBoundTo(token string) []*Entry {
	var out []*Entry
	for _, e := range d.Entries() {
		if e.HasToken(token) {
			out = append(out, e)
		}
	}
	return out
}

// DuplicatedTarget describes one target produced by a host duplication: the
// token of the original, the token of the copy and the copy's naming.
type DuplicatedTarget struct {
	SourceToken string
	NewToken    string
	Hint        DisplayHint
}

// RebindOnDuplicate extends every entry bound to a duplicated source target
// with a binding for the copy. The entry identity is untouched: no new ids
// are created. Returns the number of bindings added.
func (d *Document) RebindOnDuplicate(dups []DuplicatedTarget) int {
	added := 0
	for _, dup := range dups {
		for _, e := range d.EntriesBoundTo(dup.SourceToken) {
			if err := e.addBinding(Binding{Token: dup.NewToken, Hint: dup.Hint}); err == nil {
				added++
			}
		}
	}
	return added
}

// UpdateHint refreshes the cached display hint of every binding for the
// token, typically after a component or sketch rename. Identity is
// untouched. Returns the number of bindings updated.
func (d *Document) UpdateHint(token string, hint DisplayHint) int {
	if token == "" {
		return 0
	}
	updated := 0
	for _, e := range d.entries {
		for i := range e.bindings {
			if e.bindings[i].Token == token && e.bindings[i].Hint != hint {
				e.bindings[i].Hint = hint
				updated++
			}
		}
	}
	return updated
}

// Patch is one element of a batch update: the entry it targets and the
// changes to apply. A nil Template leaves the pattern alone.
type Patch struct {
	ID           uint64
	Template     *string
	AddBindings  []Binding
	RemoveTokens []string
}

// Apply runs a batch of patches as a transaction: the whole batch is
// validated before any change lands, so a failed batch leaves the document
// untouched and nextID still exceeds every live id. Validation simulates the
// patches in order against scratch binding sets, which also catches repeated
// tokens within one patch and collisions between patches on the same entry.
func (d *Document) Apply(patches []Patch) error {
	tokens := make(map[uint64]map[string]struct{})
	hints := make(map[uint64]map[DisplayHint]struct{})
	for _, p := range patches {
		e, err := d.Entry(p.ID)
		if err != nil {
			return err
		}
		set, ok := tokens[p.ID]
		if !ok {
			set = make(map[string]struct{}, len(e.bindings))
			dangling := make(map[DisplayHint]struct{})
			for _, b := range e.bindings {
				if b.Token == "" {
					dangling[b.Hint] = struct{}{}
				} else {
					set[b.Token] = struct{}{}
				}
			}
			tokens[p.ID] = set
			hints[p.ID] = dangling
		}
		for _, token := range p.RemoveTokens {
			if _, ok := set[token]; !ok {
				return &EntryNotFoundError{ID: p.ID}
			}
			delete(set, token)
		}
		for _, b := range p.AddBindings {
			if b.Token == "" {
				if _, ok := hints[p.ID][b.Hint]; ok {
					return &DuplicateBindingError{EntryID: p.ID, Token: ""}
				}
				hints[p.ID][b.Hint] = struct{}{}
				continue
			}
			if _, ok := set[b.Token]; ok {
				return &DuplicateBindingError{EntryID: p.ID, Token: b.Token}
			}
			set[b.Token] = struct{}{}
		}
	}
	for _, p := range patches {
		e, _ := d.Entry(p.ID)
		if p.Template != nil {
			e.template = *p.Template
		}
		for _, token := range p.RemoveTokens {
			e.removeBinding(token)
		}
		for _, b := range p.AddBindings {
			if err := e.addBinding(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// RestoreEntry rebuilds an entry from decoded storage state. Only codecs
// should construct entries this way; live code goes through NewEntry.
func RestoreEntry(id uint64, template string, bindings []Binding) *Entry {
	e := &Entry{id: id, template: template}
	e.bindings = append(e.bindings, bindings...)
	return e
}
