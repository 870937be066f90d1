// Package registry holds the text parameter entries of one open document and
// the durable bindings from each entry to its external display targets.
//
// Identity rules: an entry's id is assigned once and never reused within the
// document's lifetime; duplicating a bound target adds a binding under the
// same entry, never a second entry; renaming a target's containing component
// or sketch touches only the cached display hint.
package registry

// DisplayHint is the cached component/sketch naming for a binding. It is
// non-authoritative: it serves display and v1 name-based rebinding only.
type DisplayHint struct {
	Component string
	Sketch    string
}

// Binding associates an entry with one external display target through the
// host-assigned durable token.
type Binding struct {
	Token string      // empty when the binding is dangling
	Hint  DisplayHint // cached, updated on rename
}

// Dangling reports whether the binding has lost its durable token. Dangling
// bindings are skipped by the render engine and reported, never fatal.
func (b Binding) Dangling() bool {
	return b.Token == ""
}

// Entry is one template rule: a stable id, the raw template and the ordered
// set of target bindings.
type Entry struct {
	id       uint64
	template string
	bindings []Binding
}

// ID returns the stable entry id.
func (e *Entry) ID() uint64 {
	return e.id
}

// Template returns the raw template pattern.
func (e *Entry) Template() string {
	return e.template
}

// Bindings returns the bindings in insertion order. The slice is a copy.
func (e *Entry) Bindings() []Binding {
	out := make([]Binding, len(e.bindings))
	copy(out, e.bindings)
	return out
}

// HasToken reports whether the entry is bound to the given token.
func (e *Entry) HasToken(token string) bool {
	if token == "" {
		return false
	}
	for _, b := range e.bindings {
		if b.Token == token {
			return true
		}
	}
	return false
}

// addBinding appends a binding, rejecting duplicates. Dangling bindings are
// deduplicated by hint instead of token.
func (e *Entry) addBinding(binding Binding) error {
	for _, b := range e.bindings {
		if binding.Token != "" && b.Token == binding.Token {
			return &DuplicateBindingError{EntryID: e.id, Token: binding.Token}
		}
		if binding.Token == "" && b.Token == "" && b.Hint == binding.Hint {
			return &DuplicateBindingError{EntryID: e.id, Token: binding.Token}
		}
	}
	e.bindings = append(e.bindings, binding)
	return nil
}

// removeBinding drops the binding with the given token. Returns false when
// the entry is not bound to it.
func (e *Entry) removeBinding(token string) bool {
	for i, b := range e.bindings {
		if b.Token == token {
			e.bindings = append(e.bindings[:i], e.bindings[i+1:]...)
			return true
		}
	}
	return false
}
