// Package testutil provides fluent builders for assembling test documents:
// a host with targets, a registry with bound entries and a parameter
// namespace, wired together so render tests read like scenarios.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/paratext/internal/host"
	"github.com/zjrosen/paratext/internal/registry"
	"github.com/zjrosen/paratext/internal/resolve"
)

// Workspace is a fully wired test fixture.
type Workspace struct {
	Doc    *registry.Document
	Host   *host.MemoryHost
	Params resolve.Namespace

	// Tokens maps builder target keys to the minted durable tokens.
	Tokens map[string]string
}

type targetData struct {
	key       string
	component string
	sketch    string
}

type entryData struct {
	template string
	targets  []string
}

// Builder accumulates test data and wires it in the correct order.
type Builder struct {
	t        *testing.T
	file     string
	version  int
	saveTime time.Time
	params   resolve.Namespace
	targets  []targetData
	entries  []entryData
}

// NewBuilder creates a builder for one test document.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{
		t:        t,
		file:     "Bracket v1",
		version:  1,
		saveTime: time.Date(2020, 9, 27, 12, 0, 0, 0, time.UTC),
		params:   resolve.Namespace{},
	}
}

// WithFile sets the document name and save counter.
func (b *Builder) WithFile(name string, version int) *Builder {
	b.file = name
	b.version = version
	return b
}

// WithSaveTime sets the context timestamp.
func (b *Builder) WithSaveTime(ts time.Time) *Builder {
	b.saveTime = ts
	return b
}

// WithParam adds a user parameter with optional configuration.
func (b *Builder) WithParam(name string, value float64, opts ...ParamOption) *Builder {
	p := resolve.Parameter{Value: value}
	for _, opt := range opts {
		opt(&p)
	}
	b.params[name] = p
	return b
}

// WithTarget adds a display target under a builder-local key. The durable
// token is minted at Build time and exposed through Workspace.Tokens.
func (b *Builder) WithTarget(key, component, sketch string) *Builder {
	b.targets = append(b.targets, targetData{key: key, component: component, sketch: sketch})
	return b
}

// WithEntry adds an entry bound to the targets named by their builder keys.
func (b *Builder) WithEntry(template string, targetKeys ...string) *Builder {
	b.entries = append(b.entries, entryData{template: template, targets: targetKeys})
	return b
}

// Build wires everything: host and targets first, then entries and
// bindings.
func (b *Builder) Build() *Workspace {
	b.t.Helper()

	h := host.NewMemoryHost(b.file, b.version)
	ctx := h.Document()
	ctx.SaveTime = b.saveTime
	ctx.Saved = true
	h.SetContext(ctx)

	tokens := make(map[string]string, len(b.targets))
	hints := make(map[string]registry.DisplayHint, len(b.targets))
	for _, td := range b.targets {
		target := h.CreateTarget(td.component, td.sketch)
		tokens[td.key] = target.Token
		hints[td.key] = registry.DisplayHint{Component: td.component, Sketch: td.sketch}
	}

	doc := registry.NewDocument()
	for _, ed := range b.entries {
		e := doc.NewEntry(ed.template)
		for _, key := range ed.targets {
			token, ok := tokens[key]
			require.True(b.t, ok, "unknown target key %q", key)
			require.NoError(b.t, doc.Bind(e.ID(), token, hints[key]))
		}
	}

	return &Workspace{Doc: doc, Host: h, Params: b.params, Tokens: tokens}
}
