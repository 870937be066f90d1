// Package render drives the full pipeline over a batch of entries: parse,
// resolve, slice, format, concatenate, write. A failure on one entry or one
// target never aborts the batch.
package render

import (
	"context"
	"strings"
	"time"

	"github.com/zjrosen/paratext/internal/cachemanager"
	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
	"github.com/zjrosen/paratext/internal/resolve"
	"github.com/zjrosen/paratext/internal/template"
	"github.com/zjrosen/paratext/internal/value"
)

const undoGroupName = "Update text parameters"

// Engine renders registry entries into their bound targets.
type Engine struct {
	sink      TextSink
	provider  ContextProvider
	recompute RecomputeTrigger
	undo      UndoGrouper
	cache     cachemanager.CacheManager[string, []template.Segment]
}

type Option func(*Engine)

// WithRecompute installs the optional recompute signal, fired only when a
// batch changed at least one target.
func WithRecompute(r RecomputeTrigger) Option {
	return func(e *Engine) { e.recompute = r }
}

// WithUndoGrouper wraps each batch in one undoable unit at the host
// boundary.
func WithUndoGrouper(u UndoGrouper) Option {
	return func(e *Engine) { e.undo = u }
}

// WithTemplateCache installs a parsed-template cache. Templates repeat
// across targets and across batches, so parse results are worth keeping.
func WithTemplateCache(c cachemanager.CacheManager[string, []template.Segment]) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine builds an engine over the host's sink and context provider.
func NewEngine(sink TextSink, provider ContextProvider, opts ...Option) *Engine {
	e := &Engine{sink: sink, provider: provider}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTemplateCache returns the cache the CLI wires into the engine.
func NewTemplateCache() cachemanager.CacheManager[string, []template.Segment] {
	return cachemanager.NewInMemoryCacheManager[string, []template.Segment]("parsed-templates", 10*time.Minute, 30*time.Minute)
}

// RenderAll runs one batch over every entry in the document. It is
// synchronous and always runs to completion; per-entry and per-target
// failures land in the report. The same entry can produce different strings
// per target because context attributes resolve per target.
func (e *Engine) RenderAll(ctx context.Context, doc *registry.Document, params resolve.Namespace) *Report {
	report := &Report{}
	if e.undo != nil {
		end := e.undo.BeginUndoGroup(undoGroupName)
		defer end()
	}

	docCtx := e.provider.Document()
	for _, entry := range doc.Entries() {
		segments, err := e.segments(ctx, entry.Template())
		if err != nil {
			report.fail(entry.ID(), "", err)
			continue
		}
		for _, binding := range entry.Bindings() {
			e.renderTarget(entry.ID(), binding, segments, params, docCtx, report)
		}
	}

	if report.Changed && e.recompute != nil {
		if err := e.recompute.TriggerRecompute(); err != nil {
			log.Warn(log.CatRender, "recompute trigger failed", "err", err)
			report.Notices = append(report.Notices, "recompute request failed: "+err.Error())
		}
	}

	log.Info(log.CatRender, "batch complete",
		"entries", doc.Len(), "rendered", report.Rendered,
		"failures", len(report.Failures), "changed", report.Changed)
	return report
}

func (e *Engine) renderTarget(entryID uint64, binding registry.Binding, segments []template.Segment, params resolve.Namespace, docCtx resolve.Context, report *Report) {
	if binding.Dangling() {
		report.fail(entryID, "", &DanglingTokenError{Hint: binding.Hint})
		return
	}
	target, ok := e.provider.Target(binding.Token)
	if !ok {
		report.fail(entryID, binding.Token, &DanglingTokenError{Token: binding.Token, Hint: binding.Hint})
		return
	}

	text, err := renderSegments(segments, params, docCtx, target)
	if err != nil {
		report.fail(entryID, binding.Token, err)
		return
	}

	changed, err := e.sink.WriteTargetText(binding.Token, text)
	if err != nil {
		report.fail(entryID, binding.Token, &SinkError{Token: binding.Token, Err: err})
		return
	}
	report.Rendered++
	if changed {
		report.Changed = true
	}
}

// Update applies a batch of registry patches and re-renders. The patch set
// is transactional: on error the document is untouched and no render runs.
func (e *Engine) Update(ctx context.Context, doc *registry.Document, patches []registry.Patch, params resolve.Namespace) (*Report, error) {
	if err := doc.Apply(patches); err != nil {
		return nil, err
	}
	return e.RenderAll(ctx, doc, params), nil
}

// Preview renders a single template against one target context without
// writing anywhere. The dialog uses it for live feedback while editing.
func (e *Engine) Preview(ctx context.Context, tmpl string, params resolve.Namespace, target resolve.TargetContext) (string, error) {
	segments, err := e.segments(ctx, tmpl)
	if err != nil {
		return "", err
	}
	return renderSegments(segments, params, e.provider.Document(), target)
}

func (e *Engine) segments(ctx context.Context, tmpl string) ([]template.Segment, error) {
	if e.cache != nil {
		if segments, ok := e.cache.Get(ctx, tmpl); ok {
			return segments, nil
		}
	}
	segments, err := template.Parse(tmpl)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(ctx, tmpl, segments, 0)
	}
	return segments, nil
}

func renderSegments(segments []template.Segment, params resolve.Namespace, docCtx resolve.Context, target resolve.TargetContext) (string, error) {
	var out strings.Builder
	for _, segment := range segments {
		switch s := segment.(type) {
		case template.Literal:
			out.WriteString(s.Text)
		case template.Field:
			text, err := renderField(s, params, docCtx, target)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		}
	}
	return out.String(), nil
}

func renderField(f template.Field, params resolve.Namespace, docCtx resolve.Context, target resolve.TargetContext) (string, error) {
	v, err := resolve.Resolve(f.Base, f.Attribute, params, docCtx, target)
	if err != nil {
		return "", err
	}
	if f.Slice != nil {
		v, err = value.Slice(v, f.Slice.Start, f.Slice.Stop)
		if err != nil {
			return "", err
		}
	}
	spec := ""
	if f.HasFormat {
		spec = f.Format
	}
	return value.Format(v, spec)
}
