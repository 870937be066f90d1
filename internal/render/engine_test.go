package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/paratext/internal/registry"
	"github.com/zjrosen/paratext/internal/resolve"
	"github.com/zjrosen/paratext/internal/template"
)

type fakeHost struct {
	docCtx     resolve.Context
	targets    map[string]resolve.TargetContext
	texts      map[string]string
	failTokens map[string]error

	writes       int
	recomputes   int
	recomputeErr error
	undoBegun    int
	undoClosed   int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		docCtx:     resolve.Context{Version: 5, SaveTime: time.Date(2020, 9, 27, 12, 0, 0, 0, time.UTC), File: "Bracket v5", Saved: true},
		targets:    map[string]resolve.TargetContext{},
		texts:      map[string]string{},
		failTokens: map[string]error{},
	}
}

func (h *fakeHost) Document() resolve.Context { return h.docCtx }

func (h *fakeHost) Target(token string) (resolve.TargetContext, bool) {
	tc, ok := h.targets[token]
	return tc, ok
}

func (h *fakeHost) WriteTargetText(token, text string) (bool, error) {
	if err, ok := h.failTokens[token]; ok {
		return false, err
	}
	h.writes++
	changed := h.texts[token] != text
	h.texts[token] = text
	return changed, nil
}

func (h *fakeHost) TriggerRecompute() error {
	h.recomputes++
	return h.recomputeErr
}

func (h *fakeHost) BeginUndoGroup(name string) func() {
	h.undoBegun++
	return func() { h.undoClosed++ }
}

func (h *fakeHost) addTarget(token string, tc resolve.TargetContext) {
	h.targets[token] = tc
}

func testParams() resolve.Namespace {
	return resolve.Namespace{
		"d1":     {Value: 15.0, Unit: "mm", Expr: "15 mm"},
		"height": {Value: 30.0, Unit: "mm", Comment: "The height of the part"},
	}
}

func renderOne(t *testing.T, tmpl string, params resolve.Namespace) (string, *Report) {
	t.Helper()
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{Component: "Bracket", Sketch: "Label"})

	doc := registry.NewDocument()
	e := doc.NewEntry(tmpl)
	require.NoError(t, doc.Bind(e.ID(), "tok-1", registry.DisplayHint{}))

	report := NewEngine(host, host).RenderAll(context.Background(), doc, params)
	return host.texts["tok-1"], report
}

func TestRenderAll_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"zero padded version", "V{_.version:03}", "V005"},
		{"value with unit", "{d1:.3f} {d1.unit}", "15.000 mm"},
		{"sliced comment", "{height.comment[0:5]}", "The h"},
		{"formatted date", "{_.date:%m/%d/%Y}", "09/27/2020"},
		{"component strips version suffix", "{_.file} / {_.component}", "Bracket / Bracket"},
		{"newline token", "a{_.newline}b", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, report := renderOne(t, tc.template, testParams())
			require.True(t, report.OK(), "failures: %v", report.Failures)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderAll_PerTargetContext(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-a", resolve.TargetContext{Component: "Left", Sketch: "Label"})
	host.addTarget("tok-b", resolve.TargetContext{Component: "Right", Sketch: "Label"})

	doc := registry.NewDocument()
	e := doc.NewEntry("{_.component}")
	require.NoError(t, doc.Bind(e.ID(), "tok-a", registry.DisplayHint{}))
	require.NoError(t, doc.Bind(e.ID(), "tok-b", registry.DisplayHint{}))

	report := NewEngine(host, host).RenderAll(context.Background(), doc, nil)

	require.True(t, report.OK())
	assert.Equal(t, "Left", host.texts["tok-a"])
	assert.Equal(t, "Right", host.texts["tok-b"])
}

func TestRenderAll_FailuresDoNotAbortBatch(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-ok", resolve.TargetContext{})
	host.addTarget("tok-sink", resolve.TargetContext{})
	host.failTokens["tok-sink"] = errors.New("entity busy")

	doc := registry.NewDocument()
	bad := doc.NewEntry("{unclosed")
	unknown := doc.NewEntry("{nosuch}")
	require.NoError(t, doc.Bind(unknown.ID(), "tok-ok", registry.DisplayHint{}))
	dangling := doc.NewEntry("{d1}")
	require.NoError(t, doc.Bind(dangling.ID(), "", registry.DisplayHint{Component: "Lost", Sketch: "Gone"}))
	sinkFail := doc.NewEntry("{d1}")
	require.NoError(t, doc.Bind(sinkFail.ID(), "tok-sink", registry.DisplayHint{}))
	good := doc.NewEntry("{d1} {d1.unit}")
	require.NoError(t, doc.Bind(good.ID(), "tok-ok", registry.DisplayHint{}))

	report := NewEngine(host, host).RenderAll(context.Background(), doc, testParams())

	require.Len(t, report.Failures, 4)
	assert.Equal(t, "15 mm", host.texts["tok-ok"], "healthy entry still rendered")
	assert.Equal(t, 1, report.Rendered)

	byEntry := map[uint64]error{}
	for _, f := range report.Failures {
		byEntry[f.EntryID] = f.Err
	}
	var parseErr *template.ParseError
	assert.ErrorAs(t, byEntry[bad.ID()], &parseErr)
	var unknownErr *resolve.UnknownParameterError
	assert.ErrorAs(t, byEntry[unknown.ID()], &unknownErr)
	var danglingErr *DanglingTokenError
	assert.ErrorAs(t, byEntry[dangling.ID()], &danglingErr)
	var sinkErr *SinkError
	assert.ErrorAs(t, byEntry[sinkFail.ID()], &sinkErr)
	assert.ErrorContains(t, sinkErr, "entity busy")
}

func TestRenderAll_UnresolvableTokenIsDangling(t *testing.T) {
	host := newFakeHost()
	doc := registry.NewDocument()
	e := doc.NewEntry("{d1}")
	require.NoError(t, doc.Bind(e.ID(), "tok-deleted", registry.DisplayHint{}))

	report := NewEngine(host, host).RenderAll(context.Background(), doc, testParams())

	require.Len(t, report.Failures, 1)
	var danglingErr *DanglingTokenError
	require.ErrorAs(t, report.Failures[0].Err, &danglingErr)
	assert.Equal(t, "tok-deleted", danglingErr.Token)
}

func TestRenderAll_RecomputeOnlyWhenChanged(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{})

	doc := registry.NewDocument()
	e := doc.NewEntry("V{_.version}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", registry.DisplayHint{}))

	engine := NewEngine(host, host, WithRecompute(host))

	report := engine.RenderAll(context.Background(), doc, nil)
	assert.True(t, report.Changed)
	assert.Equal(t, 1, host.recomputes)

	report = engine.RenderAll(context.Background(), doc, nil)
	assert.False(t, report.Changed, "identical text must not count as a change")
	assert.Equal(t, 1, host.recomputes, "unchanged batch must not trigger recompute")
}

func TestRenderAll_RecomputeFailureIsANotice(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{})
	host.recomputeErr = errors.New("compute busy")

	doc := registry.NewDocument()
	e := doc.NewEntry("V{_.version}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", registry.DisplayHint{}))

	report := NewEngine(host, host, WithRecompute(host)).RenderAll(context.Background(), doc, nil)

	assert.True(t, report.OK(), "recompute failure is not a render failure")
	require.Len(t, report.Notices, 1)
	assert.Contains(t, report.Notices[0], "compute busy")
}

func TestRenderAll_SingleUndoGroupPerBatch(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{})
	host.addTarget("tok-2", resolve.TargetContext{})

	doc := registry.NewDocument()
	a := doc.NewEntry("{d1}")
	require.NoError(t, doc.Bind(a.ID(), "tok-1", registry.DisplayHint{}))
	require.NoError(t, doc.Bind(a.ID(), "tok-2", registry.DisplayHint{}))
	b := doc.NewEntry("{height}")
	require.NoError(t, doc.Bind(b.ID(), "tok-1", registry.DisplayHint{}))

	NewEngine(host, host, WithUndoGrouper(host)).RenderAll(context.Background(), doc, testParams())

	assert.Equal(t, 1, host.undoBegun)
	assert.Equal(t, 1, host.undoClosed)
}

func TestRenderAll_TemplateCacheReusesParses(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{})

	doc := registry.NewDocument()
	e := doc.NewEntry("{d1} {d1.unit}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", registry.DisplayHint{}))

	cache := NewTemplateCache()
	engine := NewEngine(host, host, WithTemplateCache(cache))

	report := engine.RenderAll(context.Background(), doc, testParams())
	require.True(t, report.OK())

	segments, ok := cache.Get(context.Background(), "{d1} {d1.unit}")
	require.True(t, ok)
	assert.Len(t, segments, 3)

	report = engine.RenderAll(context.Background(), doc, testParams())
	require.True(t, report.OK())
	assert.Equal(t, "15 mm", host.texts["tok-1"])
}

func TestUpdate_AppliesPatchesThenRenders(t *testing.T) {
	host := newFakeHost()
	host.addTarget("tok-1", resolve.TargetContext{})

	doc := registry.NewDocument()
	e := doc.NewEntry("{d1}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", registry.DisplayHint{}))

	tmpl := "{d1:.3f}"
	report, err := NewEngine(host, host).Update(context.Background(), doc,
		[]registry.Patch{{ID: e.ID(), Template: &tmpl}}, testParams())

	require.NoError(t, err)
	require.True(t, report.OK())
	assert.Equal(t, "15.000", host.texts["tok-1"])
}

func TestUpdate_BadPatchSkipsRender(t *testing.T) {
	host := newFakeHost()
	doc := registry.NewDocument()

	_, err := NewEngine(host, host).Update(context.Background(), doc,
		[]registry.Patch{{ID: 7}}, nil)

	var notFound *registry.EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Zero(t, host.writes)
}

func TestPreview_DoesNotWrite(t *testing.T) {
	host := newFakeHost()

	got, err := NewEngine(host, host).Preview(context.Background(), "V{_.version:03}", nil,
		resolve.TargetContext{Component: "Bracket", Sketch: "Label"})

	require.NoError(t, err)
	assert.Equal(t, "V005", got)
	assert.Zero(t, host.writes)
	assert.Empty(t, host.texts)
}
