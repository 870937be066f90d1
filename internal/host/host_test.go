package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/paratext/internal/registry"
)

func TestMemoryHost_CreateTargetMintsUniqueTokens(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)

	a := h.CreateTarget("Bracket", "Label")
	b := h.CreateTarget("Bracket", "Engraving")

	assert.NotEmpty(t, a.Token)
	assert.NotEqual(t, a.Token, b.Token)

	tc, ok := h.Target(a.Token)
	require.True(t, ok)
	assert.Equal(t, "Label", tc.Sketch)
}

func TestMemoryHost_WriteTargetTextReportsChange(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)
	target := h.CreateTarget("Bracket", "Label")

	changed, err := h.WriteTargetText(target.Token, "V001")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = h.WriteTargetText(target.Token, "V001")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = h.WriteTargetText("nope", "x")
	var unknown *UnknownTargetError
	require.ErrorAs(t, err, &unknown)
}

func TestMemoryHost_DuplicateKeepsSketchAndText(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)
	src := h.CreateTarget("Bracket", "Label")
	_, err := h.WriteTargetText(src.Token, "V001")
	require.NoError(t, err)

	dup, err := h.DuplicateTarget(src.Token, "Bracket (2)")
	require.NoError(t, err)

	assert.NotEqual(t, src.Token, dup.Token)
	assert.Equal(t, "Label", dup.Sketch)
	assert.Equal(t, "V001", dup.Text)
	assert.Equal(t, "Bracket (2)", dup.Component)
}

func TestMemoryHost_RenamesKeepTokensStable(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)
	a := h.CreateTarget("Bracket", "Label")
	b := h.CreateTarget("Bracket", "Engraving")
	c := h.CreateTarget("Lid", "Label")

	require.NoError(t, h.RenameSketch(a.Token, "NewLabel"))
	affected := h.RenameComponent("Bracket", "Base")

	assert.ElementsMatch(t, []string{a.Token, b.Token}, affected)
	tc, ok := h.Target(a.Token)
	require.True(t, ok)
	assert.Equal(t, "Base", tc.Component)
	assert.Equal(t, "NewLabel", tc.Sketch)
	tc, _ = h.Target(c.Token)
	assert.Equal(t, "Lid", tc.Component)
}

func TestMemoryHost_ResolveTargetName(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)
	target := h.CreateTarget("Bracket", "Label")

	token, ok := h.ResolveTargetName("Bracket", "Label")
	require.True(t, ok)
	assert.Equal(t, target.Token, token)

	_, ok = h.ResolveTargetName("Bracket", "Renamed")
	assert.False(t, ok)
}

func TestMemoryHost_RemoveTargetLeavesBindingDangling(t *testing.T) {
	h := NewMemoryHost("Bracket v1", 1)
	target := h.CreateTarget("Bracket", "Label")

	doc := registry.NewDocument()
	e := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(e.ID(), target.Token, registry.DisplayHint{Sketch: "Label"}))

	require.NoError(t, h.RemoveTarget(target.Token))

	_, ok := h.Target(target.Token)
	assert.False(t, ok, "token must stop resolving")
	assert.True(t, e.HasToken(target.Token), "binding stays, dangling at render time")
}

func TestMemoryHost_SnapshotRoundTrip(t *testing.T) {
	h := NewMemoryHost("Bracket v3", 3)
	ctx := h.Document()
	ctx.Saved = true
	h.SetContext(ctx)
	a := h.CreateTarget("Bracket", "Label")
	_, err := h.WriteTargetText(a.Token, "V003")
	require.NoError(t, err)
	h.CreateTarget("Lid", "Engraving")

	blob, err := h.Snapshot()
	require.NoError(t, err)

	got, err := RestoreHost(blob)
	require.NoError(t, err)

	assert.Equal(t, h.Document().File, got.Document().File)
	assert.Equal(t, h.Document().Version, got.Document().Version)
	assert.True(t, got.Document().Saved)
	require.Equal(t, h.Targets(), got.Targets())

	tc, ok := got.Target(a.Token)
	require.True(t, ok)
	assert.Equal(t, "Label", tc.Sketch)
}
