package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDocument_NewEntryAssignsMonotonicIDs(t *testing.T) {
	doc := NewDocument()

	a := doc.NewEntry("{d}")
	b := doc.NewEntry("{_.version}")

	assert.Equal(t, uint64(0), a.ID())
	assert.Equal(t, uint64(1), b.ID())
	assert.Equal(t, uint64(2), doc.NextID())
}

func TestDocument_RemovedIDsAreNeverRecycled(t *testing.T) {
	doc := NewDocument()

	a := doc.NewEntry("{d}")
	require.NoError(t, doc.RemoveEntry(a.ID()))

	b := doc.NewEntry("{d}")
	assert.Equal(t, uint64(1), b.ID())
	assert.Equal(t, uint64(2), doc.NextID())

	_, err := doc.Entry(a.ID())
	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, a.ID(), notFound.ID)
}

func TestDocument_BindPreservesOrderAndRejectsDuplicates(t *testing.T) {
	doc := NewDocument()
	e := doc.NewEntry("{d} mm")

	require.NoError(t, doc.Bind(e.ID(), "tok-1", DisplayHint{Component: "Bracket", Sketch: "Label"}))
	require.NoError(t, doc.Bind(e.ID(), "tok-2", DisplayHint{Component: "Bracket", Sketch: "Engraving"}))

	err := doc.Bind(e.ID(), "tok-1", DisplayHint{Component: "Bracket", Sketch: "Label"})
	var dup *DuplicateBindingError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "tok-1", dup.Token)

	bindings := e.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "tok-1", bindings[0].Token)
	assert.Equal(t, "tok-2", bindings[1].Token)
}

func TestDocument_UnbindLastBindingKeepsEntryAlive(t *testing.T) {
	doc := NewDocument()
	e := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", DisplayHint{}))

	require.NoError(t, doc.Unbind(e.ID(), "tok-1"))

	got, err := doc.Entry(e.ID())
	require.NoError(t, err)
	assert.Empty(t, got.Bindings())
}

func TestDocument_RebindOnDuplicateExtendsSameEntry(t *testing.T) {
	doc := NewDocument()
	e := doc.NewEntry("{_.component} v{_.version}")
	require.NoError(t, doc.Bind(e.ID(), "tok-src", DisplayHint{Component: "Bracket", Sketch: "Label"}))

	added := doc.RebindOnDuplicate([]DuplicatedTarget{
		{SourceToken: "tok-src", NewToken: "tok-copy", Hint: DisplayHint{Component: "Bracket (2)", Sketch: "Label"}},
	})

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, doc.Len(), "duplication must not create a new entry")
	assert.Equal(t, uint64(1), doc.NextID(), "duplication must not consume an id")

	bindings := e.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "tok-copy", bindings[1].Token)
	assert.Equal(t, "Bracket (2)", bindings[1].Hint.Component)
}

func TestDocument_RebindOnDuplicateCoversEveryBoundEntry(t *testing.T) {
	doc := NewDocument()
	a := doc.NewEntry("{d}")
	b := doc.NewEntry("{_.date}")
	require.NoError(t, doc.Bind(a.ID(), "tok-src", DisplayHint{}))
	require.NoError(t, doc.Bind(b.ID(), "tok-src", DisplayHint{}))

	added := doc.RebindOnDuplicate([]DuplicatedTarget{
		{SourceToken: "tok-src", NewToken: "tok-copy"},
	})

	assert.Equal(t, 2, added)
	assert.True(t, a.HasToken("tok-copy"))
	assert.True(t, b.HasToken("tok-copy"))
}

func TestDocument_UpdateHintTouchesOnlyTheHint(t *testing.T) {
	doc := NewDocument()
	e := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(e.ID(), "tok-1", DisplayHint{Component: "Old", Sketch: "Label"}))

	updated := doc.UpdateHint("tok-1", DisplayHint{Component: "Renamed", Sketch: "Label"})

	assert.Equal(t, 1, updated)
	assert.Equal(t, uint64(1), doc.NextID())
	bindings := e.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "tok-1", bindings[0].Token)
	assert.Equal(t, "Renamed", bindings[0].Hint.Component)
}

func TestDocument_ApplyIsTransactional(t *testing.T) {
	doc := NewDocument()
	a := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(a.ID(), "tok-1", DisplayHint{}))

	tmpl := "{d:.3f}"
	err := doc.Apply([]Patch{
		{ID: a.ID(), Template: &tmpl},
		{ID: 99, RemoveTokens: []string{"tok-1"}},
	})

	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "{d}", a.Template(), "failed batch must leave the document untouched")
	assert.True(t, a.HasToken("tok-1"))
}

func TestDocument_ApplyRejectsWithinBatchCollisions(t *testing.T) {
	tmpl := "new"
	tests := []struct {
		name    string
		patches func(id uint64) []Patch
	}{
		{
			"token repeated in one patch",
			func(id uint64) []Patch {
				return []Patch{{ID: id, Template: &tmpl, AddBindings: []Binding{
					{Token: "tok-1"}, {Token: "tok-1"},
				}}}
			},
		},
		{
			"two patches adding the same token",
			func(id uint64) []Patch {
				return []Patch{
					{ID: id, Template: &tmpl, AddBindings: []Binding{{Token: "tok-1"}}},
					{ID: id, AddBindings: []Binding{{Token: "tok-1"}}},
				}
			},
		},
		{
			"dangling hint repeated in one patch",
			func(id uint64) []Patch {
				hint := DisplayHint{Component: "Bracket", Sketch: "Label"}
				return []Patch{{ID: id, Template: &tmpl, AddBindings: []Binding{
					{Hint: hint}, {Hint: hint},
				}}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument()
			a := doc.NewEntry("old")

			err := doc.Apply(tt.patches(a.ID()))

			var dup *DuplicateBindingError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, "old", a.Template(), "failed batch must leave the document untouched")
			assert.Empty(t, a.Bindings())
		})
	}
}

func TestDocument_ApplyAllowsRebindAcrossPatches(t *testing.T) {
	doc := NewDocument()
	a := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(a.ID(), "tok-1", DisplayHint{Sketch: "Label"}))

	// Removing a token and re-adding it in the same batch is legal; the
	// patches apply in order.
	err := doc.Apply([]Patch{
		{ID: a.ID(), RemoveTokens: []string{"tok-1"}},
		{ID: a.ID(), AddBindings: []Binding{{Token: "tok-1", Hint: DisplayHint{Sketch: "Engraving"}}}},
	})

	require.NoError(t, err)
	require.True(t, a.HasToken("tok-1"))
	assert.Equal(t, "Engraving", a.Bindings()[0].Hint.Sketch)
}

func TestDocument_ApplyPatchesTemplateAndBindings(t *testing.T) {
	doc := NewDocument()
	a := doc.NewEntry("{d}")
	require.NoError(t, doc.Bind(a.ID(), "tok-1", DisplayHint{}))

	tmpl := "{d} mm"
	err := doc.Apply([]Patch{
		{
			ID:           a.ID(),
			Template:     &tmpl,
			AddBindings:  []Binding{{Token: "tok-2", Hint: DisplayHint{Sketch: "Engraving"}}},
			RemoveTokens: []string{"tok-1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "{d} mm", a.Template())
	assert.False(t, a.HasToken("tok-1"))
	assert.True(t, a.HasToken("tok-2"))
}

func TestRestore_RejectsInconsistentState(t *testing.T) {
	tests := []struct {
		name    string
		nextID  uint64
		entries []*Entry
	}{
		{
			name:   "duplicate ids",
			nextID: 5,
			entries: []*Entry{
				RestoreEntry(1, "{d}", nil),
				RestoreEntry(1, "{h}", nil),
			},
		},
		{
			name:   "id not below next id",
			nextID: 2,
			entries: []*Entry{
				RestoreEntry(2, "{d}", nil),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Restore(tc.nextID, tc.entries)
			var invalid *InvalidDocumentError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestRestore_RoundTripsEntries(t *testing.T) {
	entries := []*Entry{
		RestoreEntry(0, "{d}", []Binding{{Token: "tok-1"}}),
		RestoreEntry(3, "{_.version}", []Binding{{Hint: DisplayHint{Component: "Bracket", Sketch: "Label"}}}),
	}

	doc, err := Restore(4, entries)
	require.NoError(t, err)

	assert.Equal(t, uint64(4), doc.NextID())
	require.Equal(t, 2, doc.Len())
	assert.True(t, doc.Entries()[1].Bindings()[0].Dangling())

	next := doc.NewEntry("{w}")
	assert.Equal(t, uint64(4), next.ID())
}

// Under any interleaving of creates, removes, binds and duplications the id
// counter stays above every live id and duplication never mints an entry.
func TestDocument_IdentityInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := NewDocument()
		var live []uint64
		tokenSeq := 0

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				e := doc.NewEntry("{d}")
				live = append(live, e.ID())
			case 1:
				if len(live) == 0 {
					continue
				}
				idx := rapid.IntRange(0, len(live)-1).Draw(t, "rm")
				require.NoError(t, doc.RemoveEntry(live[idx]))
				live = append(live[:idx], live[idx+1:]...)
			case 2:
				if len(live) == 0 {
					continue
				}
				idx := rapid.IntRange(0, len(live)-1).Draw(t, "bind")
				tokenSeq++
				require.NoError(t, doc.Bind(live[idx], token(tokenSeq), DisplayHint{}))
			case 3:
				before := doc.NextID()
				tokenSeq++
				doc.RebindOnDuplicate([]DuplicatedTarget{
					{SourceToken: token(rapid.IntRange(0, tokenSeq).Draw(t, "src")), NewToken: token(tokenSeq)},
				})
				require.Equal(t, before, doc.NextID())
			}

			require.Equal(t, len(live), doc.Len())
			for _, e := range doc.Entries() {
				require.Less(t, e.ID(), doc.NextID())
			}
		}
	})
}

func token(n int) string {
	return fmt.Sprintf("tok-%d", n)
}
