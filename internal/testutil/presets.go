package testutil

import "testing"

// VersionedBracket is the standard fixture: a bracket with a version label
// on two occurrences and a dimension engraving.
func VersionedBracket(t *testing.T) *Workspace {
	t.Helper()
	return NewBuilder(t).
		WithFile("Bracket v5", 5).
		WithParam("d1", 15, WithUnit("mm"), WithExpr("15 mm")).
		WithParam("height", 30, WithUnit("mm"), WithComment("The height of the part")).
		WithTarget("label", "Bracket", "Label").
		WithTarget("label2", "Bracket (2)", "Label").
		WithTarget("engraving", "Bracket", "Engraving").
		WithEntry("V{_.version:03}", "label", "label2").
		WithEntry("{d1:.3f} {d1.unit}", "engraving").
		Build()
}

// EmptyDocument is a host with targets but no entries yet.
func EmptyDocument(t *testing.T) *Workspace {
	t.Helper()
	return NewBuilder(t).
		WithTarget("label", "Bracket", "Label").
		Build()
}
