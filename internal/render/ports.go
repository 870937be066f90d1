package render

import "github.com/zjrosen/paratext/internal/resolve"

// TextSink writes a rendered string into one display target. It reports
// whether the target's text actually changed so the engine can skip the
// recompute signal on no-op batches. A write is atomic per target: on error
// the target keeps its previous text.
type TextSink interface {
	WriteTargetText(token, text string) (changed bool, err error)
}

// RecomputeTrigger asks the host to recompute dependent geometry. Failures
// are downgraded to notices, never raised out of a batch.
type RecomputeTrigger interface {
	TriggerRecompute() error
}

// UndoGrouper wraps a batch in one undoable unit. Begin returns the closer
// that seals the group.
type UndoGrouper interface {
	BeginUndoGroup(name string) func()
}

// ContextProvider supplies the document-level context and the per-target
// context for a durable token. Target returns false for tokens that no
// longer resolve to a live target.
type ContextProvider interface {
	Document() resolve.Context
	Target(token string) (resolve.TargetContext, bool)
}
