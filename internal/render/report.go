package render

import "fmt"

// Failure records one entry/target that did not render. Token is empty when
// the failure covers the whole entry, e.g. a template parse error.
type Failure struct {
	EntryID uint64
	Token   string
	Err     error
}

// Report is the outcome of one batch render. Failures never abort the
// batch; they are collected here and surfaced once.
type Report struct {
	Rendered int  // target writes applied
	Changed  bool // at least one target's text actually changed
	Failures []Failure
	Notices  []string
}

// OK reports whether the batch completed without a single failure.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

func (r *Report) fail(entryID uint64, token string, err error) {
	r.Failures = append(r.Failures, Failure{EntryID: entryID, Token: token, Err: err})
}

// Summary is a one-line account suitable for a non-blocking notification.
func (r *Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("rendered %d target(s)", r.Rendered)
	}
	return fmt.Sprintf("rendered %d target(s), %d failure(s)", r.Rendered, len(r.Failures))
}
