package render

import (
	"fmt"

	"github.com/zjrosen/paratext/internal/registry"
)

// DanglingTokenError marks a binding whose target cannot be reached: either
// the token was lost (legacy migration) or it no longer resolves.
type DanglingTokenError struct {
	Token string
	Hint  registry.DisplayHint
}

func (e *DanglingTokenError) Error() string {
	where := e.Token
	if where == "" {
		where = fmt.Sprintf("%s/%s", e.Hint.Component, e.Hint.Sketch)
	}
	return fmt.Sprintf("render: target %s is unreachable", where)
}

// SinkError wraps a host write failure for one target.
type SinkError struct {
	Token string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("render: write to target %s: %v", e.Token, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
