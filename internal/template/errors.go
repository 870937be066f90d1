package template

import "fmt"

// ErrorKind classifies template parse failures.
type ErrorKind int

const (
	// UnbalancedBrace marks a '{' without a closing '}' or a stray '}'.
	UnbalancedBrace ErrorKind = iota
	// EmptyField marks "{}" or a field with an empty base or attribute.
	EmptyField
	// MalformedSlice marks a slice that is not [n], [a:b], [a:], [:b] or [:].
	MalformedSlice
)

func (k ErrorKind) String() string {
	switch k {
	case UnbalancedBrace:
		return "unbalanced brace"
	case EmptyField:
		return "empty field"
	case MalformedSlice:
		return "malformed slice"
	default:
		return "unknown"
	}
}

// ParseError describes why a template failed to parse.
type ParseError struct {
	Kind   ErrorKind
	Pos    int    // byte offset into the template
	Detail string // offending text
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at position %d", e.Kind, e.Pos)
	}
	return fmt.Sprintf("%s at position %d: %q", e.Kind, e.Pos, e.Detail)
}

func parseErr(kind ErrorKind, pos int, detail string) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Detail: detail}
}
