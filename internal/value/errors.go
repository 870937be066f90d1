package value

import "fmt"

// TypeErrorKind classifies modifier/type mismatches.
type TypeErrorKind int

const (
	// SliceOnNumber marks a slice applied to a non-text value. Numeric
	// width and precision go through the format spec, never slicing.
	SliceOnNumber TypeErrorKind = iota
	// FormatTypeMismatch marks a numeric-only format spec applied to text.
	FormatTypeMismatch
)

func (k TypeErrorKind) String() string {
	switch k {
	case SliceOnNumber:
		return "cannot slice a non-text value"
	case FormatTypeMismatch:
		return "numeric format applied to text"
	default:
		return "type error"
	}
}

// TypeError reports a modifier applied to a value of the wrong kind.
type TypeError struct {
	Kind TypeErrorKind
	Got  Kind   // kind of the offending value
	Spec string // format spec, when relevant
}

func (e *TypeError) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("%s: spec %q on %s value", e.Kind, e.Spec, e.Got)
	}
	return fmt.Sprintf("%s: got %s value", e.Kind, e.Got)
}
