// Package value holds the typed values produced by symbol resolution and the
// slice and format evaluators applied to them.
package value

import "time"

// Kind tags a resolved value.
type Kind int

const (
	// KindNumber is a numeric parameter value.
	KindNumber Kind = iota
	// KindText is a string value (units, comments, names, ...).
	KindText
	// KindTime is the document save timestamp, formatted with date directives.
	KindTime
	// KindNewline is the literal line break. Slicing and formatting are
	// no-ops on it.
	KindNewline
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "date"
	case KindNewline:
		return "newline"
	default:
		return "unknown"
	}
}

// Value is a tagged resolved value.
type Value struct {
	kind Kind
	num  float64
	text string
	time time.Time
}

// Number wraps a float as a Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string as a Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Time wraps a timestamp as a Value.
func Time(t time.Time) Value { return Value{kind: KindTime, time: t} }

// Newline is the literal line-break value.
func Newline() Value { return Value{kind: KindNewline, text: "\n"} }

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric payload. Only meaningful for KindNumber.
func (v Value) Num() float64 { return v.num }

// Str returns the string payload. Only meaningful for KindText and
// KindNewline.
func (v Value) Str() string { return v.text }

// Timestamp returns the time payload. Only meaningful for KindTime.
func (v Value) Timestamp() time.Time { return v.time }
