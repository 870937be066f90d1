// Package template parses the parametric text mini-language.
//
// A template is literal text interleaved with field expressions in braces:
//
//	V{_.version:03} made {_.date}
//
// Each field is base[.attribute][slice][:format], for example
// {height.comment[0:5]} or {d1:.3f}. Braces always delimit a field; there is
// no escape syntax for a literal '{' or '}' in literal text.
package template

import "strconv"

// Parse splits a template into literal and field segments, preserving order
// and adjacency. Field expressions are parsed into their components.
func Parse(input string) ([]Segment, error) {
	var segments []Segment
	lit := -1 // start of the current literal run, -1 when none

	for i := 0; i < len(input); {
		switch input[i] {
		case '{':
			if lit >= 0 {
				segments = append(segments, Literal{Text: input[lit:i]})
				lit = -1
			}
			close := indexByte(input, '}', i+1)
			if close < 0 {
				return nil, parseErr(UnbalancedBrace, i, input[i:])
			}
			raw := input[i+1 : close]
			if raw == "" {
				return nil, parseErr(EmptyField, i, "{}")
			}
			field, err := parseField(raw, i+1)
			if err != nil {
				return nil, err
			}
			segments = append(segments, field)
			i = close + 1
		case '}':
			// A '}' outside a field has nothing to close.
			return nil, parseErr(UnbalancedBrace, i, "}")
		default:
			if lit < 0 {
				lit = i
			}
			i++
		}
	}
	if lit >= 0 {
		segments = append(segments, Literal{Text: input[lit:]})
	}
	return segments, nil
}

// parseField splits a raw field expression into base, attribute, slice and
// format. pos is the offset of raw within the whole template, for errors.
func parseField(raw string, pos int) (Field, error) {
	field := Field{Raw: raw}
	i := 0

	// base: everything up to '.', '[' or ':'
	start := i
	for i < len(raw) && raw[i] != '.' && raw[i] != '[' && raw[i] != ':' {
		i++
	}
	field.Base = raw[start:i]
	if field.Base == "" {
		return field, parseErr(EmptyField, pos+i, raw)
	}

	// optional .attribute: everything up to '[' or ':'
	if i < len(raw) && raw[i] == '.' {
		i++
		start = i
		for i < len(raw) && raw[i] != '[' && raw[i] != ':' {
			i++
		}
		field.Attribute = raw[start:i]
		if field.Attribute == "" {
			return field, parseErr(EmptyField, pos+i, raw)
		}
	}

	// optional [slice]
	if i < len(raw) && raw[i] == '[' {
		end := indexByte(raw, ']', i+1)
		if end < 0 {
			return field, parseErr(MalformedSlice, pos+i, raw[i:])
		}
		slice, ok := parseSlice(raw[i+1 : end])
		if !ok {
			return field, parseErr(MalformedSlice, pos+i, raw[i:end+1])
		}
		field.Slice = slice
		i = end + 1
	}

	// optional :format, consuming the rest of the expression
	if i < len(raw) {
		if raw[i] != ':' {
			return field, parseErr(MalformedSlice, pos+i, raw[i:])
		}
		field.HasFormat = true
		field.Format = raw[i+1:]
	}

	return field, nil
}

// parseSlice parses the text between '[' and ']'. Accepted forms are a bare
// index "n" (meaning [n:n+1]) and "a:b" with either bound optional. Steps and
// non-integer bounds are rejected.
func parseSlice(body string) (*Slice, bool) {
	if body == "" {
		return nil, false
	}
	colon := indexByte(body, ':', 0)
	if colon < 0 {
		n, ok := parseBound(body)
		if !ok || n == nil {
			return nil, false
		}
		stop := *n + 1
		return &Slice{Start: n, Stop: &stop}, true
	}
	start, ok := parseBound(body[:colon])
	if !ok {
		return nil, false
	}
	stop, ok := parseBound(body[colon+1:])
	if !ok {
		return nil, false
	}
	return &Slice{Start: start, Stop: stop}, true
}

// parseBound parses an optional signed integer. An empty string is a valid
// open bound (nil).
func parseBound(s string) (*int, bool) {
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &n, true
}

func indexByte(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
