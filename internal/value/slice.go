package value

// Slice applies a left-inclusive, right-exclusive substring range to a text
// value. Indices are rune-based and zero-based; negative indices count from
// the end; nil bounds default to the start and end of the string. Out of
// range indices clamp, they never fail. Slicing a newline value is a no-op;
// slicing a number or date is a type error.
func Slice(v Value, start, stop *int) (Value, error) {
	switch v.Kind() {
	case KindNewline:
		return v, nil
	case KindText:
	default:
		return Value{}, &TypeError{Kind: SliceOnNumber, Got: v.Kind()}
	}

	runes := []rune(v.Str())
	n := len(runes)

	lo := 0
	if start != nil {
		lo = clampIndex(*start, n)
	}
	hi := n
	if stop != nil {
		hi = clampIndex(*stop, n)
	}
	if hi < lo {
		hi = lo
	}
	return Text(string(runes[lo:hi])), nil
}

// clampIndex normalizes a possibly negative index and clamps it to [0, n].
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
