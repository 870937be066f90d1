package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BadSpecError reports a format spec the minilanguage cannot parse.
type BadSpecError struct {
	Spec string
}

func (e *BadSpecError) Error() string {
	return fmt.Sprintf("invalid format spec %q", e.Spec)
}

// defaultDateFormat is the rendering of _.date when no spec is given.
const defaultDateFormat = "%Y-%m-%d"

// Format renders a value through a format spec. An empty spec yields the
// value's natural representation: shortest round-trip decimal for numbers
// (after rounding away binary-float noise), the text itself for strings and
// ISO 8601 for dates. Date values take strftime-style directives; other
// values take a subset of the Python format minilanguage:
//
//	[[fill]align][sign][0][width][.precision][type]
//
// with types d, f, F, e, E, g, G, s and %.
func Format(v Value, spec string) (string, error) {
	switch v.Kind() {
	case KindNewline:
		// Literal line break, modifiers do not apply.
		return v.Str(), nil
	case KindTime:
		if spec == "" {
			spec = defaultDateFormat
		}
		return strftime(v.Timestamp(), spec), nil
	}

	if spec == "" {
		if v.Kind() == KindNumber {
			return defaultNumber(v.Num()), nil
		}
		return v.Str(), nil
	}

	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	if v.Kind() == KindText {
		if fs.verb != 0 && fs.verb != 's' {
			return "", &TypeError{Kind: FormatTypeMismatch, Got: KindText, Spec: spec}
		}
		return fs.padText(v.Str()), nil
	}

	return fs.formatNumber(v.Num(), spec)
}

// formatSpec is a parsed format minilanguage spec.
type formatSpec struct {
	fill      byte
	align     byte // '<', '>', '^', '=' or 0
	sign      byte // '+', '-', ' ' or 0
	zero      bool
	width     int // -1 when absent
	precision int // -1 when absent
	verb      byte // trailing type character, 0 when absent
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', width: -1, precision: -1}
	i := 0

	if len(spec) >= 2 && isAlign(spec[1]) {
		fs.fill = spec[0]
		fs.align = spec[1]
		i = 2
	} else if len(spec) >= 1 && isAlign(spec[0]) {
		fs.align = spec[0]
		i = 1
	}

	if i < len(spec) && (spec[i] == '+' || spec[i] == '-' || spec[i] == ' ') {
		fs.sign = spec[i]
		i++
	}

	if i < len(spec) && spec[i] == '0' {
		fs.zero = true
		i++
	}

	start := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		fs.width, _ = strconv.Atoi(spec[start:i])
	}

	if i < len(spec) && spec[i] == '.' {
		i++
		start = i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if i == start {
			return fs, &BadSpecError{Spec: spec}
		}
		fs.precision, _ = strconv.Atoi(spec[start:i])
	}

	if i < len(spec) {
		switch spec[i] {
		case 'd', 'f', 'F', 'e', 'E', 'g', 'G', 's', '%':
			fs.verb = spec[i]
			i++
		}
	}
	if i != len(spec) {
		return fs, &BadSpecError{Spec: spec}
	}
	return fs, nil
}

// formatNumber renders a float through the parsed spec.
func (fs formatSpec) formatNumber(v float64, spec string) (string, error) {
	prec := fs.precision
	var digits string

	switch fs.verb {
	case 'd':
		digits = strconv.FormatInt(int64(math.Round(math.Abs(v))), 10)
	case 'f', 'F':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(math.Abs(v), 'f', prec, 64)
	case 'e', 'E':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(math.Abs(v), byte(fs.verb), prec, 64)
	case 'g', 'G':
		digits = generalFloat(math.Abs(v), prec, fs.verb == 'G')
	case '%':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(math.Abs(v)*100, 'f', prec, 64) + "%"
	case 0:
		if prec >= 0 {
			digits = generalFloat(math.Abs(v), prec, false)
		} else {
			digits = defaultNumber(math.Abs(v))
		}
	default:
		// 's' and anything else is not a numeric conversion.
		return "", &BadSpecError{Spec: spec}
	}

	sign := ""
	if math.Signbit(v) && v != 0 {
		sign = "-"
	} else if fs.sign == '+' {
		sign = "+"
	} else if fs.sign == ' ' {
		sign = " "
	}

	return fs.padNumber(sign, digits), nil
}

// padNumber applies width, fill and alignment. Numbers default to right
// alignment; '=' (and the 0 flag) pads between the sign and the digits.
func (fs formatSpec) padNumber(sign, digits string) string {
	body := sign + digits
	if fs.width < 0 || len(body) >= fs.width {
		return body
	}
	pad := fs.width - len(body)

	align := fs.align
	fill := fs.fill
	if fs.zero && align == 0 {
		align = '='
		fill = '0'
	}

	switch align {
	case '=':
		return sign + strings.Repeat(string(fill), pad) + digits
	case '<':
		return body + strings.Repeat(string(fill), pad)
	case '^':
		left := pad / 2
		return strings.Repeat(string(fill), left) + body + strings.Repeat(string(fill), pad-left)
	default: // '>' and unset
		return strings.Repeat(string(fill), pad) + body
	}
}

// padText truncates to the precision and pads to the width. Text defaults to
// left alignment.
func (fs formatSpec) padText(s string) string {
	runes := []rune(s)
	if fs.precision >= 0 && len(runes) > fs.precision {
		runes = runes[:fs.precision]
	}
	out := string(runes)
	if fs.width < 0 || len(runes) >= fs.width {
		return out
	}
	pad := fs.width - len(runes)
	fill := fs.fill
	if fs.zero {
		fill = '0'
	}

	switch fs.align {
	case '>':
		return strings.Repeat(string(fill), pad) + out
	case '^':
		left := pad / 2
		return strings.Repeat(string(fill), left) + out + strings.Repeat(string(fill), pad-left)
	default: // '<' and unset
		return out + strings.Repeat(string(fill), pad)
	}
}

// generalFloat is significant-digit formatting: at most prec significant
// digits, trailing zeros removed, scientific notation when the exponent
// leaves the fixed range.
func generalFloat(v float64, prec int, upper bool) string {
	if prec < 0 {
		prec = 6
	}
	if prec == 0 {
		prec = 1
	}
	verb := byte('g')
	if upper {
		verb = 'G'
	}
	return strconv.FormatFloat(v, verb, prec, 64)
}

// defaultNumber is the spec-less rendering: round away accumulated
// binary-float noise, then emit the shortest representation that round-trips.
func defaultNumber(v float64) string {
	return strconv.FormatFloat(roundNoise(v), 'g', -1, 64)
}

// roundNoise rounds to 10 decimal places so unit-converted values such as
// 42.99999999999998 render as 43.
func roundNoise(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	const scale = 1e10
	if math.Abs(v) >= 1e5 {
		// Scaling larger magnitudes past 2^53 would introduce the very
		// noise this is meant to remove.
		return v
	}
	return math.Round(v*scale) / scale
}
