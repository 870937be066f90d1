package template

// Segment is one piece of a parsed template: either a literal run of text
// or a field expression enclosed in braces.
type Segment interface {
	segment()
}

// Literal is a run of plain text copied verbatim into the output.
type Literal struct {
	Text string
}

func (Literal) segment() {}

// Field is a parsed field expression: base[.attribute][slice][:format].
type Field struct {
	Raw       string // full expression between the braces
	Base      string // parameter name or "_"
	Attribute string // empty when omitted
	Slice     *Slice // nil when omitted
	Format    string // format spec after ':', empty when omitted
	HasFormat bool   // distinguishes "{x:}" from "{x}"
}

func (Field) segment() {}

// Slice is a substring range. Nil bounds are open (start of string, end of
// string). Negative bounds count from the end.
type Slice struct {
	Start *int
	Stop  *int
}
