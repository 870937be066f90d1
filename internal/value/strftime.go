package value

import (
	"fmt"
	"strings"
	"time"
)

// strftime renders a timestamp through calendar/time directives. Supported:
// %Y %y %m %d %H %I %M %S %p %a %A %b %B %j %U %W %%. Unknown directives are
// copied through unchanged.
func strftime(t time.Time, layout string) string {
	var b strings.Builder
	for i := 0; i < len(layout); i++ {
		if layout[i] != '%' || i+1 >= len(layout) {
			b.WriteByte(layout[i])
			continue
		}
		i++
		switch layout[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'y':
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'I':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			fmt.Fprintf(&b, "%02d", h)
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		case 'p':
			if t.Hour() < 12 {
				b.WriteString("AM")
			} else {
				b.WriteString("PM")
			}
		case 'a':
			b.WriteString(t.Weekday().String()[:3])
		case 'A':
			b.WriteString(t.Weekday().String())
		case 'b':
			b.WriteString(t.Month().String()[:3])
		case 'B':
			b.WriteString(t.Month().String())
		case 'j':
			fmt.Fprintf(&b, "%03d", t.YearDay())
		case 'U':
			fmt.Fprintf(&b, "%02d", weekNumber(t, time.Sunday))
		case 'W':
			fmt.Fprintf(&b, "%02d", weekNumber(t, time.Monday))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(layout[i])
		}
	}
	return b.String()
}

// weekNumber counts full weeks since the start of the year, with days before
// the year's first firstDay in week 0.
func weekNumber(t time.Time, firstDay time.Weekday) int {
	yday := t.YearDay() - 1 // zero-based
	wday := (int(t.Weekday()) - int(firstDay) + 7) % 7
	return (yday + 7 - wday) / 7
}
