package exchange

import "fmt"

// UnsupportedFormatError indicates a file written with an interchange format
// this release does not read.
type UnsupportedFormatError struct {
	Version string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Version == "" {
		return "exchange: file carries no format version"
	}
	return fmt.Sprintf("exchange: unsupported file format version %s", e.Version)
}

// BadLayoutError indicates a file that does not follow the interchange
// layout.
type BadLayoutError struct {
	Reason string
}

func (e *BadLayoutError) Error() string {
	return "exchange: " + e.Reason
}
