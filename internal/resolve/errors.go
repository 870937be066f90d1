package resolve

import "fmt"

// UnknownParameterError reports a base name missing from the parameter
// namespace.
type UnknownParameterError struct {
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter: %s", e.Name)
}

// UnknownAttributeError reports an attribute that neither namespace defines
// for the given base name.
type UnknownAttributeError struct {
	Base      string
	Attribute string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute of %s: %s", e.Base, e.Attribute)
}
