// Package resolve looks field expressions up against the two render-time
// namespaces: user parameters and the reserved context symbol "_".
package resolve

import (
	"regexp"
	"time"
)

// ContextName is the reserved base name for computed document context.
// A user parameter literally named "_" is shadowed and unreachable.
const ContextName = "_"

// Parameter is one user-defined parameter as seen at render time.
type Parameter struct {
	Value   float64
	Unit    string
	Expr    string
	Comment string
}

// Namespace is a read-only view of the user parameters. Lookup is
// case-sensitive.
type Namespace map[string]Parameter

// Context carries the document-level computed values behind "_".
type Context struct {
	Version  int       // monotonic save counter
	SaveTime time.Time // save timestamp, provisional until the save completes
	File     string    // document name, version suffix already present
	Saved    bool      // false until the document has been saved once
}

// TargetContext carries the values that differ per bound target.
type TargetContext struct {
	Component     string
	Sketch        string
	ComponentDesc string
	PartNumber    string
	Configuration string
}

// versionSuffix matches the " v3" and " (v3~recovered)" style suffixes the
// host appends to document and root component names.
var versionSuffix = regexp.MustCompile(` (?:v\d+|\(v\d+.*?\))$`)

// StripVersionSuffix removes the host's version suffix from a document or
// root component name.
func StripVersionSuffix(name string) string {
	return versionSuffix.ReplaceAllString(name, "")
}
