package values

import (
	"fmt"
	"strings"
)

// GeneratedIDPrefix marks control ids that were synthesized by rule discovery
// for checks declared outside any control.
const GeneratedIDPrefix = "(generated"

// ControlID identifies a control within a profile. Unlike most value objects
// in this package the zero value is legal: empty ids are a lint error, not a
// construction error, so they must survive aggregation.
type ControlID struct {
	value string
}

// NewControlID creates a ControlID from a raw id, trimming surrounding whitespace.
func NewControlID(id string) ControlID {
	return ControlID{value: strings.TrimSpace(id)}
}

// GeneratedControlID builds the synthetic id used for anonymous checks.
// The digest keeps ids unique when several anonymous blocks share a line.
func GeneratedControlID(file string, line int, digest string) ControlID {
	if len(digest) > 8 {
		digest = digest[:8]
	}
	return ControlID{value: fmt.Sprintf("%s from %s:%d %s)", GeneratedIDPrefix, file, line, digest)}
}

// String returns the string representation
func (c ControlID) String() string {
	return c.value
}

// IsEmpty returns true if this is the zero value
func (c ControlID) IsEmpty() bool {
	return c.value == ""
}

// IsGenerated reports whether the id was synthesized by discovery.
func (c ControlID) IsGenerated() bool {
	return strings.HasPrefix(c.value, GeneratedIDPrefix)
}
