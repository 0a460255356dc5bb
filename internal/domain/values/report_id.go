// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"github.com/google/uuid"
)

// ReportID uniquely identifies a single lint run.
type ReportID struct {
	value uuid.UUID
}

// NewReportID creates a new random report ID
func NewReportID() ReportID {
	return ReportID{value: uuid.New()}
}

// String returns the string representation
func (r ReportID) String() string {
	return r.value.String()
}

// IsZero returns true if this is the zero value
func (r ReportID) IsZero() bool {
	return r.value == uuid.Nil
}

// MarshalJSON implements json.Marshaler
func (r ReportID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value.String() + `"`), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (r ReportID) MarshalYAML() (interface{}, error) {
	return r.value.String(), nil
}
