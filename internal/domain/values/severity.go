package values

import (
	"fmt"
	"strings"
)

// Severity is the categorical reading of a control's impact.
// Enforces valid severity values and provides ordering.
type Severity struct {
	value SeverityLevel
}

// SeverityLevel is the internal representation
type SeverityLevel int

const (
	SeverityNone     SeverityLevel = 0
	SeverityLow      SeverityLevel = 1
	SeverityMedium   SeverityLevel = 2
	SeverityHigh     SeverityLevel = 3
	SeverityCritical SeverityLevel = 4
)

// Predefined severity values
var (
	SevNone     = Severity{SeverityNone}
	SevLow      = Severity{SeverityLow}
	SevMedium   = Severity{SeverityMedium}
	SevHigh     = Severity{SeverityHigh}
	SevCritical = Severity{SeverityCritical}
)

// NewSeverity creates a Severity from string
func NewSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "low":
		return SevLow, nil
	case "medium":
		return SevMedium, nil
	case "high":
		return SevHigh, nil
	case "critical":
		return SevCritical, nil
	case "", "none":
		return SevNone, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// SeverityFromImpact buckets a clamped impact score.
//
//	0.0        none
//	(0.0, 0.4) low
//	[0.4, 0.7) medium
//	[0.7, 0.9) high
//	[0.9, 1.0] critical
func SeverityFromImpact(impact float64) Severity {
	switch {
	case impact <= 0:
		return SevNone
	case impact < 0.4:
		return SevLow
	case impact < 0.7:
		return SevMedium
	case impact < 0.9:
		return SevHigh
	default:
		return SevCritical
	}
}

// String returns the string representation
func (s Severity) String() string {
	switch s.value {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// IsHigherOrEqual returns true if this severity is higher or equal to the other
func (s Severity) IsHigherOrEqual(other Severity) bool {
	return s.value >= other.value
}
