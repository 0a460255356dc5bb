package values

// DefaultImpact is reported for controls that declare no impact.
const DefaultImpact = 0.5

// Impact bounds.
const (
	MinImpact = 0.0
	MaxImpact = 1.0
)

// ClampImpact returns the display impact for a raw, possibly absent value.
// Absent impacts report DefaultImpact; everything else is pinned into
// [MinImpact, MaxImpact].
func ClampImpact(raw *float64) float64 {
	if raw == nil {
		return DefaultImpact
	}
	switch v := *raw; {
	case v < MinImpact:
		return MinImpact
	case v > MaxImpact:
		return MaxImpact
	default:
		return v
	}
}

// ImpactOutOfRange reports whether a declared impact lies outside [0, 1].
// Absent impacts are never out of range.
func ImpactOutOfRange(raw *float64) (below, above bool) {
	if raw == nil {
		return false, false
	}
	return *raw < MinImpact, *raw > MaxImpact
}
