// Package services contains domain services for the auditpack domain model.
// These are stateless services that encapsulate business logic.
package services

// ===== DEEP COPY UTILITIES =====
//
// Views handed to callers must not share maps or slices with the aggregate.

// CopyParams creates a deep copy of a metadata parameter map.
// Nested maps and slices produced by the YAML/TOML decoders are copied too;
// scalar values are shared.
func CopyParams(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

// CopyStringSlice creates a deep copy of a string slice.
func CopyStringSlice(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

func copyValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return CopyParams(typed)
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return CopyStringSlice(typed)
	default:
		return v
	}
}
