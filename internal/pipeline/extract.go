package pipeline

import (
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// nestedString pulls record[key][leaf] as a string. The upstream payload is
// not trustworthy: the top-level key may be absent, the sub-object may be
// null or a scalar, and the leaf may be missing or a non-string. Every one
// of those cases yields the fallback, never a panic.
func nestedString(record types.RawRecord, key, leaf, fallback string) string {
	raw, ok := record[key]
	if !ok {
		return fallback
	}

	sub, ok := raw.(map[string]any)
	if !ok {
		return fallback
	}

	value, ok := sub[leaf]
	if !ok {
		return fallback
	}

	s, ok := value.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// topString reads a top-level string field, defaulting when absent, null
// or of the wrong type
func topString(record types.RawRecord, key, fallback string) string {
	value, ok := record[key]
	if !ok {
		return fallback
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// epochMillis reads a top-level epoch-milliseconds field. JSON numbers
// decode as float64; some exporters emit them as json.Number-ish strings,
// which we do not accept. Returns ok=false when absent or unparseable.
func epochMillis(record types.RawRecord, key string) (int64, bool) {
	value, ok := record[key]
	if !ok {
		return 0, false
	}

	switch v := value.(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return int64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
