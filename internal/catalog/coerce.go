package catalog

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Upstream payloads carry numbers as numbers, quoted strings, formatted
// strings ("₹1,299.00") or garbage depending on the endpoint. Every numeric
// field in the normalizer goes through these two helpers so the
// default-on-failure behavior is defined in exactly one place.

// CoerceFloat extracts a float64 from a JSON value, stripping non-numeric
// characters from strings. Returns 0 when nothing parseable remains.
func CoerceFloat(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return parseLooseFloat(v.Str)
	case gjson.True:
		return 1
	default:
		return 0
	}
}

// CoerceInt extracts an int with the same permissive rules as CoerceFloat,
// truncating any fractional part.
func CoerceInt(v gjson.Result) int {
	return int(CoerceFloat(v))
}

// CoerceString extracts a string, rendering numbers as their decimal form
// and returning "" for anything else.
func CoerceString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

func parseLooseFloat(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseLooseFloat applies the string coercion rules directly, for callers
// holding a plain string (query parameters, CLI arguments).
func ParseLooseFloat(s string) float64 {
	return parseLooseFloat(s)
}
