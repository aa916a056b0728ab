// Package config holds the value coercion shared by the config stores.
// TOML decodes integers as int64, while values set in-process keep their Go type.
package config

import "math"

// Int converts an integer-valued setting. Fractional floats are rejected.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

// Float converts a numeric setting.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
