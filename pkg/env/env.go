// Package env reads process environment variables with defaults, for the
// few knobs that need resolving before the envconfig-backed config loads.
package env

import "os"

// Get looks up key in the process environment and returns its value.
// Unset or empty variables resolve to fallback so callers always get a
// usable setting.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
