package config

import "strings"

// setSource copies a value set in a config file and records where it came from.
func setSource[T any](field *T, value *T, sources map[string]ConfigSource, name string, source ConfigSource) {
	if value == nil {
		return
	}
	*field = *value
	if sources != nil {
		sources[name] = source
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
