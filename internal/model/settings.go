package model

import (
	"math"
	"strconv"
)

// RuleSettings holds free-form rule options as read from configuration.
// Accessors fall back to the supplied default when a value is missing or has
// the wrong type, so bad configuration never stops a run.
type RuleSettings map[string]any

// Has reports whether any of keys is set.
func (s RuleSettings) Has(keys ...string) bool {
	_, ok := s.lookup(keys)
	return ok
}

// Int returns the first of keys holding a whole number.
func (s RuleSettings) Int(def int, keys ...string) int {
	v, ok := s.lookup(keys)
	if !ok {
		return def
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}

	return def
}

// Bool returns the first of keys holding a boolean.
func (s RuleSettings) Bool(def bool, keys ...string) bool {
	v, ok := s.lookup(keys)
	if !ok {
		return def
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}

	return def
}

// Strings returns the first of keys holding a list of strings.
func (s RuleSettings) Strings(def []string, keys ...string) []string {
	v, ok := s.lookup(keys)
	if !ok {
		return def
	}

	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))

		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return def
			}

			out = append(out, str)
		}

		return out
	}

	return def
}

// Merge returns a copy of s overlaid with other.
func (s RuleSettings) Merge(other RuleSettings) RuleSettings {
	out := make(RuleSettings, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}

	for k, v := range other {
		out[k] = v
	}

	return out
}

func (s RuleSettings) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := s[k]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}
