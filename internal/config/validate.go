package config

import (
	"fmt"
	"sort"
)

// validateOverride compares persisted values against the compiled-in
// defaults and reports non-fatal warnings: sections or keys murmur
// does not know, and values whose type disagrees with the default.
// Unknown entries are kept so save round-trips never drop them.
func validateOverride(defaults, override map[string]map[string]any) []Warning {
	warnings := make([]Warning, 0)

	for _, section := range sortedKeys(override) {
		defSection, known := defaults[section]
		if !known {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("override section %q is not recognized", section),
			})
			continue
		}

		keys := override[section]
		for _, key := range sortedKeys(keys) {
			defValue, knownKey := defSection[key]
			if !knownKey {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("override key %q in section %q is not recognized", key, section),
				})
				continue
			}
			if got, want := kindOf(keys[key]), kindOf(defValue); got != want {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("override %s.%s holds a %s value; expected %s", section, key, got, want),
				})
			}
		}
	}

	return warnings
}

func kindOf(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int64, float64:
		return "number"
	default:
		return "unsupported"
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
