// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits a separated setting such as "a, B,,a" into its items,
// trimmed and lower-cased, without empties or repeats. Order is preserved.
//
// Example:
//
//	SplitList(" dncheck_a, DNCHECK_B,,dncheck_a", ",")
//	// Returns: []string{"dncheck_a", "dncheck_b"}
func SplitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrimLower(strings.Split(s, sep))
}

// DedupeAndTrimLower removes empty strings and case-insensitive duplicates,
// trimming and lower-casing each element. Order is preserved.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		item := strings.ToLower(strings.TrimSpace(v))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
