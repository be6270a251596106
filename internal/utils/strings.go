// Package utils holds small helpers shared by the buildcfg packages.
package utils

import "strings"

// SplitAndTrim splits s by sep, trims each part and drops empty parts.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
