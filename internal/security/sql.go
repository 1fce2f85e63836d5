// Package security provides security-related utilities for Repario
package security

import "strings"

// EscapeLikePattern escapes special characters in LIKE patterns
func EscapeLikePattern(pattern string) string {
	// Escape the special characters used in SQL LIKE: %, _, and \
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}

// SearchCondition builds a safe contains-search condition for a column.
// The column name must come from code, never from user input.
func SearchCondition(columnName, searchTerm string) (string, []interface{}) {
	escaped := EscapeLikePattern(searchTerm)
	condition := columnName + ` LIKE ? ESCAPE '\'`
	return condition, []interface{}{"%" + escaped + "%"}
}
