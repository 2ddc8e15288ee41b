package service

import "strings"

// AnswersMatch implements the single correctness rule used everywhere:
// surrounding whitespace is ignored and the comparison is case-insensitive.
func AnswersMatch(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
