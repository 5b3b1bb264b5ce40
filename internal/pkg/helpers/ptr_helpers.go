package helpers

import "strings"

// OptionalString trims s and returns nil when nothing is left
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
