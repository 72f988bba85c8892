// Package validation holds small value helpers shared by definition payloads
// and the compute client: pointer constructors for optional JSON fields and
// their nil-safe accessors.
package validation

import "time"

func StringPtr(s string) *string {
	return &s
}

// StringPtrIfNotEmpty returns a pointer to s, or nil when s is empty, so
// omitempty fields stay absent instead of serializing "".
func StringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func IntPtr(i int) *int {
	return &i
}

func BoolPtr(b bool) *bool {
	return &b
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

// GetStringOrEmpty returns the string value or an empty string if nil.
func GetStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetStringOrDefault returns the string value or a default value if nil.
func GetStringOrDefault(s *string, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	return *s
}

// GetIntOrZero returns the int value or 0 if nil.
func GetIntOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// GetBoolOrFalse returns the bool value or false if nil.
func GetBoolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
