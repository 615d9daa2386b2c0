package errors

import (
	"unicode"
)

// ValidateGeneratorName validates a user-supplied generator name.
// It rejects names that would corrupt logs, DOT output, or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//
// Auto-generated names (comma-joined permutation images) always pass.
func ValidateGeneratorName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGenerator, "generator name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidGenerator, "generator name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGenerator, "generator name contains invalid control characters")
		}
	}

	return nil
}

// ValidateStateValues validates that every element of a state lies in
// [0, n). Used by codecs and generator sets before touching the hot path,
// so the hot path itself can skip bounds checks.
func ValidateStateValues(values []int, n int) error {
	for i, v := range values {
		if v < 0 || v >= n {
			return New(ErrCodeInvalidState, "element %d out of range: %d not in [0, %d)", i, v, n)
		}
	}
	return nil
}
