package errors

import (
	"regexp"
	"unicode"
)

// entityNameRegex matches valid entity names: a letter or underscore followed
// by letters, digits, and underscores. This is the common subset accepted by
// SystemRDL, IP-XACT, and generated C headers.
var entityNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateEntityName validates the name of a field, register, or address
// block. Names end up as identifiers in generated headers, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//   - Identifier syntax (letters, digits, underscores; no leading digit)
func ValidateEntityName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	if !entityNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "name must be a valid identifier: %q", name)
	}

	return nil
}

// ValidateAccess validates a register/field access mode string.
// An empty string is allowed and means "inherit from the parent".
func ValidateAccess(access string) error {
	switch access {
	case "", "read-only", "write-only", "read-write", "writeOnce", "read-writeOnce":
		return nil
	}
	return New(ErrCodeInvalidDocument, "unknown access mode: %q", access)
}

// ValidateUsage validates an address block usage string.
// An empty string is allowed and defaults to "register".
func ValidateUsage(usage string) error {
	switch usage {
	case "", "register", "memory", "reserved":
		return nil
	}
	return New(ErrCodeInvalidDocument, "unknown block usage: %q", usage)
}
