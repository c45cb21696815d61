package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identRegex matches identifiers of the sample language and pass names.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// ValidateIdent validates a program identifier (variable, state or label).
//
// Identifiers must start with a letter or underscore, may contain letters,
// digits, underscores and dots, and are at most 128 characters long.
func ValidateIdent(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "identifier too long (max 128 characters)")
	}
	if !identRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", name)
	}
	return nil
}

// ValidatePassName validates a pass name used on the command line or in a
// config file. Pass names are lowercase identifiers.
func ValidatePassName(name string) error {
	if err := ValidateIdent(name); err != nil {
		return Wrap(ErrCodeInvalidPass, err, "pass name %q", name)
	}
	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidPass, "pass names must be lowercase: %q", name)
	}
	return nil
}

// ValidateNodeRef validates a node reference inside a tree document.
// References are opaque strings but must be non-empty and printable.
func ValidateNodeRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidDocument, "node reference cannot be empty")
	}
	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDocument, "node reference contains invalid characters: %q", ref)
		}
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
