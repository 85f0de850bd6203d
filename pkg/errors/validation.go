package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeName validates a node name from a manifest or API request.
// It rejects names that could break cache keys, DOT labels, or file paths.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or null bytes
//   - No ':' (reserved as the port separator in edge references)
//   - Maximum length of 128 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "node name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		":",    // Port separator in edge references
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "node name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a file path supplied through the API for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
