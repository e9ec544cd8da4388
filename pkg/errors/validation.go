package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Supported document and artifact formats.
var (
	documentExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}
	artifactFmts = map[string]bool{"svg": true, "png": true, "pdf": true}
)

// ValidateDocumentPath validates the path of a document file.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .json, .yaml or .yml
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "document path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !documentExts[ext] {
		return New(ErrCodeInvalidPath, "unsupported document extension %q (must be .json, .yaml or .yml)", ext)
	}
	return nil
}

// ValidateFormat checks that an artifact format is supported.
func ValidateFormat(format string) error {
	if !artifactFmts[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
