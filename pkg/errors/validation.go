package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matzehuels/dxfsvg/pkg/dxf/codepage"
)

// Output formats accepted by the render commands.
var validFormats = map[string]bool{
	"svg":  true,
	"pdf":  true,
	"png":  true,
	"json": true,
}

// ValidateFormat checks a single output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unsupported format %q (valid: svg, pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks every entry and rejects duplicates.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one format is required")
	}
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		key := strings.ToLower(f)
		if seen[key] {
			return New(ErrCodeInvalidFormat, "duplicate format %q", f)
		}
		seen[key] = true
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}

// ValidateCodepage checks a $DWGCODEPAGE override. Empty means "use the
// drawing's own value".
func ValidateCodepage(name string) error {
	if name == "" {
		return nil
	}
	if !codepage.Known(name) {
		return New(ErrCodeInvalidCodepage, "unknown codepage %q", name)
	}
	return nil
}
