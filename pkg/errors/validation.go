package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// manifestExtensions are the file extensions a manifest may use.
var manifestExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
	".json": true,
}

// ValidateName validates a section or collection name.
//
// Names are optional, so the empty string is accepted. Otherwise:
//   - Maximum length of 128 characters
//   - No control characters or null bytes
func ValidateName(name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidManifest, "name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components
// and carries a supported extension.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.ContainsRune(filename, '\x00') {
		return New(ErrCodeInvalidManifest, "manifest filename contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !manifestExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported manifest extension %q (use .yaml, .yml, .toml or .json)", ext)
	}

	return nil
}

// ValidateDimension validates a size, spacing or inset value.
// Values must be finite and non-negative.
func ValidateDimension(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidManifest, "%s must be a finite number", field)
	}
	if v < 0 {
		return New(ErrCodeInvalidManifest, "%s cannot be negative (got %g)", field, v)
	}
	return nil
}

// ValidateURI validates a backend connection string.
// It ensures the URI uses one of the allowed schemes.
func ValidateURI(raw string, schemes ...string) error {
	if raw == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(raw, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URI must use one of the schemes %v", schemes)
}
