package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLocator validates a dataset locator (local path or URL).
//
// The rules are intentionally conservative:
//   - No empty locators
//   - No control characters or null bytes
//   - Maximum length of 2048 characters
//   - URLs must use the file, http, or https scheme
func ValidateLocator(locator string) error {
	if strings.TrimSpace(locator) == "" {
		return New(ErrCodeInvalidLocator, "dataset locator cannot be empty")
	}

	const maxLocatorLength = 2048
	if len(locator) > maxLocatorLength {
		return New(ErrCodeInvalidLocator, "dataset locator too long (max %d characters)", maxLocatorLength)
	}

	for _, r := range locator {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidLocator, "dataset locator contains invalid characters")
		}
	}

	if i := strings.Index(locator, "://"); i > 0 {
		switch scheme := strings.ToLower(locator[:i]); scheme {
		case "file", "http", "https":
		default:
			return New(ErrCodeInvalidLocator, "unsupported locator scheme %q (must be file, http or https)", scheme)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS hex color such as "#4e79a7".
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}
	return nil
}

// ValidateFieldName validates a CSV column name used by a reducer.
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field name contains invalid control characters")
		}
	}
	return nil
}
