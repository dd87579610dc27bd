package render

import (
	"regexp"
	"strings"

	"slidegen/internal/domain"
)

// Sentinel labels and the placeholders substituted for them. A field
// equal to its own default label is treated as effectively empty.
const (
	DefaultTitleLabel  = "Presentation to"
	TitlePlaceholder   = "Presentation to (Ex: Taoglas internal, XXX company...etc)"
	DefaultMadeByLabel = "Made by"
	MadeByPlaceholder  = "Made by:"

	// DefaultBaseName names artifacts when the title sanitizes to nothing.
	DefaultBaseName = "Presentation"

	maxFilenameLen = 100
)

// TitleText resolves the "presentation to" value to display.
func TitleText(cust domain.Customization) string {
	v := strings.TrimSpace(cust.PresentationTo)
	if v == "" || v == DefaultTitleLabel {
		return TitlePlaceholder
	}
	return cust.PresentationTo
}

// MadeByText resolves the "made by" value to display.
func MadeByText(cust domain.Customization) string {
	v := strings.TrimSpace(cust.MadeBy)
	if v == "" || v == DefaultMadeByLabel {
		return MadeByPlaceholder
	}
	return cust.MadeBy
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes name safe for use as an on-disk filename:
// reserved characters become underscores, whitespace runs collapse to a
// single underscore, leading/trailing dots and underscores are stripped
// and the result is capped at 100 characters. An empty result yields
// fallback.
func SanitizeFilename(name, fallback string) string {
	s := invalidFilenameChars.ReplaceAllString(name, "_")
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")
	if len(s) > maxFilenameLen {
		s = strings.Trim(s[:maxFilenameLen], "._")
	}
	if s == "" {
		return fallback
	}
	return s
}
