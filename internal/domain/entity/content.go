package entity

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeContent strips scripts, event handlers and unsafe URLs from article HTML
// while keeping ordinary formatting markup.
func SanitizeContent(html string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(html))
}

// NormalizeText trims the surrounding whitespace of a plain text form value.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
