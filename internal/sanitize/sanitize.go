// ABOUTME: HTML sanitization and excerpt normalization for feed items
// ABOUTME: Allow-list sanitizer via bluemonday plus the fallback title derivation rule

package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// titleMaxLen is the character budget for a derived title, counted on the
// decoded text, not bytes.
const titleMaxLen = 50

// Sanitizer normalizes raw item HTML into safe excerpts and fallback titles.
type Sanitizer struct {
	clean *bluemonday.Policy
	strip *bluemonday.Policy
}

// New returns a Sanitizer with the UGC allow-list for excerpts and a strict
// tag-stripping policy for title derivation.
func New() *Sanitizer {
	return &Sanitizer{
		clean: bluemonday.UGCPolicy(),
		strip: bluemonday.StrictPolicy(),
	}
}

// Clean decodes HTML entities, runs the excerpt through the allow-list
// sanitizer, and trims surrounding whitespace.
func (s *Sanitizer) Clean(rawHTML string) string {
	decoded := html.UnescapeString(rawHTML)
	return strings.TrimSpace(s.clean.Sanitize(decoded))
}

// TitleFromExcerpt derives a display title from an excerpt when the feed
// supplies none: all tags stripped, entities decoded, trimmed. Empty input
// becomes "Untitled"; text over 50 characters is truncated with an ellipsis.
func (s *Sanitizer) TitleFromExcerpt(excerpt string) string {
	text := s.strip.Sanitize(excerpt)
	text = strings.TrimSpace(html.UnescapeString(text))
	if text == "" {
		return "Untitled"
	}

	runes := []rune(text)
	if len(runes) <= titleMaxLen {
		return text
	}
	return string(runes[:titleMaxLen]) + "..."
}
