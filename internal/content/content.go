// ABOUTME: Excerpt rendering for terminal display
// ABOUTME: HTML excerpts become Markdown, then glamour-styled output

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
)

var tagPattern = regexp.MustCompile(`(?i)</?(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)\b[^>]*>`)

// IsHTML reports whether an excerpt still carries HTML markup. Sanitized
// excerpts keep allow-listed tags, so this is the common case.
func IsHTML(excerpt string) bool {
	if !strings.ContainsRune(excerpt, '<') {
		return false
	}
	if strings.Contains(excerpt, "<!DOCTYPE") || strings.Contains(excerpt, "<html") {
		return true
	}
	return tagPattern.MatchString(excerpt)
}

// ToMarkdown converts an HTML excerpt to Markdown. Non-HTML input and
// conversion failures pass through unchanged.
func ToMarkdown(excerpt string) string {
	if excerpt == "" || !IsHTML(excerpt) {
		return excerpt
	}
	markdown, err := htmltomarkdown.ConvertString(excerpt)
	if err != nil {
		return excerpt
	}
	return strings.TrimSpace(markdown)
}

// RenderTerminal prepares an excerpt for terminal display: Markdown
// conversion followed by glamour styling. The second return is false when
// styling failed and the caller got plain Markdown instead.
func RenderTerminal(excerpt string) (string, bool) {
	markdown := ToMarkdown(excerpt)
	styled, err := glamour.Render(markdown, "dark")
	if err != nil {
		return markdown, false
	}
	return styled, true
}
