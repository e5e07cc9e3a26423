// Package metadata cleans up book metadata supplied by admins,
// normalizing rich-text descriptions to Markdown before storage.
package metadata

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// ContainsHTML checks if a string appears to contain HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// CleanDescription converts an HTML description to Markdown.
// Plain-text input is returned trimmed but otherwise unchanged.
func CleanDescription(s string) string {
	if s == "" {
		return s
	}
	if !ContainsHTML(s) {
		return strings.TrimSpace(s)
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		// Conversion failures keep the original text
		return strings.TrimSpace(s)
	}

	return strings.TrimSpace(markdown)
}
