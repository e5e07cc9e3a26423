// Package normalize provides utilities for normalizing and sanitizing
// user-supplied strings before they are stored or used as index keys.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Email canonicalizes an email address for storage and index lookups.
// Lookup must not depend on case or stray whitespace.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
}

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// genreAliases maps common label variants to their canonical slug so the
// genre index groups them. Matched after slugifying.
var genreAliases = map[string]string{
	"sci-fi":           "science-fiction",
	"scifi":            "science-fiction",
	"sf":               "science-fiction",
	"non-fiction":      "nonfiction",
	"ya":               "young-adult",
	"biographies":      "biography",
	"memoirs":          "biography",
	"thrillers":        "thriller",
	"mysteries":        "mystery",
	"literary":         "literary-fiction",
	"self-improvement": "self-help",
}

// Genre canonicalizes a genre label for filtering and index keys.
func Genre(raw string) string {
	slug := Slugify(raw)
	if canonical, ok := genreAliases[slug]; ok {
		return canonical
	}
	return slug
}

// sanitizeString removes null bytes, which can cause issues in databases
// and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
