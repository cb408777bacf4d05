// Package slug turns heading text into URL-safe anchor identifiers.
//
// Two dialects are produced from the same input: the canonical form used for
// the hierarchical anchors this site emits, and a GitHub-compatible form used
// only to match anchors in links that were authored against GitHub's own
// slug algorithm.
package slug

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Variant selects the slug dialect.
type Variant int

const (
	// Canonical replaces slashes with the separator.
	Canonical Variant = iota
	// GitHub deletes slashes entirely, matching the hosting platform.
	GitHub
)

// Case selects the letter casing applied to the result.
type Case int

const (
	CaseLower Case = iota
	CaseUpper
	CaseKeep
)

const separator = "-"

var (
	reHTMLTag = regexp.MustCompile(`<[^>]*>`)
	// A leading ordinal like "1." or "2.3." followed by whitespace. The
	// trailing dot is required so version numbers such as "2024.3 notes"
	// survive.
	reOrdinal    = regexp.MustCompile(`^\s*\d+(?:\.\d+)*\.\s+`)
	reWhitespace = regexp.MustCompile(`[\s_]+`)
	reSeparators = regexp.MustCompile(`-{2,}`)
)

// Make converts heading text to a slug. Pure and deterministic.
func Make(text string, variant Variant, casing Case) string {
	s := norm.NFC.String(text)
	s = reHTMLTag.ReplaceAllString(s, "")
	s = reOrdinal.ReplaceAllString(s, "")

	switch variant {
	case GitHub:
		s = strings.ReplaceAll(s, "/", "")
	default:
		s = strings.ReplaceAll(s, "/", separator)
	}

	s = reWhitespace.ReplaceAllString(s, separator)
	s = keepAllowed(s)
	s = reSeparators.ReplaceAllString(s, separator)
	s = strings.Trim(s, separator)

	switch casing {
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseKeep:
		return s
	default:
		return strings.ToLower(s)
	}
}

// keepAllowed drops every rune outside the anchor alphabet: Latin letters,
// digits, the Cyrillic block U+0400..U+04FF, dots and separators.
func keepAllowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x0400 && r <= 0x04FF:
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
