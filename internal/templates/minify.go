package templates

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// rawTextElements keep their text verbatim during minification.
var rawTextElements = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// Minify collapses inter-tag whitespace and strips comments from shell
// HTML. Tokens pass through as raw bytes, so attribute quoting and tag
// shapes stay exactly as authored, placeholders included.
func Minify(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))

	var out strings.Builder
	out.Grow(len(src))
	rawDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return out.String()
			}
			// Tokenization failed midway; the original is safer.
			return src
		case html.CommentToken:
			// dropped
		case html.TextToken:
			text := string(z.Raw())
			if rawDepth > 0 {
				out.WriteString(text)
				break
			}
			out.WriteString(collapseWhitespace(text))
		case html.StartTagToken:
			name, _ := z.TagName()
			if rawTextElements[string(name)] {
				rawDepth++
			}
			out.Write(z.Raw())
		case html.EndTagToken:
			name, _ := z.TagName()
			if rawTextElements[string(name)] && rawDepth > 0 {
				rawDepth--
			}
			out.Write(z.Raw())
		default:
			out.Write(z.Raw())
		}
	}
}

// collapseWhitespace folds whitespace runs to one space and drops
// whitespace-only text that spans lines (indentation between tags).
func collapseWhitespace(text string) string {
	if strings.TrimSpace(text) == "" {
		if strings.ContainsRune(text, '\n') {
			return ""
		}
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
		default:
			b.WriteRune(r)
			inRun = false
		}
	}
	return b.String()
}
