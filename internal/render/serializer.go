package render

import (
	"regexp"
	"sort"
	"strings"
)

// Postprocessor rewrites rendered HTML before it is persisted.
type Postprocessor interface {
	Process(html string) string
}

// MinimalHTML rewrites well-formed renderer output into a compact HTML5
// serialization: attributes are reordered and unquoted where the grammar
// allows, closing tags are dropped where the next token makes the element
// boundary unambiguous, and em-dash spacing is normalized when typography
// is enabled.
type MinimalHTML struct {
	typography bool
}

func NewMinimalHTML(typography bool) *MinimalHTML {
	return &MinimalHTML{typography: typography}
}

func (m *MinimalHTML) Process(html string) string {
	out := minimizeAttributes(html)
	out = omitClosingTags(out)
	if m.typography {
		out = normalizeDashes(out)
	}
	return out
}

// Closing tags are removable only when the token that follows keeps the
// document parse identical under the HTML5 tag omission rules. Each rule
// pairs a closing tag with the allowed following tokens.
var omissionRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`</li>(\s*<li[\s>])`), "$1"},
	{regexp.MustCompile(`</p>(\s*(?:<p[\s>]|<ul[\s>]|<ol[\s>]|</li>))`), "$1"},
	{regexp.MustCompile(`</thead>(\s*<tbody[\s>])`), "$1"},
	{regexp.MustCompile(`</tbody>(\s*<tbody[\s>])`), "$1"},
	{regexp.MustCompile(`</tr>(\s*<tr[\s>])`), "$1"},
	{regexp.MustCompile(`</th>(\s*<t[hd][\s>])`), "$1"},
	{regexp.MustCompile(`</td>(\s*<t[hd][\s>])`), "$1"},
	{regexp.MustCompile(`</dt>(\s*<d[td][\s>])`), "$1"},
	{regexp.MustCompile(`</dd>(\s*<d[td][\s>])`), "$1"},
}

func omitClosingTags(html string) string {
	for _, rule := range omissionRules {
		html = rule.re.ReplaceAllString(html, rule.repl)
	}
	return html
}

var (
	reStartTag = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)((?:\s+[^<>]*)?)(\s*/?)>`)
	reAttr     = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)(?:\s*=\s*"([^"]*)"|\s*=\s*'([^']*)'|\s*=\s*([^\s"'>]+))?`)

	// Values in this alphabet are safe to emit without quotes.
	reBareValue   = regexp.MustCompile(`^[A-Za-z0-9/_.:-]*$`)
	rePlaceholder = regexp.MustCompile(`\{\{[^}]*\}\}`)
)

type attr struct {
	name   string
	val    string
	hasVal bool
}

// minimizeAttributes rewrites every start tag: class moves to the front,
// remaining attributes keep encounter order, and quotes are dropped for
// values restricted to the unambiguous alphabet. Template placeholders
// inside a value are masked before the alphabet check so their contents
// cannot force quoting decisions.
func minimizeAttributes(html string) string {
	return reStartTag.ReplaceAllStringFunc(html, func(tag string) string {
		sub := reStartTag.FindStringSubmatch(tag)
		name, rawAttrs, slash := sub[1], sub[2], sub[3]
		if strings.TrimSpace(rawAttrs) == "" {
			return "<" + name + slash + ">"
		}

		var attrs []attr
		for _, am := range reAttr.FindAllStringSubmatch(rawAttrs, -1) {
			a := attr{name: am[1]}
			switch {
			case strings.Contains(am[0], `="`):
				a.val, a.hasVal = am[2], true
			case strings.Contains(am[0], `='`):
				a.val, a.hasVal = am[3], true
			case strings.Contains(am[0], "="):
				a.val, a.hasVal = am[4], true
			}
			attrs = append(attrs, a)
		}
		sort.SliceStable(attrs, func(i, j int) bool {
			return attrs[i].name == "class" && attrs[j].name != "class"
		})

		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(name)
		for _, a := range attrs {
			b.WriteByte(' ')
			b.WriteString(a.name)
			if !a.hasVal {
				continue
			}
			b.WriteByte('=')
			masked := rePlaceholder.ReplaceAllString(a.val, "")
			if a.val != "" && reBareValue.MatchString(masked) {
				b.WriteString(a.val)
			} else {
				b.WriteByte('"')
				b.WriteString(a.val)
				b.WriteByte('"')
			}
		}
		b.WriteString(slash)
		b.WriteByte('>')
		return b.String()
	})
}
