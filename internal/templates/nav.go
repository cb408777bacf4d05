package templates

import (
	"html"
	"strings"

	"github.com/voyahchat/sitegen/internal/sitemap"
)

// Nav renders the site navigation list from the sitemap. Hidden pages are
// skipped; ordering follows the sitemap's section/weight/title sort. The
// prefix joins page URLs into the published URL space, matching how the
// render engine emits document links.
func Nav(pages []sitemap.Page, prefix string) string {
	if prefix == "" {
		prefix = "/"
	}
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, p := range pages {
		if p.Hidden {
			continue
		}
		label := p.Title
		if label == "" {
			label = p.URL
		}
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(prefix + p.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(label))
		b.WriteString("</a>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}
