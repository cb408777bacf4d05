// Package sitemap maintains the bidirectional index between site-relative
// markdown source paths and their published URLs. The render engine
// consults it to resolve cross-document links; the build pipeline uses it
// to order output and generate navigation.
package sitemap

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	ErrDuplicateSource = errors.New("duplicate source path")
	ErrDuplicateURL    = errors.New("duplicate published URL")
)

// Page is one registered document.
type Page struct {
	Source  string // site-relative markdown path, e.g. "guides/setup.md"
	URL     string // published path, e.g. "guides/setup.html"
	Section string // first path element of Source, "" at the site root
	Title   string
	Weight  int
	Hidden  bool
}

// Index holds the registered pages. Lookups are by exact source path,
// exact URL, or file basename.
type Index struct {
	pages []Page
	bySrc map[string]int
	byURL map[string]int
}

func New() *Index {
	return &Index{
		bySrc: make(map[string]int),
		byURL: make(map[string]int),
	}
}

// Add registers a page. The URL is derived from the source path when
// empty, the section always. Registering the same source or URL twice
// is an error.
func (x *Index) Add(p Page) error {
	p.Source = Normalize(p.Source)
	if p.Source == "" {
		return fmt.Errorf("add page: empty source path")
	}
	if p.URL == "" {
		p.URL = URLForSource(p.Source)
	}
	p.Section = SectionOf(p.Source)

	if _, ok := x.bySrc[p.Source]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, p.Source)
	}
	if prev, ok := x.byURL[p.URL]; ok {
		return fmt.Errorf("%w: %s (from %s and %s)", ErrDuplicateURL, p.URL, x.pages[prev].Source, p.Source)
	}
	x.bySrc[p.Source] = len(x.pages)
	x.byURL[p.URL] = len(x.pages)
	x.pages = append(x.pages, p)
	return nil
}

// URLFor returns the published URL for a source path.
func (x *Index) URLFor(source string) (string, bool) {
	i, ok := x.bySrc[Normalize(source)]
	if !ok {
		return "", false
	}
	return x.pages[i].URL, true
}

// SourceFor returns the source path behind a published URL.
func (x *Index) SourceFor(url string) (string, bool) {
	i, ok := x.byURL[url]
	if !ok {
		return "", false
	}
	return x.pages[i].Source, true
}

// Page returns the full record for a source path.
func (x *Index) Page(source string) (Page, bool) {
	i, ok := x.bySrc[Normalize(source)]
	if !ok {
		return Page{}, false
	}
	return x.pages[i], true
}

// ByBasename finds the source path whose file name matches base. With
// several matches the one inside preferSection wins; remaining ties go
// to the lexicographically first candidate so resolution is stable
// across runs.
func (x *Index) ByBasename(base, preferSection string) (string, bool) {
	var matches []string
	for src := range x.bySrc {
		if path.Base(src) == base {
			matches = append(matches, src)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	if preferSection != "" {
		for _, m := range matches {
			if SectionOf(m) == preferSection {
				return m, true
			}
		}
	}
	return matches[0], true
}

// Pages returns all registered pages ordered by section, weight, title
// and source. The copy is safe to mutate.
func (x *Index) Pages() []Page {
	out := append([]Page(nil), x.pages...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// Sources returns all registered source paths in sorted order.
func (x *Index) Sources() []string {
	out := make([]string, 0, len(x.pages))
	for _, p := range x.pages {
		out = append(out, p.Source)
	}
	sort.Strings(out)
	return out
}

func (x *Index) Len() int { return len(x.pages) }

// URLForSource maps a markdown source path to its published URL.
func URLForSource(source string) string {
	if strings.HasSuffix(source, ".md") {
		return strings.TrimSuffix(source, ".md") + ".html"
	}
	return source
}

// SectionOf returns the first path element, or "" for root-level pages.
func SectionOf(source string) string {
	if i := strings.IndexByte(source, '/'); i >= 0 {
		return source[:i]
	}
	return ""
}

// Normalize strips the "./" prefix and converts backslashes so index
// keys are uniform regardless of how callers spell paths.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimPrefix(p, "./")
}
