// Package templates loads the HTML page shell and fills its placeholders.
//
// A shell is plain HTML carrying `{{ name }}` slots. Rendered page content
// is inserted last and never rescanned, so placeholder-looking text inside
// documents survives verbatim.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrMissingContentSlot indicates a shell without a {{ content }} placeholder.
var ErrMissingContentSlot = errors.New("template has no content placeholder")

// ErrTemplateMissing indicates a configured template file that does not exist.
var ErrTemplateMissing = errors.New("template file not found")

// pageFile is the shell file name looked up inside a template dir.
const pageFile = "page.html"

const builtinShell = `<!doctype html>
<html lang="{{ language }}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="description" content="{{ description }}">
<title>{{ title }} · {{ site_title }}</title>
</head>
<body>
<nav>{{ nav }}</nav>
<main>{{ content }}</main>
<footer>Updated {{ updated }}</footer>
</body>
</html>
`

var rePlaceholderName = regexp.MustCompile(`\{\{\s*([a-zA-Z_]+)\s*\}\}`)

// Data carries the values filled into a shell's placeholders.
type Data struct {
	Title       string
	Content     string // rendered page HTML
	Nav         string
	Updated     string
	SiteTitle   string
	Description string
	Language    string
}

// Template is a loaded, minified page shell.
type Template struct {
	shell string
}

// Load reads and minifies the page shell in dir. An empty dir selects the
// built-in shell; a configured dir whose shell is absent is an error.
func Load(dir string) (*Template, error) {
	if dir == "" {
		return Builtin(), nil
	}

	path := filepath.Join(dir, pageFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, path)
		}
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	return newTemplate(Minify(string(data)))
}

// Builtin returns the built-in page shell.
func Builtin() *Template {
	t, err := newTemplate(Minify(builtinShell))
	if err != nil {
		panic(err) // the built-in shell always carries a content slot
	}
	return t
}

func newTemplate(shell string) (*Template, error) {
	if !containsSlot(shell, "content") {
		return nil, ErrMissingContentSlot
	}
	return &Template{shell: shell}, nil
}

// Apply fills the shell's placeholders. The content slot is replaced in a
// final step so rendered page HTML is never scanned for placeholders.
// Unknown placeholder names stay in place.
func (t *Template) Apply(d Data) string {
	fields := map[string]string{
		"title":       d.Title,
		"nav":         d.Nav,
		"updated":     d.Updated,
		"site_title":  d.SiteTitle,
		"description": d.Description,
		"language":    d.Language,
	}

	var contentSlot string
	page := rePlaceholderName.ReplaceAllStringFunc(t.shell, func(m string) string {
		name := rePlaceholderName.FindStringSubmatch(m)[1]
		if name == "content" {
			// Substitute a marker so the real content goes in untouched.
			contentSlot = m
			return m
		}
		if value, ok := fields[name]; ok {
			return value
		}
		return m
	})

	if contentSlot != "" {
		page = strings.Replace(page, contentSlot, d.Content, 1)
	}
	return page
}

func containsSlot(shell, name string) bool {
	for _, m := range rePlaceholderName.FindAllStringSubmatch(shell, -1) {
		if m[1] == name {
			return true
		}
	}
	return false
}
