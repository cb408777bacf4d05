package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/sitemap"
)

func TestLoad_BuiltinWhenDirEmpty(t *testing.T) {
	tpl, err := Load("")
	require.NoError(t, err)

	page := tpl.Apply(Data{
		Title:     "Setup",
		Content:   "<h1 id=setup>Setup</h1>\n",
		SiteTitle: "Handbook",
		Language:  "en",
	})

	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Setup · Handbook</title>")
	assert.Contains(t, page, "<h1 id=setup>Setup</h1>")
}

func TestLoad_ConfiguredDirMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, ErrTemplateMissing)
}

func TestLoad_ShellWithoutContentSlotFails(t *testing.T) {
	dir := t.TempDir()
	shell := "<html><body><p>{{ title }}</p></body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(shell), 0o644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrMissingContentSlot)
}

func TestApply_FillsConfiguredShell(t *testing.T) {
	dir := t.TempDir()
	shell := `<html>
<body>
  <header>{{ site_title }}</header>
  <article>{{ content }}</article>
  <aside>{{ nav }}</aside>
  <time>{{ updated }}</time>
</body>
</html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(shell), 0o644))

	tpl, err := Load(dir)
	require.NoError(t, err)

	page := tpl.Apply(Data{
		SiteTitle: "Handbook",
		Content:   "<p>body</p>",
		Nav:       "<ul>\n</ul>\n",
		Updated:   "2026-08-01",
	})

	assert.Contains(t, page, "<header>Handbook</header>")
	assert.Contains(t, page, "<article><p>body</p></article>")
	assert.Contains(t, page, "<time>2026-08-01</time>")
}

func TestApply_ContentNeverRescanned(t *testing.T) {
	tpl, err := Load("")
	require.NoError(t, err)

	content := "<pre><code>{{ title }} stays literal</code></pre>"
	page := tpl.Apply(Data{Title: "Real Title", Content: content})

	assert.Contains(t, page, "{{ title }} stays literal")
	assert.Contains(t, page, "<title>Real Title")
}

func TestApply_UnknownPlaceholderKept(t *testing.T) {
	dir := t.TempDir()
	shell := "<body>{{ content }}{{ custom_slot }}</body>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(shell), 0o644))

	tpl, err := Load(dir)
	require.NoError(t, err)

	page := tpl.Apply(Data{Content: "<p>x</p>"})
	assert.Contains(t, page, "{{ custom_slot }}")
}

func TestNav_SkipsHiddenAndEscapes(t *testing.T) {
	pages := []sitemap.Page{
		{URL: "index.html", Title: "Home"},
		{URL: "guides/setup.html", Title: "Setup & Install"},
		{URL: "internal.html", Title: "Internal", Hidden: true},
	}

	nav := Nav(pages, "/")

	assert.Contains(t, nav, `<li><a href="/index.html">Home</a>`)
	assert.Contains(t, nav, `<a href="/guides/setup.html">`)
	assert.Contains(t, nav, "Setup &amp; Install")
	assert.NotContains(t, nav, "Internal")
}

func TestNav_JoinsConfiguredPrefix(t *testing.T) {
	nav := Nav([]sitemap.Page{{URL: "guides/setup.html", Title: "Setup"}}, "/docs/")
	assert.Contains(t, nav, `<a href="/docs/guides/setup.html">Setup</a>`)
}

func TestNav_FallsBackToURLWhenUntitled(t *testing.T) {
	nav := Nav([]sitemap.Page{{URL: "faq.html"}}, "")
	assert.Contains(t, nav, `<a href="/faq.html">faq.html</a>`)
}
