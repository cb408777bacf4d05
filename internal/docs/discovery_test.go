package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestDiscover_ClassifiesPagesAndAssets(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":             "# Home",
		"guides/setup.md":      "# Setup",
		"guides/img/flow.png":  "fake png",
		"guides/notes.txt":     "not published",
		"manual/reference.pdf": "fake pdf",
	})

	files, err := NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	sources := make(map[string]File, len(files))
	for _, f := range files {
		sources[f.Source] = f
	}

	require.Len(t, files, 4)
	assert.NotContains(t, sources, "guides/notes.txt")

	assert.False(t, sources["index.md"].IsAsset)
	assert.Equal(t, "", sources["index.md"].Section)

	setup := sources["guides/setup.md"]
	assert.False(t, setup.IsAsset)
	assert.Equal(t, "guides", setup.Section)
	assert.Equal(t, "setup", setup.Name)
	assert.Equal(t, ".md", setup.Ext)

	assert.True(t, sources["guides/img/flow.png"].IsAsset)
	assert.True(t, sources["manual/reference.pdf"].IsAsset)
}

func TestDiscover_DeterministicOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.md":        "# B",
		"a.md":        "# A",
		"guides/c.md": "# C",
	})

	files, err := NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	var sources []string
	for _, f := range files {
		sources = append(sources, f.Source)
	}
	assert.Equal(t, []string{"a.md", "b.md", "guides/c.md"}, sources)
}

func TestDiscover_SkipsHiddenDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":          "# Home",
		".drafts/wip.md":    "# WIP",
		".hidden-notes.md":  "# Notes",
		"guides/.secret.md": "# Secret",
	})

	files, err := NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "index.md", files[0].Source)
}

func TestDiscover_HonorsIgnoreGlobs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":          "# Home",
		"TEMPLATE.md":       "# Template",
		"drafts/one.md":     "# Draft",
		"guides/install.md": "# Install",
	})

	files, err := NewDiscovery(root, []string{"drafts/*", "TEMPLATE.md"}).Discover()
	require.NoError(t, err)

	var sources []string
	for _, f := range files {
		sources = append(sources, f.Source)
	}
	assert.Equal(t, []string{"guides/install.md", "index.md"}, sources)
}

func TestDiscover_BadIgnorePattern(t *testing.T) {
	root := writeTree(t, map[string]string{"index.md": "# Home"})

	_, err := NewDiscovery(root, []string{"[bad"}).Discover()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadIgnorePattern)
}

func TestDiscover_NoMarkdownSources(t *testing.T) {
	root := writeTree(t, map[string]string{"img/logo.png": "fake png"})

	_, err := NewDiscovery(root, nil).Discover()
	assert.ErrorIs(t, err, ErrNoSourcesFound)
}

func TestMarkdownAndAssets_Partition(t *testing.T) {
	files := []File{
		{Source: "a.md"},
		{Source: "img/x.png", IsAsset: true},
		{Source: "b.md"},
	}

	assert.Len(t, Markdown(files), 2)
	assert.Len(t, Assets(files), 1)
}
