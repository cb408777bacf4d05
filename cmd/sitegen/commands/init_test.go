package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/config"
)

func TestRunInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")

	require.NoError(t, RunInit(path, false))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Documentation Site", cfg.Site.Title)
	require.Equal(t, "content", cfg.Content.Dir)
}

func TestRunInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: keep\n"), 0o644))

	err := RunInit(path, false)
	require.ErrorContains(t, err, "already exists")

	require.NoError(t, RunInit(path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "title: keep")
}

func TestInitCmd_OutputDirPlacesDefaultFileName(t *testing.T) {
	restoreDefaultLogger(t)
	dir := t.TempDir()

	cmd := InitCmd{Output: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: "unused.yaml"}))

	_, err := os.Stat(filepath.Join(dir, "sitegen.yaml"))
	require.NoError(t, err)
}
