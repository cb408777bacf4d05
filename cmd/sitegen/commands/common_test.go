package commands

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/config"
)

func newParser(t *testing.T) (*kong.Kong, *CLI) {
	t.Helper()
	restoreDefaultLogger(t)

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	return parser, &cli
}

// restoreDefaultLogger undoes slog.SetDefault side effects after the test.
func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
}

func TestCLI_ParsesBuildCommand(t *testing.T) {
	parser, cli := newParser(t)

	ctx, err := parser.Parse([]string{"-c", "custom.yaml", "build", "-o", "out"})
	require.NoError(t, err)

	require.Equal(t, "build", ctx.Command())
	require.Equal(t, "custom.yaml", cli.Config)
	require.Equal(t, "out", cli.Build.Output)
}

func TestCLI_DefaultsConfigPath(t *testing.T) {
	parser, cli := newParser(t)

	ctx, err := parser.Parse([]string{"init"})
	require.NoError(t, err)

	require.Equal(t, "init", ctx.Command())
	require.Equal(t, "sitegen.yaml", cli.Config)
	require.False(t, cli.Init.Force)
}

func TestCLI_ParsesServeFlags(t *testing.T) {
	parser, cli := newParser(t)

	_, err := parser.Parse([]string{"serve", "--addr", "127.0.0.1:9999", "--debounce", "1s"})
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9999", cli.Serve.Addr)
	require.Equal(t, "1s", cli.Serve.Debounce)
}

func TestCLI_RejectsUnknownCommand(t *testing.T) {
	parser, _ := newParser(t)

	_, err := parser.Parse([]string{"publish"})
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		in   config.LogLevel
		want slog.Level
	}{
		{config.LogLevelDebug, slog.LevelDebug},
		{config.LogLevelInfo, slog.LevelInfo},
		{config.LogLevelWarn, slog.LevelWarn},
		{config.LogLevelError, slog.LevelError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, slogLevel(tc.in), "level %s", tc.in)
	}
}

func TestConfigureLogging_LevelAndVerboseOverride(t *testing.T) {
	restoreDefaultLogger(t)
	ctx := context.Background()

	configureLogging(config.LoggingConfig{Level: "error"}, false)
	require.False(t, slog.Default().Enabled(ctx, slog.LevelWarn))
	require.True(t, slog.Default().Enabled(ctx, slog.LevelError))

	// --verbose wins over the configured level.
	configureLogging(config.LoggingConfig{Level: "error"}, true)
	require.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
}
