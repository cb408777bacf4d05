package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/voyahchat/sitegen/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Render the site from the configured content tree"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Serve  ServeCmd  `cmd:"" help:"Serve the site locally and rebuild on content changes"`
	Deploy DeployCmd `cmd:"" help:"Build the site and publish it to the configured target"`
	Daemon DaemonCmd `cmd:"" help:"Run continuously with watching, scheduled rebuilds and a preview server"`
}

// AfterApply runs after flag parsing; setup logging once.
// The configured level is refined again once the configuration file is
// loaded, see loadConfig.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file and reconfigures the default
// logger from its logging section. --verbose takes precedence over the
// configured level.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg.Logging, root.Verbose)
	return cfg, nil
}

func configureLogging(lc config.LoggingConfig, verbose bool) {
	level := slogLevel(config.NormalizeLogLevel(lc.Level))
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(lc.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func slogLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
