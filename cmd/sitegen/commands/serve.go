package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/daemon"
)

// ServeCmd runs a local preview: watch the content tree, rebuild on change
// and serve the result. Scheduled rebuilds, events and metrics stay off.
type ServeCmd struct {
	Addr     string `help:"Listen address for the preview server" default:"127.0.0.1:8080"`
	Output   string `short:"o" help:"Output directory for the rendered site (defaults to a temporary directory)"`
	Debounce string `help:"Quiet period after a content change before rebuilding" default:"500ms"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if s.Output != "" {
		cfg.Output.Directory = s.Output
	} else {
		tmp, err := os.MkdirTemp("", "sitegen-preview-*")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		cfg.Output.Directory = tmp
		cfg.Output.Clean = true
		fmt.Println("Preview output directory:", tmp)
	}

	// The preview ignores any daemon section in the file: it always watches,
	// never schedules and never publishes events.
	cfg.Daemon = &config.DaemonConfig{
		Watch: config.WatchConfig{Enabled: true, Debounce: s.Debounce},
		HTTP:  config.HTTPConfig{Addr: s.Addr},
	}
	cfg.Metrics = config.MetricsConfig{}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dm, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("create preview daemon: %w", err)
	}
	return dm.Run(ctx)
}
