package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/voyahchat/sitegen/internal/daemon"
)

// DaemonCmd implements the 'daemon' command. All behavior is driven by the
// daemon section of the configuration file.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.Daemon == nil {
		return fmt.Errorf("configuration file %s has no daemon section", root.Config)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dm, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	return dm.Run(ctx)
}
