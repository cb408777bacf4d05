package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/voyahchat/sitegen/internal/deploy"
)

// DeployCmd implements the 'deploy' command: build, then publish.
type DeployCmd struct {
	SkipBuild bool `name:"skip-build" help:"Publish the existing output directory without rebuilding"`
}

func (d *DeployCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !d.SkipBuild {
		if err := RunBuild(ctx, cfg); err != nil {
			return fmt.Errorf("build before deploy: %w", err)
		}
	}

	fmt.Println("Publishing site")
	if err := deploy.New(cfg.Deploy).Deploy(ctx, cfg.Output.Directory); err != nil {
		return err
	}
	fmt.Println("Site published successfully")
	return nil
}
