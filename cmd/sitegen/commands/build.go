package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/voyahchat/sitegen/internal/build"
	"github.com/voyahchat/sitegen/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return RunBuild(ctx, cfg)
}

// RunBuild executes a single site build and prints a one-line summary.
// Friendly user-facing messages go to stdout for CLI integration tests.
func RunBuild(ctx context.Context, cfg *config.Config) error {
	fmt.Println("Building site")

	report, err := build.NewRunner(cfg).Run(ctx)
	if report != nil {
		fmt.Println(report.Summary())
	}
	if err != nil {
		return err
	}

	fmt.Println("Build completed successfully")
	return nil
}
