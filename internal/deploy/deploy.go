// Package deploy publishes a rendered site tree, either by syncing it into
// a target directory or by committing it onto a git branch and pushing.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/logfields"
)

var (
	// ErrNotConfigured reports a deploy invocation without a deploy section.
	ErrNotConfigured = errors.New("sitegen: deploy not configured")
	// ErrNoSite reports a missing or empty site directory.
	ErrNoSite = errors.New("sitegen: site directory missing")
)

// Deployer publishes a built site according to the deploy configuration.
type Deployer struct {
	cfg *config.DeployConfig
	log *slog.Logger
}

// New creates a deployer. cfg may be nil; Deploy then fails with
// ErrNotConfigured.
func New(cfg *config.DeployConfig) *Deployer {
	return &Deployer{cfg: cfg, log: slog.Default()}
}

// SetLogger replaces the default logger. Returns the deployer for chaining.
func (d *Deployer) SetLogger(log *slog.Logger) *Deployer {
	if log != nil {
		d.log = log
	}
	return d
}

// Deploy publishes siteDir using the configured method.
func (d *Deployer) Deploy(ctx context.Context, siteDir string) error {
	if d.cfg == nil {
		return ErrNotConfigured
	}
	if fi, err := os.Stat(siteDir); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoSite, siteDir)
	}
	switch config.NormalizeDeployMethod(d.cfg.Method) {
	case config.DeployMethodGit:
		return d.deployGit(ctx, siteDir)
	default:
		return d.deployDir(ctx, siteDir)
	}
}

// deployDir syncs the site into the target directory. Files are copied
// when absent, differently sized, or older at the destination; nothing is
// ever deleted from the target.
func (d *Deployer) deployDir(ctx context.Context, siteDir string) error {
	copied, skipped, err := syncTree(ctx, siteDir, d.cfg.Target)
	if err != nil {
		return err
	}
	d.log.Info("Site synced to directory",
		logfields.Target(d.cfg.Target),
		slog.Int("copied", copied),
		slog.Int("skipped", skipped))
	return nil
}

// syncTree copies changed files from src into dst, returning copy and skip
// counts.
func syncTree(ctx context.Context, src, dst string) (copied, skipped int, err error) {
	err = filepath.Walk(src, func(p string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, rerr := filepath.Rel(src, p)
		if rerr != nil {
			return rerr
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if fi, serr := os.Stat(target); serr == nil {
			if fi.Size() == info.Size() && !fi.ModTime().Before(info.ModTime()) {
				skipped++
				return nil
			}
		}
		if cerr := copyFile(p, target); cerr != nil {
			return cerr
		}
		copied++
		return nil
	})
	return copied, skipped, err
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
