package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/logfields"
)

// deployGit mirrors the site onto the configured branch and pushes it in a
// single attempt. With target set the checkout persists between deploys;
// otherwise an ephemeral clone is used and removed afterwards.
func (d *Deployer) deployGit(ctx context.Context, siteDir string) error {
	branch := d.cfg.Branch
	if branch == "" {
		branch = "main"
	}
	message := d.cfg.Message
	if message == "" {
		message = "Publish site"
	}
	auth, err := authMethod(d.cfg.Auth)
	if err != nil {
		return err
	}

	workDir := d.cfg.Target
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "sitegen-deploy-")
		if err != nil {
			return fmt.Errorf("create deploy workdir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		workDir = tmp
	}

	repo, err := d.openOrClone(ctx, workDir, branch, auth)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("deploy worktree: %w", err)
	}

	// The branch mirrors the site exactly, so stale files must go before
	// the copy.
	if err := clearWorktree(workDir); err != nil {
		return fmt.Errorf("clear deploy worktree: %w", err)
	}
	if _, _, err := syncTree(ctx, siteDir, workDir); err != nil {
		return fmt.Errorf("copy site into worktree: %w", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage site files: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("deploy status: %w", err)
	}
	if status.IsClean() {
		d.log.Info("Site unchanged, nothing to publish", slog.String("branch", branch))
		return nil
	}

	commit, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "sitegen", Email: "sitegen@localhost", When: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("commit site: %w", err)
	}

	spec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{spec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push %s: %w", branch, err)
	}
	d.log.Info("Site published",
		slog.String("branch", branch),
		slog.String("commit", commit.String()[:8]),
		logfields.Target(d.cfg.Remote))
	return nil
}

// openOrClone returns a worktree repository for the deploy branch. A fresh
// remote without any commits is initialized locally so the first publish
// creates the branch.
func (d *Deployer) openOrClone(ctx context.Context, workDir, branch string, auth transport.AuthMethod) (*git.Repository, error) {
	repo, err := git.PlainOpen(workDir)
	if err == nil {
		// Persistent checkout; pick up remote movement best effort.
		if wt, werr := repo.Worktree(); werr == nil {
			perr := wt.PullContext(ctx, &git.PullOptions{
				RemoteName:    "origin",
				ReferenceName: plumbing.NewBranchReferenceName(branch),
				SingleBranch:  true,
				Auth:          auth,
			})
			if perr != nil && !errors.Is(perr, git.NoErrAlreadyUpToDate) {
				d.log.Warn("Deploy checkout pull failed", logfields.Error(perr))
			}
		}
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open deploy checkout: %w", err)
	}

	repo, err = git.PlainCloneContext(ctx, workDir, false, &git.CloneOptions{
		URL:           d.cfg.Remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil, fmt.Errorf("clone %s: %w", d.cfg.Remote, err)
	}

	repo, err = git.PlainInitWithOptions(workDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	if err != nil {
		return nil, fmt.Errorf("init deploy checkout: %w", err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{d.cfg.Remote}}); err != nil {
		return nil, fmt.Errorf("configure deploy remote: %w", err)
	}
	return repo, nil
}

// clearWorktree removes everything under dir except the .git directory.
func clearWorktree(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// authMethod builds go-git credentials from the deploy auth configuration.
// A nil configuration means unauthenticated access.
func authMethod(a *config.AuthConfig) (transport.AuthMethod, error) {
	if a == nil {
		return nil, nil
	}
	switch config.NormalizeAuthType(a.Type) {
	case config.AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("basic auth requires username and password")
		}
		return &githttp.BasicAuth{Username: a.Username, Password: a.Password}, nil
	case config.AuthTypeSSH:
		keyPath := a.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		keys, err := gitssh.NewPublicKeysFromFile("git", keyPath, "")
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", keyPath, err)
		}
		return keys, nil
	default:
		if a.Token == "" {
			return nil, fmt.Errorf("token auth requires a token")
		}
		// Git hosts accept the token as a basic-auth password with a
		// fixed username.
		return &githttp.BasicAuth{Username: "token", Password: a.Token}, nil
	}
}
