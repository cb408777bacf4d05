// Package gitmeta extracts commit metadata for content files from the
// repository enclosing the content directory.
package gitmeta

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/voyahchat/sitegen/internal/logfields"
)

// ErrNotRepository indicates the content directory is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

var errStop = errors.New("stop iteration")

// Info describes the newest commit that touched a file.
type Info struct {
	CommitSHA  string
	CommitTime time.Time
	Author     string
}

// Collector reads commit metadata from a single repository.
type Collector struct {
	repo *git.Repository
	root string // worktree root
}

// Open locates the repository enclosing dir, searching parent directories
// for the .git directory the way the git CLI does.
func Open(dir string) (*Collector, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &Collector{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Head returns the current HEAD commit SHA.
func (c *Collector) Head() (string, error) {
	ref, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// Collect walks history newest-first and records, for each given absolute
// path, the first commit that touched it. Files absent from history
// (untracked or never committed) are simply missing from the result.
func (c *Collector) Collect(paths []string) (map[string]Info, error) {
	pending := make(map[string]string, len(paths)) // repo-relative -> original
	for _, p := range paths {
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			continue
		}
		pending[filepath.ToSlash(rel)] = p
	}

	ref, err := c.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := c.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	result := make(map[string]Info)
	err = iter.ForEach(func(commit *object.Commit) error {
		if len(pending) == 0 {
			return errStop
		}

		stats, sErr := commit.Stats()
		if sErr != nil {
			return nil // skip unreadable commits
		}

		for _, stat := range stats {
			original, ok := pending[stat.Name]
			if !ok {
				continue
			}
			result[original] = Info{
				CommitSHA:  commit.Hash.String(),
				CommitTime: commit.Committer.When,
				Author:     commit.Author.Name,
			}
			delete(pending, stat.Name)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, fmt.Errorf("walk log: %w", err)
	}

	slog.Debug("Commit metadata collected",
		logfields.Count(len(result)),
		slog.Int("missing", len(pending)))

	return result, nil
}
