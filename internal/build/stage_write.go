package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// stageWrite materializes the site. With output.clean set the build writes
// into a sibling staging directory and swaps it in atomically, so readers
// never observe a half-written tree; otherwise files land in place and
// stale files survive.
func stageWrite(ctx context.Context, bs *BuildState) error {
	cfg := bs.Runner.cfg
	final := filepath.Clean(cfg.Output.Directory)
	root := final
	staged := cfg.Output.Clean
	if staged {
		root = final + "_stage"
		if err := os.RemoveAll(root); err != nil {
			return newFatalStageError(StageWrite, fmt.Errorf("%w: reset staging: %v", ErrWrite, err))
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return newFatalStageError(StageWrite, fmt.Errorf("%w: %v", ErrWrite, err))
	}
	keepStaging := false
	if staged {
		defer func() {
			if !keepStaging {
				_ = os.RemoveAll(root)
			}
		}()
	}

	urls := make([]string, 0, len(bs.Pages))
	for u := range bs.Pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	for _, u := range urls {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageWrite, ctx.Err())
		default:
		}
		dst := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(u, "/")))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return newFatalStageError(StageWrite, fmt.Errorf("%w: %v", ErrWrite, err))
		}
		if err := os.WriteFile(dst, []byte(bs.Pages[u]), 0o644); err != nil {
			return newFatalStageError(StageWrite, fmt.Errorf("%w: %s: %v", ErrWrite, u, err))
		}
	}

	staticRoot := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(cfg.Images.StaticDir, "/")))
	for _, pub := range bs.Images.Files {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageWrite, ctx.Err())
		default:
		}
		if err := copyFile(pub.SourcePath, filepath.Join(staticRoot, pub.Name)); err != nil {
			return newFatalStageError(StageWrite, fmt.Errorf("%w: %s: %v", ErrWrite, pub.Name, err))
		}
	}

	if staged {
		if err := promoteStaging(root, final); err != nil {
			return newFatalStageError(StageWrite, fmt.Errorf("%w: %v", ErrWrite, err))
		}
		keepStaging = true
	}
	return nil
}

// promoteStaging swaps the staging directory into place. The previous
// output survives as <final>.prev until the swap has succeeded.
func promoteStaging(stage, final string) error {
	prev := final + ".prev"
	_ = os.RemoveAll(prev)
	if _, err := os.Stat(final); err == nil {
		if err := os.Rename(final, prev); err != nil {
			return fmt.Errorf("back up previous output: %w", err)
		}
	}
	if err := os.Rename(stage, final); err != nil {
		_ = os.Rename(prev, final)
		return fmt.Errorf("promote staging: %w", err)
	}
	_ = os.RemoveAll(prev)
	return nil
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
