package build

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/voyahchat/sitegen/internal/linkverify"
	"github.com/voyahchat/sitegen/internal/logfields"
)

// stageVerify checks that every internal link in the emitted pages points
// at a file this build wrote. Broken links downgrade the build to a
// warning; the pages are already on disk at this point.
func stageVerify(ctx context.Context, bs *BuildState) error {
	cfg := bs.Runner.cfg
	prefix := cfg.Render.URLPrefix

	written := make(map[string]bool, len(bs.Pages)+len(bs.Images.Files))
	for u := range bs.Pages {
		if p, ok := linkverify.TargetPath(u, prefix); ok {
			written[p] = true
		}
	}
	staticDir := strings.TrimPrefix(cfg.Images.StaticDir, "/")
	for _, pub := range bs.Images.Files {
		written[path.Join(staticDir, pub.Name)] = true
	}

	broken := 0
	reported := map[string]bool{}
	for u, page := range bs.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageVerify, ctx.Err())
		default:
		}
		links, err := linkverify.ExtractFromReader(strings.NewReader(page), cfg.Site.BaseURL)
		if err != nil {
			return newWarnStageError(StageVerify, fmt.Errorf("parse %s: %v", u, err))
		}
		for _, l := range links {
			if !l.IsInternal {
				continue
			}
			target, ok := linkverify.TargetPath(l.URL, prefix)
			if !ok || written[target] {
				continue
			}
			broken++
			if !reported[target] {
				reported[target] = true
				bs.Runner.log.Warn("Internal link target missing from output",
					logfields.URL(u),
					logfields.Target(l.URL))
			}
		}
	}
	bs.Report.BrokenLinks = broken
	if broken > 0 {
		return newWarnStageError(StageVerify, fmt.Errorf("%d internal links point at missing files", broken))
	}
	return nil
}
