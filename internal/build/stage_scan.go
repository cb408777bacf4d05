package build

import (
	"context"
	"fmt"

	"github.com/voyahchat/sitegen/internal/docs"
)

// stageScan walks the content tree and classifies every file as a page or
// an asset.
func stageScan(_ context.Context, bs *BuildState) error {
	disc := docs.NewDiscovery(bs.Runner.cfg.Content.Dir, bs.Runner.cfg.Content.Ignore)
	files, err := disc.Discover()
	if err != nil {
		return newFatalStageError(StageScan, fmt.Errorf("%w: %v", ErrScan, err))
	}
	bs.Files = files
	bs.Report.Pages = len(docs.Markdown(files))
	bs.Report.Assets = len(docs.Assets(files))
	return nil
}
