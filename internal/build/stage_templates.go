package build

import (
	"context"
	"fmt"

	"github.com/voyahchat/sitegen/internal/templates"
)

// stageTemplates loads the page shell. An empty template dir selects the
// built-in shell; a configured one must exist.
func stageTemplates(_ context.Context, bs *BuildState) error {
	tpl, err := templates.Load(bs.Runner.cfg.Content.Templates)
	if err != nil {
		return newFatalStageError(StageTemplates, fmt.Errorf("%w: %v", ErrTemplates, err))
	}
	bs.Template = tpl
	return nil
}
