package build

import (
	"time"

	"github.com/voyahchat/sitegen/internal/docs"
	"github.com/voyahchat/sitegen/internal/images"
	"github.com/voyahchat/sitegen/internal/render"
	"github.com/voyahchat/sitegen/internal/sitemap"
	"github.com/voyahchat/sitegen/internal/templates"
)

// BuildState carries mutable state across stages. Stages fill it in order;
// later stages read what earlier stages produced.
type BuildState struct {
	Runner *Runner
	Report *BuildReport

	Files    []docs.File                 // discovered content tree
	Site     *sitemap.Index              // registered pages
	Updated  map[string]time.Time        // source -> newest change (git commit or file mtime)
	Images   *images.Result              // published asset mappings
	Template *templates.Template         // page shell
	Bodies   map[string]string           // url -> rendered article HTML
	Pages    map[string]string           // url -> complete page after shell apply
	Stats    render.Stats                // resolution totals from the engine
	Timings  map[StageName]time.Duration

	start time.Time
}

func newBuildState(r *Runner, report *BuildReport) *BuildState {
	return &BuildState{
		Runner:  r,
		Report:  report,
		Updated: make(map[string]time.Time),
		Pages:   make(map[string]string),
		Timings: make(map[StageName]time.Duration),
		start:   time.Now(),
	}
}
