package build

import (
	"context"
	"fmt"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/docs"
	"github.com/voyahchat/sitegen/internal/render"
	"github.com/voyahchat/sitegen/internal/slug"
	"github.com/voyahchat/sitegen/internal/templates"
)

// stageRender drives the markdown engine across every page, then wraps the
// rendered bodies in the page shell. Unresolved anchors and unmapped images
// downgrade the build to a warning; a render defect aborts it.
func stageRender(_ context.Context, bs *BuildState) error {
	cfg := bs.Runner.cfg
	loader := docs.NewLoader(cfg.Content.Dir)
	eng := render.New(render.Options{
		Site:       bs.Site,
		Images:     bs.Images.Images,
		Assets:     cfg.Assets,
		Load:       loader.Load,
		Casing:     slugCase(cfg.Render.AnchorCase),
		URLPrefix:  cfg.Render.URLPrefix,
		Typography: cfg.Render.Typography,
		Logger:     bs.Runner.log,
	})

	bodies, err := eng.RenderAll(bs.Site.Sources())
	if err != nil {
		return newFatalStageError(StageRender, fmt.Errorf("%w: %v", ErrRender, err))
	}
	bs.Bodies = bodies
	bs.Stats = eng.Stats()
	bs.Report.RenderedPages = bs.Stats.Pages
	bs.Report.LinksResolved = bs.Stats.LinksResolved
	bs.Report.AnchorsUnresolved = bs.Stats.AnchorsUnresolved
	bs.Report.ImagesUnmapped = bs.Stats.ImagesUnmapped

	nav := templates.Nav(bs.Site.Pages(), cfg.Render.URLPrefix)
	for _, p := range bs.Site.Pages() {
		body, ok := bodies[p.URL]
		if !ok {
			return newFatalStageError(StageRender, fmt.Errorf("%w: no output for %s", ErrRender, p.Source))
		}
		data := templates.Data{
			Title:       p.Title,
			Content:     body,
			Nav:         nav,
			Updated:     bs.Updated[p.Source].Format("2006-01-02"),
			SiteTitle:   cfg.Site.Title,
			Description: cfg.Site.Description,
			Language:    cfg.Site.Language,
		}
		bs.Pages[p.URL] = bs.Template.Apply(data)
	}

	if bs.Stats.AnchorsUnresolved > 0 || bs.Stats.ImagesUnmapped > 0 {
		return newWarnStageError(StageRender, fmt.Errorf("%w: %d anchors unresolved, %d images unmapped",
			ErrRender, bs.Stats.AnchorsUnresolved, bs.Stats.ImagesUnmapped))
	}
	return nil
}

func slugCase(raw string) slug.Case {
	switch config.NormalizeAnchorCase(raw) {
	case config.AnchorCaseUpper:
		return slug.CaseUpper
	case config.AnchorCaseKeep:
		return slug.CaseKeep
	default:
		return slug.CaseLower
	}
}
