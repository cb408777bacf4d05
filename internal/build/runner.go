package build

import (
	"context"
	"log/slog"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/metrics"
)

// Runner executes the site build pipeline.
type Runner struct {
	cfg      *config.Config
	recorder metrics.Recorder
	log      *slog.Logger
}

// NewRunner creates a build runner for the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg, recorder: metrics.NoopRecorder{}, log: slog.Default()}
}

// SetRecorder injects a metrics recorder (optional). Returns the runner for
// chaining.
func (r *Runner) SetRecorder(rec metrics.Recorder) *Runner {
	if rec == nil {
		r.recorder = metrics.NoopRecorder{}
		return r
	}
	r.recorder = rec
	return r
}

// SetLogger replaces the default logger. Returns the runner for chaining.
func (r *Runner) SetLogger(log *slog.Logger) *Runner {
	if log != nil {
		r.log = log
	}
	return r
}

// Run executes all build stages in order and persists a build report into
// the output directory. The report is returned even when the build fails,
// so callers can surface its identity and partial counts.
func (r *Runner) Run(ctx context.Context) (*BuildReport, error) {
	r.log.Info("Starting site build",
		"content", r.cfg.Content.Dir,
		"output", r.cfg.Output.Directory)

	report := newBuildReport()
	bs := newBuildState(r, report)

	stages := NewPipeline().
		Add(StageScan, stageScan).
		Add(StageSitemap, stageSitemap).
		Add(StageImages, stageImages).
		Add(StageTemplates, stageTemplates).
		Add(StageRender, stageRender).
		Add(StageWrite, stageWrite).
		Add(StageVerify, stageVerify).
		Build()

	err := runStages(ctx, bs, stages)

	report.deriveOutcome()
	report.finish()

	r.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	r.recorder.IncBuildOutcome(outcomeLabel(report.Outcome))
	r.recorder.AddPagesRendered(report.RenderedPages)
	r.recorder.AddLinkResolutions(metrics.LinkResolved, report.LinksResolved)
	r.recorder.AddLinkResolutions(metrics.LinkAnchorUnresolved, report.AnchorsUnresolved)
	r.recorder.AddLinkResolutions(metrics.LinkImageUnmapped, report.ImagesUnmapped)
	r.recorder.AddImageCacheHits(report.CacheHits)
	r.recorder.AddImageCacheMisses(report.CacheMisses)

	if err != nil {
		return report, err
	}

	// Persist report (best effort) inside the final output directory.
	if perr := report.Persist(r.cfg.Output.Directory); perr != nil {
		r.log.Warn("Failed to persist build report", logfields.Error(perr))
	}
	r.log.Info("Site build completed",
		logfields.BuildID(report.BuildID),
		slog.Int("pages", report.RenderedPages),
		slog.Int("assets", report.Assets),
		logfields.DurationMS(float64(report.End.Sub(report.Start).Milliseconds())),
		"outcome", string(report.Outcome))
	return report, nil
}

func outcomeLabel(o BuildOutcome) metrics.ResultLabel {
	switch o {
	case OutcomeWarning:
		return metrics.ResultWarning
	case OutcomeFailed:
		return metrics.ResultFatal
	case OutcomeCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}
