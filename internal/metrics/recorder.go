package metrics

import "time"

// ResultLabel enumerates result categories for stage and build counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// LinkResult enumerates link resolution outcomes for counters.
type LinkResult string

const (
	LinkResolved         LinkResult = "resolved"
	LinkAnchorUnresolved LinkResult = "anchor_unresolved"
	LinkImageUnmapped    LinkResult = "image_unmapped"
)

// Recorder defines observability hooks for build, stage and render metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the zero value so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome ResultLabel)
	AddPagesRendered(n int)
	AddLinkResolutions(result LinkResult, n int)
	AddImageCacheHits(n int)
	AddImageCacheMisses(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                {}
func (NoopRecorder) AddPagesRendered(int)                       {}
func (NoopRecorder) AddLinkResolutions(LinkResult, int)         {}
func (NoopRecorder) AddImageCacheHits(int)                      {}
func (NoopRecorder) AddImageCacheMisses(int)                    {}
