package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	stageDurations  map[string]int
	stageResults    map[string]map[ResultLabel]int
	buildDurations  int
	buildOutcomes   map[ResultLabel]int
	pages           int
	linkResolutions map[LinkResult]int
	cacheHits       int
	cacheMisses     int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations:  map[string]int{},
		stageResults:    map[string]map[ResultLabel]int{},
		buildOutcomes:   map[ResultLabel]int{},
		linkResolutions: map[LinkResult]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome ResultLabel) { t.buildOutcomes[outcome]++ }
func (t *testRecorder) AddPagesRendered(n int)              { t.pages += n }
func (t *testRecorder) AddLinkResolutions(result LinkResult, n int) {
	t.linkResolutions[result] += n
}
func (t *testRecorder) AddImageCacheHits(n int)   { t.cacheHits += n }
func (t *testRecorder) AddImageCacheMisses(n int) { t.cacheMisses += n }

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*testRecorder)(nil)
)

func TestRecorder_AccumulatesThroughInterface(t *testing.T) {
	tr := newTestRecorder()
	var r Recorder = tr

	r.ObserveStageDuration("render", 10*time.Millisecond)
	r.ObserveStageDuration("render", 20*time.Millisecond)
	r.IncStageResult("render", ResultSuccess)
	r.IncBuildOutcome(ResultWarning)
	r.AddPagesRendered(4)
	r.AddLinkResolutions(LinkResolved, 9)
	r.AddLinkResolutions(LinkAnchorUnresolved, 1)
	r.AddImageCacheHits(3)
	r.AddImageCacheMisses(2)

	if tr.stageDurations["render"] != 2 {
		t.Errorf("stage observations = %d, want 2", tr.stageDurations["render"])
	}
	if tr.stageResults["render"][ResultSuccess] != 1 {
		t.Errorf("stage results = %v", tr.stageResults)
	}
	if tr.buildOutcomes[ResultWarning] != 1 {
		t.Errorf("build outcomes = %v", tr.buildOutcomes)
	}
	if tr.pages != 4 {
		t.Errorf("pages = %d, want 4", tr.pages)
	}
	if tr.linkResolutions[LinkResolved] != 9 || tr.linkResolutions[LinkAnchorUnresolved] != 1 {
		t.Errorf("link resolutions = %v", tr.linkResolutions)
	}
	if tr.cacheHits != 3 || tr.cacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d", tr.cacheHits, tr.cacheMisses)
	}
}

func TestNoopRecorder_AcceptsAllCalls(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("scan", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("scan", ResultFatal)
	r.IncBuildOutcome(ResultCanceled)
	r.AddPagesRendered(1)
	r.AddLinkResolutions(LinkImageUnmapped, 1)
	r.AddImageCacheHits(1)
	r.AddImageCacheMisses(1)
}
