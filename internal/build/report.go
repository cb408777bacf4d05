package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates outcome counts for one stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// BuildReport captures high-level metrics about one site build.
type BuildReport struct {
	SchemaVersion int
	BuildID       string
	Pages         int // markdown sources discovered
	Assets        int // asset files discovered
	Start         time.Time
	End           time.Time
	Errors        []error // fatal errors causing build abortion (at most one today)
	Warnings      []error // non-fatal issues recorded along the way

	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount

	RenderedPages     int
	LinksResolved     int
	AnchorsUnresolved int
	ImagesUnmapped    int
	CacheHits         int
	CacheMisses       int
	BrokenLinks       int

	Outcome BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *BuildReport) finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
}

// recordError appends a classified stage error and marks its stage.
func (r *BuildReport) recordError(se *StageError) {
	r.Errors = append(r.Errors, se)
	r.StageErrorKinds[se.Stage] = se.Kind
}

// countStage bumps the per-stage outcome counter. An empty kind counts as
// success; warnings also mark the stage in StageErrorKinds.
func (r *BuildReport) countStage(name StageName, kind StageErrorKind) {
	sc := r.StageCounts[name]
	switch kind {
	case StageErrorWarning:
		sc.Warning++
		r.StageErrorKinds[name] = kind
	case StageErrorFatal:
		sc.Fatal++
	case StageErrorCanceled:
		sc.Canceled++
	default:
		sc.Success++
	}
	r.StageCounts[name] = sc
}

// deriveOutcome sets Outcome from the recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("pages=%d assets=%d rendered=%d links=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Pages, r.Assets, r.RenderedPages, r.LinksResolved, dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes the report atomically into the output directory:
//
//	build-report.json  (machine readable)
//	build-report.txt   (human summary)
//
// Best effort; errors are returned for caller logging but do not change the
// build outcome.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	summaryPath := filepath.Join(root, "build-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(r.Summary()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// sanitizedCopy converts errors to strings and typed map keys to plain
// strings so the JSON shape stays stable for consumers.
func (r *BuildReport) sanitizedCopy() *buildReportSerializable {
	durations := make(map[string]time.Duration, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[string(k)] = v
	}
	kinds := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		kinds[string(k)] = string(v)
	}
	counts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		counts[string(k)] = v
	}

	s := &buildReportSerializable{
		SchemaVersion:     r.SchemaVersion,
		BuildID:           r.BuildID,
		Pages:             r.Pages,
		Assets:            r.Assets,
		Start:             r.Start,
		End:               r.End,
		Errors:            make([]string, len(r.Errors)),
		Warnings:          make([]string, len(r.Warnings)),
		StageDurations:    durations,
		StageErrorKinds:   kinds,
		StageCounts:       counts,
		RenderedPages:     r.RenderedPages,
		LinksResolved:     r.LinksResolved,
		AnchorsUnresolved: r.AnchorsUnresolved,
		ImagesUnmapped:    r.ImagesUnmapped,
		CacheHits:         r.CacheHits,
		CacheMisses:       r.CacheMisses,
		BrokenLinks:       r.BrokenLinks,
		Outcome:           string(r.Outcome),
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

type buildReportSerializable struct {
	SchemaVersion     int                      `json:"schema_version"`
	BuildID           string                   `json:"build_id"`
	Pages             int                      `json:"pages"`
	Assets            int                      `json:"assets"`
	Start             time.Time                `json:"start"`
	End               time.Time                `json:"end"`
	Errors            []string                 `json:"errors"`
	Warnings          []string                 `json:"warnings"`
	StageDurations    map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds   map[string]string        `json:"stage_error_kinds"`
	StageCounts       map[string]StageCount    `json:"stage_counts"`
	RenderedPages     int                      `json:"rendered_pages"`
	LinksResolved     int                      `json:"links_resolved"`
	AnchorsUnresolved int                      `json:"anchors_unresolved"`
	ImagesUnmapped    int                      `json:"images_unmapped"`
	CacheHits         int                      `json:"cache_hits"`
	CacheMisses       int                      `json:"cache_misses"`
	BrokenLinks       int                      `json:"broken_links"`
	Outcome           string                   `json:"outcome"`
}
