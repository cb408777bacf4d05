package build

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeriveOutcome(t *testing.T) {
	r := newBuildReport()
	r.deriveOutcome()
	if r.Outcome != OutcomeSuccess {
		t.Errorf("clean report outcome = %s", r.Outcome)
	}

	r = newBuildReport()
	r.Warnings = append(r.Warnings, errors.New("anchor unresolved"))
	r.deriveOutcome()
	if r.Outcome != OutcomeWarning {
		t.Errorf("warned report outcome = %s", r.Outcome)
	}

	r = newBuildReport()
	r.recordError(newFatalStageError("render", errors.New("bad link")))
	r.deriveOutcome()
	if r.Outcome != OutcomeFailed {
		t.Errorf("failed report outcome = %s", r.Outcome)
	}

	r = newBuildReport()
	r.recordError(newCanceledStageError("write", errors.New("context canceled")))
	r.deriveOutcome()
	if r.Outcome != OutcomeCanceled {
		t.Errorf("canceled report outcome = %s", r.Outcome)
	}
}

func TestReportPersist_WritesJSONAndSummary(t *testing.T) {
	dir := t.TempDir()
	r := newBuildReport()
	r.Pages = 3
	r.RenderedPages = 3
	r.LinksResolved = 7
	r.StageDurations[StageRender] = 1234
	r.Warnings = append(r.Warnings, newWarnStageError(StageVerify, errors.New("1 internal links point at missing files")))

	if err := r.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	jb, err := os.ReadFile(filepath.Join(dir, "build-report.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var got buildReportSerializable
	if err := json.Unmarshal(jb, &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.SchemaVersion != 1 || got.Pages != 3 || got.LinksResolved != 7 {
		t.Errorf("decoded = %+v", got)
	}
	if got.BuildID == "" {
		t.Error("build id missing")
	}
	if got.Outcome != string(OutcomeWarning) {
		t.Errorf("outcome = %s", got.Outcome)
	}
	if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "missing files") {
		t.Errorf("warnings = %v", got.Warnings)
	}
	if _, ok := got.StageDurations["render"]; !ok {
		t.Errorf("stage durations = %v", got.StageDurations)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "build-report.txt"))
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if !strings.Contains(string(txt), "outcome=warning") {
		t.Errorf("summary = %q", txt)
	}

	// No temp leftovers after the atomic renames.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestReportSummary_CountsAndOutcome(t *testing.T) {
	r := newBuildReport()
	r.Pages = 2
	r.Assets = 1
	r.RenderedPages = 2
	r.finish()
	r.deriveOutcome()
	s := r.Summary()
	for _, want := range []string{"pages=2", "assets=1", "rendered=2", "outcome=success"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}
