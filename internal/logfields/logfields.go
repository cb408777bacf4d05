package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyURL        = "url"
	KeyTarget     = "target"
	KeyAnchor     = "anchor"
	KeySection    = "section"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyBuildID    = "build_id"
	KeySchedule   = "schedule_name"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Target(t string) slog.Attr        { return slog.String(KeyTarget, t) }
func Anchor(a string) slog.Attr        { return slog.String(KeyAnchor, a) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func ScheduleName(n string) slog.Attr  { return slog.String(KeySchedule, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
