package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/voyahchat/sitegen/internal/build"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/version"
)

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check.
type HealthCheck struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthResponse represents the complete health check response.
type HealthResponse struct {
	Status    HealthStatus  `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Version   string        `json:"version"`
	Uptime    string        `json:"uptime"`
	Checks    []HealthCheck `json:"checks"`
}

// PerformHealthChecks executes all health checks and derives the overall
// status.
func (d *Daemon) PerformHealthChecks() *HealthResponse {
	checks := []HealthCheck{
		d.checkDaemonStatus(),
		d.checkLastBuild(),
		d.checkSiteOutput(),
	}

	overall := HealthStatusHealthy
	for _, c := range checks {
		switch c.Status {
		case HealthStatusUnhealthy:
			overall = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		}
	}

	return &HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Version:   version.Version,
		Uptime:    time.Since(d.startTime).String(),
		Checks:    checks,
	}
}

func (d *Daemon) checkDaemonStatus() HealthCheck {
	check := HealthCheck{Name: "daemon_status"}
	switch d.Status() {
	case StatusRunning:
		check.Status = HealthStatusHealthy
		check.Message = "Daemon is running"
	case StatusStarting:
		check.Status = HealthStatusDegraded
		check.Message = "Daemon is still starting"
	case StatusStopping, StatusStopped:
		check.Status = HealthStatusDegraded
		check.Message = "Daemon is shutting down"
	default:
		check.Status = HealthStatusUnhealthy
		check.Message = "Daemon is in error state"
	}
	return check
}

func (d *Daemon) checkLastBuild() HealthCheck {
	check := HealthCheck{Name: "last_build"}
	report := d.LastBuild()
	switch {
	case report == nil:
		check.Status = HealthStatusDegraded
		check.Message = "No build completed yet"
	case report.Outcome == build.OutcomeFailed:
		check.Status = HealthStatusDegraded
		check.Message = fmt.Sprintf("Last build failed: %s", report.BuildID)
	case report.Outcome == build.OutcomeCanceled:
		check.Status = HealthStatusDegraded
		check.Message = fmt.Sprintf("Last build canceled: %s", report.BuildID)
	default:
		check.Status = HealthStatusHealthy
		check.Message = fmt.Sprintf("Last build %s, %d pages rendered", report.Outcome, report.RenderedPages)
	}
	return check
}

func (d *Daemon) checkSiteOutput() HealthCheck {
	check := HealthCheck{Name: "site_output"}
	if st, err := os.Stat(d.cfg.Output.Directory); err != nil || !st.IsDir() {
		check.Status = HealthStatusDegraded
		check.Message = "Output directory missing"
		return check
	}
	check.Status = HealthStatusHealthy
	check.Message = "Output directory present"
	return check
}

// HealthHandler serves health information on /healthz. Degraded still
// returns 200; only unhealthy maps to 503.
func (d *Daemon) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	health := d.PerformHealthChecks()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if health.Status == HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error("Failed to encode health response", logfields.Error(err))
	}
}
