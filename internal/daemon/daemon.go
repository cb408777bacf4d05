// Package daemon runs sitegen as a long-lived process. It watches the
// content tree, rebuilds on change or on schedule, serves the rendered
// site over HTTP, and publishes build summaries to NATS.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyahchat/sitegen/internal/build"
	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/docs"
	"github.com/voyahchat/sitegen/internal/fingerprint"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/metrics"
)

// Status represents the current state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Daemon is the long-running site generation service.
type Daemon struct {
	cfg       *config.Config
	log       *slog.Logger
	status    atomic.Value // Status
	startTime time.Time

	registry *prometheus.Registry
	recorder metrics.Recorder

	server    *Server
	scheduler *Scheduler
	watcher   *Watcher
	events    *EventPublisher

	// rebuildReq coalesces triggers: at most one rebuild is pending at a
	// time, and a pending rebuild covers all changes made before it runs.
	rebuildReq chan string

	mu           sync.RWMutex
	lastReport   *build.BuildReport
	lastSnapshot map[string]string
}

// New creates a daemon from a validated configuration. The daemon section
// must be present.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cfg.Daemon == nil {
		return nil, fmt.Errorf("daemon configuration is required")
	}

	d := &Daemon{
		cfg:        cfg,
		log:        slog.Default(),
		recorder:   metrics.NoopRecorder{},
		rebuildReq: make(chan string, 1),
	}
	d.status.Store(StatusStopped)

	if cfg.Metrics.Enabled {
		d.registry = prometheus.NewRegistry()
		d.recorder = metrics.NewPrometheusRecorder(d.registry)
	}

	d.server = NewServer(cfg, d)

	if len(cfg.Daemon.Schedules) > 0 {
		scheduler, err := NewScheduler()
		if err != nil {
			return nil, err
		}
		d.scheduler = scheduler
	}

	if cfg.Daemon.Watch.Enabled {
		watcher, err := NewWatcher(cfg.Content.Dir, cfg.Daemon.Watch.DebounceDuration(), func() {
			d.requestRebuild("watch")
		})
		if err != nil {
			return nil, err
		}
		d.watcher = watcher
	}

	return d, nil
}

// SetLogger replaces the default logger. Returns the daemon for chaining.
func (d *Daemon) SetLogger(log *slog.Logger) *Daemon {
	if log != nil {
		d.log = log
	}
	return d
}

// Status returns the current daemon state.
func (d *Daemon) Status() Status {
	return d.status.Load().(Status)
}

// LastBuild returns the most recent build report, nil before the first
// build completes.
func (d *Daemon) LastBuild() *build.BuildReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastReport
}

// Run starts every component, performs an initial build, and blocks until
// ctx is canceled. Build failures keep the daemon alive; it continues to
// serve the last good output and rebuilds on the next trigger.
func (d *Daemon) Run(ctx context.Context) error {
	if d.Status() != StatusStopped {
		return fmt.Errorf("daemon is not in stopped state: %s", d.Status())
	}
	d.status.Store(StatusStarting)
	d.startTime = time.Now()
	d.log.Info("Starting site daemon",
		slog.String("content", d.cfg.Content.Dir),
		slog.String("output", d.cfg.Output.Directory))

	if d.cfg.Daemon.Events.Enabled {
		events, err := NewEventPublisher(d.cfg.Daemon.Events)
		if err != nil {
			d.log.Warn("Build event publishing disabled", logfields.Error(err))
		} else {
			d.events = events
		}
	}

	// Build before serving so the first request already sees a site.
	d.runBuild(ctx, "startup")

	if err := d.server.Start(ctx); err != nil {
		d.status.Store(StatusError)
		return err
	}

	if d.scheduler != nil {
		for _, sc := range d.cfg.Daemon.Schedules {
			reason := "schedule:" + sc.Name
			if _, err := d.scheduler.AddSchedule(sc, func() { d.requestRebuild(reason) }); err != nil {
				d.status.Store(StatusError)
				return err
			}
		}
		d.scheduler.Start()
	}

	if d.watcher != nil {
		if err := d.watcher.Start(ctx); err != nil {
			d.status.Store(StatusError)
			return err
		}
	}

	d.status.Store(StatusRunning)
	d.log.Info("Daemon started",
		slog.String("addr", d.server.SiteAddr()),
		slog.Bool("watching", d.watcher != nil),
		slog.Int("schedules", len(d.cfg.Daemon.Schedules)))

	d.buildLoop(ctx)

	d.status.Store(StatusStopping)
	d.shutdown()
	d.status.Store(StatusStopped)
	d.log.Info("Daemon stopped", slog.Duration("uptime", time.Since(d.startTime)))
	return nil
}

// buildLoop processes rebuild requests until the context ends.
func (d *Daemon) buildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-d.rebuildReq:
			d.runBuild(ctx, reason)
		}
	}
}

// requestRebuild queues a rebuild without blocking. When one is already
// pending the request is dropped; the pending rebuild picks up the same
// changes.
func (d *Daemon) requestRebuild(reason string) {
	select {
	case d.rebuildReq <- reason:
	default:
	}
}

// runBuild executes one build attempt unless the content fingerprints are
// unchanged since the previous attempt.
func (d *Daemon) runBuild(ctx context.Context, reason string) {
	snap := d.snapshotContent()
	if snap != nil && d.sameAsLast(snap) {
		d.log.Info("Content unchanged, skipping rebuild", slog.String("reason", reason))
		return
	}

	d.log.Info("Rebuilding site", slog.String("reason", reason))
	report, err := build.NewRunner(d.cfg).SetRecorder(d.recorder).SetLogger(d.log).Run(ctx)
	if err != nil {
		d.log.Error("Site build failed", logfields.Error(err))
	}

	d.mu.Lock()
	if report != nil {
		d.lastReport = report
	}
	d.lastSnapshot = snap
	d.mu.Unlock()

	if d.events != nil && report != nil {
		if perr := d.events.Publish(report, reason); perr != nil {
			d.log.Warn("Build event publish failed", logfields.Error(perr))
		}
	}
}

// snapshotContent fingerprints every discovered content file, assets
// included. Returns nil when the tree cannot be read; the build itself
// then reports the defect.
func (d *Daemon) snapshotContent() map[string]string {
	files, err := docs.NewDiscovery(d.cfg.Content.Dir, d.cfg.Content.Ignore).Discover()
	if err != nil {
		d.log.Warn("Content snapshot failed", logfields.Error(err))
		return nil
	}
	sources := make([]string, 0, len(files))
	for _, f := range files {
		sources = append(sources, f.Source)
	}
	snap, err := fingerprint.Snapshot(sources, docs.NewLoader(d.cfg.Content.Dir).Load)
	if err != nil {
		d.log.Warn("Content snapshot failed", logfields.Error(err))
		return nil
	}
	return snap
}

func (d *Daemon) sameAsLast(snap map[string]string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSnapshot != nil && len(fingerprint.Diff(d.lastSnapshot, snap)) == 0
}

// shutdown stops components in reverse start order with a bounded grace
// period.
func (d *Daemon) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.scheduler != nil {
		if err := d.scheduler.Stop(); err != nil {
			d.log.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	if err := d.server.Stop(shutdownCtx); err != nil {
		d.log.Warn("HTTP shutdown error", logfields.Error(err))
	}
	if d.events != nil {
		d.events.Close()
	}
}
