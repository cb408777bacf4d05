package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/metrics"
)

// Server serves the rendered site plus the health endpoint, and exposes
// Prometheus metrics on a separate listener when enabled.
type Server struct {
	cfg    *config.Config
	daemon *Daemon

	site    *http.Server
	metrics *http.Server

	siteAddr    string
	metricsAddr string
}

// NewServer creates the daemon HTTP server set.
func NewServer(cfg *config.Config, d *Daemon) *Server {
	return &Server{cfg: cfg, daemon: d}
}

// Start binds and launches the servers. All ports are pre-bound so a
// conflict surfaces as one aggregate error instead of a partial start.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		addr string
		ln   net.Listener
	}
	binds := []preBind{{name: "site", addr: s.cfg.Daemon.HTTP.Addr}}
	if s.cfg.Metrics.Enabled {
		binds = append(binds, preBind{name: "metrics", addr: s.cfg.Metrics.Addr})
	}

	var bindErrs []error
	for i := range binds {
		ln, err := net.Listen("tcp", binds[i].addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s addr %s: %w", binds[i].name, binds[i].addr, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.site = &http.Server{
		Handler:      s.siteMux(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.siteAddr = binds[0].ln.Addr().String()
	go serve("site", s.site, binds[0].ln)

	if s.cfg.Metrics.Enabled {
		s.metrics = &http.Server{
			Handler:      s.metricsMux(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		s.metricsAddr = binds[1].ln.Addr().String()
		go serve("metrics", s.metrics, binds[1].ln)
	}

	slog.Info("Preview server listening",
		slog.String("addr", s.siteAddr),
		slog.Bool("metrics", s.cfg.Metrics.Enabled))
	return nil
}

// Stop gracefully shuts down all servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if s.site != nil {
		if err := s.site.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("site server shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SiteAddr returns the bound site listener address, set by Start.
func (s *Server) SiteAddr() string { return s.siteAddr }

// MetricsAddr returns the bound metrics listener address, empty when
// metrics are disabled.
func (s *Server) MetricsAddr() string { return s.metricsAddr }

func serve(name string, srv *http.Server, ln net.Listener) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("HTTP server error", slog.String("server", name), logfields.Error(err))
	}
}

func (s *Server) siteMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.daemon.HealthHandler)
	// The output root resolves per request so a freshly promoted output
	// tree is served without a restart.
	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.FileServer(http.Dir(s.resolveSiteRoot())).ServeHTTP(w, r)
	})
	prefix := s.cfg.Render.URLPrefix
	if prefix == "" || prefix == "/" {
		mux.Handle("/", files)
		return mux
	}
	// Pages reference each other under the URL prefix, so the tree is
	// mounted there and the bare root redirects into it.
	mux.Handle(prefix, http.StripPrefix(strings.TrimSuffix(prefix, "/"), files))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, prefix, http.StatusFound)
			return
		}
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(s.daemon.registry))
	return mux
}

func (s *Server) resolveSiteRoot() string {
	out := s.cfg.Output.Directory
	if !filepath.IsAbs(out) {
		if abs, err := filepath.Abs(out); err == nil {
			out = abs
		}
	}
	return out
}
