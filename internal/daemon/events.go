package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/voyahchat/sitegen/internal/build"
	"github.com/voyahchat/sitegen/internal/config"
)

// BuildEvent is the JSON payload published after every build attempt.
type BuildEvent struct {
	BuildID           string    `json:"build_id"`
	Outcome           string    `json:"outcome"`
	Reason            string    `json:"reason"`
	Pages             int       `json:"pages"`
	RenderedPages     int       `json:"rendered_pages"`
	LinksResolved     int       `json:"links_resolved"`
	AnchorsUnresolved int       `json:"anchors_unresolved"`
	ImagesUnmapped    int       `json:"images_unmapped"`
	BrokenLinks       int       `json:"broken_links"`
	DurationMS        int64     `json:"duration_ms"`
	Timestamp         time.Time `json:"timestamp"`
}

func newBuildEvent(report *build.BuildReport, reason string) BuildEvent {
	return BuildEvent{
		BuildID:           report.BuildID,
		Outcome:           string(report.Outcome),
		Reason:            reason,
		Pages:             report.Pages,
		RenderedPages:     report.RenderedPages,
		LinksResolved:     report.LinksResolved,
		AnchorsUnresolved: report.AnchorsUnresolved,
		ImagesUnmapped:    report.ImagesUnmapped,
		BrokenLinks:       report.BrokenLinks,
		DurationMS:        report.End.Sub(report.Start).Milliseconds(),
		Timestamp:         time.Now(),
	}
}

// EventPublisher pushes build summaries onto a NATS subject.
type EventPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewEventPublisher connects to the configured NATS server.
func NewEventPublisher(cfg config.EventsConfig) (*EventPublisher, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Name("sitegen"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("Build event publishing enabled",
		slog.String("url", url),
		slog.String("subject", cfg.Subject))
	return &EventPublisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends one build summary. The connection is flushed so a crash
// right after a build does not lose the event.
func (p *EventPublisher) Publish(report *build.BuildReport, reason string) error {
	data, err := json.Marshal(newBuildEvent(report, reason))
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	if err := p.conn.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("flush build event: %w", err)
	}

	slog.Debug("Published build event",
		slog.String("build_id", report.BuildID),
		slog.String("outcome", string(report.Outcome)))
	return nil
}

// Close closes the NATS connection.
func (p *EventPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
