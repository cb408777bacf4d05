package config

import "time"

// DaemonConfig represents daemon-specific configuration.
type DaemonConfig struct {
	Watch     WatchConfig      `yaml:"watch,omitempty"`
	Schedules []ScheduleConfig `yaml:"schedules,omitempty"`
	HTTP      HTTPConfig       `yaml:"http,omitempty"`
	Events    EventsConfig     `yaml:"events,omitempty"`
}

// WatchConfig controls filesystem watching of the content tree.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce,omitempty"` // Go duration, e.g. "2s"
}

// DebounceDuration returns the parsed debounce interval, falling back
// to the default when the field is unset or unparseable.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultWatchDebounce
	}
	return d
}

// ScheduleConfig describes a named periodic rebuild.
type ScheduleConfig struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval"` // Go duration, e.g. "30m"
}

// IntervalDuration returns the parsed rebuild interval.
func (s ScheduleConfig) IntervalDuration() (time.Duration, error) {
	return time.ParseDuration(s.Interval)
}

// HTTPConfig represents the daemon preview server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr,omitempty"` // listen address, e.g. ":8080"
}

// EventsConfig configures build event publishing over NATS.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`     // NATS server URL
	Subject string `yaml:"subject,omitempty"` // publish subject for build events
}
