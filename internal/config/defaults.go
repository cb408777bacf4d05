package config

import "time"

const (
	defaultTitle         = "Documentation Site"
	defaultContentDir    = "content"
	defaultOutputDir     = "./public"
	defaultURLPrefix     = "/"
	defaultStaticDir     = "/static"
	defaultHashLength    = 12
	defaultWatchDebounce = 2 * time.Second
	defaultHTTPAddr      = ":8080"
	defaultMetricsAddr   = ":9090"
	defaultEventSubject  = "sitegen.builds"
	defaultDeployBranch  = "main"
)

// applyDefaults fills unset fields after unmarshalling and before validation.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultTitle
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = defaultContentDir
	}
	if cfg.Render.AnchorCase == "" {
		cfg.Render.AnchorCase = string(AnchorCaseLower)
	}
	if cfg.Render.URLPrefix == "" {
		cfg.Render.URLPrefix = defaultURLPrefix
	}
	if cfg.Images.StaticDir == "" {
		cfg.Images.StaticDir = defaultStaticDir
	}
	if cfg.Images.HashLength == 0 {
		cfg.Images.HashLength = defaultHashLength
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaultOutputDir
	}
	if cfg.Deploy != nil {
		if cfg.Deploy.Branch == "" {
			cfg.Deploy.Branch = defaultDeployBranch
		}
		if cfg.Deploy.Message == "" {
			cfg.Deploy.Message = "Publish site"
		}
	}
	if cfg.Daemon != nil {
		if cfg.Daemon.Watch.Debounce == "" {
			cfg.Daemon.Watch.Debounce = defaultWatchDebounce.String()
		}
		if cfg.Daemon.HTTP.Addr == "" {
			cfg.Daemon.HTTP.Addr = defaultHTTPAddr
		}
		if cfg.Daemon.Events.Subject == "" {
			cfg.Daemon.Events.Subject = defaultEventSubject
		}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = defaultMetricsAddr
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
}
