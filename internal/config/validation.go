package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks the complete configuration structure.
func Validate(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs configuration validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	if err := cv.validateContent(); err != nil {
		return err
	}
	if err := cv.validateRender(); err != nil {
		return err
	}
	if err := cv.validateImages(); err != nil {
		return err
	}
	if err := cv.validateOutput(); err != nil {
		return err
	}
	if err := cv.validateDeploy(); err != nil {
		return err
	}
	if err := cv.validateDaemon(); err != nil {
		return err
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	if cv.config.Content.Dir == "" {
		return errors.New("content dir cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateRender() error {
	r := &cv.config.Render

	norm, err := anchorCaseNormalizer.Strict(r.AnchorCase)
	if err != nil {
		return fmt.Errorf("render.anchor_case: %w", err)
	}
	r.AnchorCase = string(norm)

	if !strings.HasPrefix(r.URLPrefix, "/") {
		return fmt.Errorf("render.url_prefix must start with /: %q", r.URLPrefix)
	}
	// Consumers join the prefix by bare concatenation, so it always ends
	// in a slash.
	if !strings.HasSuffix(r.URLPrefix, "/") {
		r.URLPrefix += "/"
	}
	return nil
}

func (cv *configurationValidator) validateImages() error {
	im := cv.config.Images

	// Published names must be recognizable as content-addressed on a
	// later pass, which requires at least 12 hex digits.
	if im.HashLength < 12 || im.HashLength > 64 {
		return fmt.Errorf("images.hash_length must be between 12 and 64, got %d", im.HashLength)
	}
	if !strings.HasPrefix(im.StaticDir, "/") {
		return fmt.Errorf("images.static_dir must start with /: %q", im.StaticDir)
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if cv.config.Output.Directory == "" {
		return errors.New("output directory cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateDeploy() error {
	d := cv.config.Deploy
	if d == nil {
		return nil
	}

	method, err := deployMethodNormalizer.Strict(d.Method)
	if err != nil {
		return fmt.Errorf("deploy.method: %w", err)
	}
	// Apply the normalized value
	d.Method = string(method)

	switch method {
	case DeployMethodDir:
		if d.Target == "" {
			return errors.New("deploy.target is required for dir deploys")
		}
	case DeployMethodGit:
		if d.Remote == "" {
			return errors.New("deploy.remote is required for git deploys")
		}
	}

	if d.Auth != nil {
		authType, err := authTypeNormalizer.Strict(d.Auth.Type)
		if err != nil {
			return fmt.Errorf("deploy.auth.type: %w", err)
		}
		d.Auth.Type = string(authType)

		switch authType {
		case AuthTypeToken:
			if d.Auth.Token == "" {
				return errors.New("deploy.auth.token is required for token auth")
			}
		case AuthTypeBasic:
			if d.Auth.Username == "" || d.Auth.Password == "" {
				return errors.New("deploy.auth requires username and password for basic auth")
			}
		case AuthTypeSSH:
			if d.Auth.KeyPath == "" {
				return errors.New("deploy.auth.key_path is required for ssh auth")
			}
		}
	}

	return nil
}

func (cv *configurationValidator) validateDaemon() error {
	dc := cv.config.Daemon
	if dc == nil {
		return nil
	}

	if dc.Watch.Enabled {
		d, err := time.ParseDuration(dc.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("daemon.watch.debounce: %w", err)
		}
		if d < 100*time.Millisecond {
			return fmt.Errorf("daemon.watch.debounce must be at least 100ms, got %s", d)
		}
	}

	// Track schedule names for duplicates
	names := make(map[string]bool)
	for _, s := range dc.Schedules {
		if s.Name == "" {
			return errors.New("schedule name cannot be empty")
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate schedule name: %s", s.Name)
		}
		names[s.Name] = true

		interval, err := s.IntervalDuration()
		if err != nil {
			return fmt.Errorf("schedule %s: invalid interval: %w", s.Name, err)
		}
		if interval < time.Minute {
			return fmt.Errorf("schedule %s: interval must be at least 1m, got %s", s.Name, interval)
		}
	}

	if dc.Events.Enabled && dc.Events.URL == "" {
		return errors.New("daemon.events.url is required when events are enabled")
	}

	return nil
}
