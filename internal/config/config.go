// Package config loads and validates the site configuration file.
//
// Configuration is YAML with environment variable expansion: ${VAR}
// references are substituted from the process environment before
// parsing, and a .env/.env.local file is loaded first when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root site configuration.
type Config struct {
	Site    SiteConfig        `yaml:"site"`
	Content ContentConfig     `yaml:"content"`
	Render  RenderConfig      `yaml:"render,omitempty"`
	Images  ImagesConfig      `yaml:"images,omitempty"`
	Assets  map[string]string `yaml:"assets,omitempty"` // manual source→URL mapping entries
	Output  OutputConfig      `yaml:"output"`
	Deploy  *DeployConfig     `yaml:"deploy,omitempty"`
	Daemon  *DaemonConfig     `yaml:"daemon,omitempty"`
	Metrics MetricsConfig     `yaml:"metrics,omitempty"`
	Logging LoggingConfig     `yaml:"logging,omitempty"`
}

// SiteConfig describes the site being generated.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Language    string `yaml:"language,omitempty"` // html lang attribute, e.g. "en"
}

// ContentConfig locates the markdown source tree and page templates.
type ContentConfig struct {
	Dir       string   `yaml:"dir"`
	Templates string   `yaml:"templates,omitempty"` // empty selects the built-in page shell
	Ignore    []string `yaml:"ignore,omitempty"`    // glob patterns relative to dir
}

// RenderConfig tunes anchor generation and HTML serialization.
type RenderConfig struct {
	AnchorCase string `yaml:"anchor_case,omitempty"` // lower|upper|keep
	URLPrefix  string `yaml:"url_prefix,omitempty"`
	Typography bool   `yaml:"typography,omitempty"`
}

// ImagesConfig controls content-addressed image publishing.
type ImagesConfig struct {
	StaticDir  string `yaml:"static_dir,omitempty"`  // published URL prefix
	HashLength int    `yaml:"hash_length,omitempty"` // hex digest prefix in published names
	CacheDB    string `yaml:"cache_db,omitempty"`    // sqlite path, empty disables the cache
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// DeployConfig describes where the rendered site is published.
type DeployConfig struct {
	Method  string      `yaml:"method"` // dir|git
	Target  string      `yaml:"target,omitempty"`
	Remote  string      `yaml:"remote,omitempty"`
	Branch  string      `yaml:"branch,omitempty"`
	Message string      `yaml:"message,omitempty"`
	Auth    *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents authentication configuration for git deploys.
type AuthConfig struct {
	Type     string `yaml:"type"` // "ssh", "token", "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// MetricsConfig enables the Prometheus exposition endpoint in daemon mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // text|json
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFiles loads environment variables from the first .env file found.
// Existing process environment variables are not overwritten.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", name)
			return
		}
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Documentation Site",
			Description: "Rendered from a tree of markdown sources",
			BaseURL:     "https://docs.example.com",
			Language:    "en",
		},
		Content: ContentConfig{
			Dir: "content",
		},
		Render: RenderConfig{
			AnchorCase: string(AnchorCaseLower),
			URLPrefix:  "/",
			Typography: true,
		},
		Images: ImagesConfig{
			StaticDir:  "/static",
			HashLength: 12,
			CacheDB:    ".sitegen/images.db",
		},
		Output: OutputConfig{
			Directory: "./public",
			Clean:     true,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
