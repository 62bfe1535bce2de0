// Package config handles loading and saving taskpeek configuration.
//
// The config file lives at ~/.config/taskpeek/config.yaml, or under
// $XDG_CONFIG_HOME when set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// EnvURL overrides server.url when set.
const EnvURL = "TASKPEEK_URL"

// ServerConfig points at the task server.
type ServerConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ListConfig tunes list loading.
type ListConfig struct {
	PageSize          int `yaml:"page_size,omitempty"`
	DepsLimit         int `yaml:"deps_limit,omitempty"`          // edges requested per list load
	LookupConcurrency int `yaml:"lookup_concurrency,omitempty"` // parallel status lookups
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	StartRoute string `yaml:"start_route,omitempty"` // address opened when none is given
}

// Config is the top-level configuration for taskpeek.
type Config struct {
	Server ServerConfig `yaml:"server,omitempty"`
	List   ListConfig   `yaml:"list,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:     "http://localhost:3000",
			Timeout: api.DefaultTimeout,
		},
		List: ListConfig{
			PageSize:          route.DefaultPageSize,
			DepsLimit:         api.MaxDepsLimit,
			LookupConcurrency: 8,
		},
		UI: UIConfig{
			StartRoute: "#/list",
		},
	}
}

// ConfigDir returns the XDG config directory for taskpeek.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "taskpeek")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskpeek")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig().withEnv(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path, then applies the environment.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.withEnv(), nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg.normalize().withEnv(), nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Zero or out-of-range values fall back to defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	c.Server.URL = strings.TrimSpace(c.Server.URL)
	if c.Server.URL == "" {
		c.Server.URL = def.Server.URL
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = def.Server.Timeout
	}
	if c.List.PageSize < 1 || c.List.PageSize > api.MaxTaskLimit {
		c.List.PageSize = def.List.PageSize
	}
	if c.List.DepsLimit < 1 || c.List.DepsLimit > api.MaxDepsLimit {
		c.List.DepsLimit = def.List.DepsLimit
	}
	if c.List.LookupConcurrency < 1 {
		c.List.LookupConcurrency = def.List.LookupConcurrency
	}
	if c.UI.StartRoute == "" {
		c.UI.StartRoute = def.UI.StartRoute
	}
	return c
}

func (c Config) withEnv() Config {
	if u := strings.TrimSpace(os.Getenv(EnvURL)); u != "" {
		c.Server.URL = u
	}
	return c
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
