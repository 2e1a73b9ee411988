// Package config handles configuration loading and validation for portal.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/portal/internal/core/route"
	"github.com/colonyops/portal/internal/core/styles"
)

// LoginPath must be matched by one of the configured routes.
const LoginPath = "/login"

// Config holds the application configuration.
type Config struct {
	Gateway   GatewayConfig `yaml:"gateway"`
	Routes    []RouteConfig `yaml:"routes"`
	Otherwise string        `yaml:"otherwise"`
	TUI       TUIConfig     `yaml:"tui"`
	DataDir   string        `yaml:"-"` // set by caller, not from config file
}

// GatewayConfig holds the connection settings for the remote gateway.
type GatewayConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RouteConfig declares one navigable view.
type RouteConfig struct {
	Path      string `yaml:"path"`       // doublestar pattern
	Title     string `yaml:"title"`      // optional
	BodyClass string `yaml:"body_class"` // optional
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme         string        `yaml:"theme"`
	CountdownTick time.Duration `yaml:"countdown_tick"`
	Markdown      *bool         `yaml:"markdown"` // nil = enabled
}

// MarkdownEnabled reports whether notification text is rendered as markdown.
func (t TUIConfig) MarkdownEnabled() bool {
	return t.Markdown == nil || *t.Markdown
}

// DefaultRoutes returns the built-in route table.
func DefaultRoutes() []RouteConfig {
	return []RouteConfig{
		{Path: "/login", Title: "Login", BodyClass: "login"},
		{Path: "/", Title: "Home", BodyClass: "home"},
		{Path: "/connections/**", Title: "Connections", BodyClass: "connections"},
		{Path: "/settings/**", BodyClass: "settings"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			URL:     "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Routes:    DefaultRoutes(),
		Otherwise: "/",
		TUI: TUIConfig{
			Theme:         styles.DefaultTheme,
			CountdownTick: time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Gateway.URL == "" {
		c.Gateway.URL = defaults.Gateway.URL
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = defaults.Gateway.Timeout
	}
	if len(c.Routes) == 0 {
		c.Routes = defaults.Routes
	}
	if c.Otherwise == "" {
		c.Otherwise = defaults.Otherwise
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.CountdownTick == 0 {
		c.TUI.CountdownTick = defaults.TUI.CountdownTick
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}

	if c.Gateway.URL == "" {
		return errors.New("gateway.url cannot be empty")
	}

	if c.Gateway.Timeout < 0 {
		return errors.New("gateway.timeout cannot be negative")
	}

	if c.TUI.CountdownTick < 0 {
		return errors.New("tui.countdown_tick cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not one of %v", c.TUI.Theme, styles.ThemeNames())
	}

	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.Path == "" {
			return fmt.Errorf("routes[%d]: path is required", i)
		}
		if seen[r.Path] {
			return fmt.Errorf("routes[%d]: duplicate path %q", i, r.Path)
		}
		seen[r.Path] = true
	}

	if !slices.ContainsFunc(c.Routes, func(r RouteConfig) bool {
		ok, _ := doublestar.Match(r.Path, LoginPath)
		return ok
	}) {
		return fmt.Errorf("routes: no route matches %s", LoginPath)
	}

	return nil
}

// RouteTable converts the configured routes for the router.
func (c *Config) RouteTable() []route.Route {
	out := make([]route.Route, len(c.Routes))
	for i, r := range c.Routes {
		out[i] = route.Route{
			Pattern:       route.Normalize(r.Path),
			Title:         r.Title,
			BodyClassName: r.BodyClass,
		}
	}
	return out
}

// SessionFile returns the path of the stored login session.
func (c *Config) SessionFile() string {
	return filepath.Join(c.DataDir, "session.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "portal.log")
}
