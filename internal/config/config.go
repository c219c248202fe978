// Package config loads tool configuration from an optional YAML file.
// Every knob has a compiled-in default so the tool runs with no config at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Capture holds the HTTP and pagination settings for the capture step.
type Capture struct {
	BaseURL    string        `yaml:"base_url"`     // public site for event URL joining, e.g. https://luma.com
	APIBaseURL string        `yaml:"api_base_url"` // calendar API, e.g. https://api2.luma.com
	PageSize   int           `yaml:"page_size"`    // pagination_limit per API request
	MaxPages   int           `yaml:"max_pages"`    // hard cap on API pages per run
	Timeout    time.Duration `yaml:"timeout"`      // per-request timeout
	MaxRetries int           `yaml:"max_retries"`  // retry attempts per request
	UserAgent  string        `yaml:"user_agent"`
}

// Config is the root of the YAML config file.
type Config struct {
	Capture Capture `yaml:"capture"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		Capture: Capture{
			BaseURL:    "https://luma.com",
			APIBaseURL: "https://api2.luma.com",
			PageSize:   20,
			MaxPages:   50,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			UserAgent:  "luma-events-cli/1.0 (github.com/pfrederiksen/luma-events)",
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults, so a file
// only needs to mention the settings it changes.
func Load(path string) (Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parsing config: %w", err)
	}

	if c.Capture.PageSize <= 0 {
		return c, fmt.Errorf("capture.page_size must be positive, got %d", c.Capture.PageSize)
	}
	if c.Capture.MaxPages <= 0 {
		return c, fmt.Errorf("capture.max_pages must be positive, got %d", c.Capture.MaxPages)
	}

	return c, nil
}
