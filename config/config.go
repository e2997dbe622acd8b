// Package config handles jobfill configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level jobfill configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Listen  string        `yaml:"listen"`
	DBPath  string        `yaml:"db_path"`
	// DebounceMS is the trailing-edge rescan delay in milliseconds
	// after a DOM mutation burst on an observed page.
	DebounceMS int          `yaml:"debounce_ms"`
	Pages      []PageConfig `yaml:"pages"`
	MCP        MCPConfig    `yaml:"mcp"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is a DevTools websocket URL to attach to; empty launches
	// a managed Chrome.
	Remote   string `yaml:"remote"`
	Headless bool   `yaml:"headless"`
	// Stealth is "on" or "off"; stealth pages evade bot detection on
	// the job boards.
	Stealth string `yaml:"stealth"`
}

// PageConfig is a page jobfill opens and inspects at startup.
type PageConfig struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

// MCPConfig controls the MCP tool surface.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Debounce returns the rescan delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8743"
	}
	if c.DBPath == "" {
		c.DBPath = "jobfill.db"
	}
	if c.DebounceMS <= 0 {
		c.DebounceMS = 500
	}
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "on"
	}
	for i := range c.Pages {
		if c.Pages[i].ID == "" {
			c.Pages[i].ID = fmt.Sprintf("page-%d", i+1)
		}
	}
}
