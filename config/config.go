// Package config provides configuration loading and management for the
// laderr tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/laderr/export"
)

// Config represents the complete laderr configuration
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Export ExportConfig `yaml:"export"`
	NATS   NATSConfig   `yaml:"nats"`
	Watch  WatchConfig  `yaml:"watch"`
}

// EngineConfig configures the derivation engine
type EngineConfig struct {
	// MaxPasses overrides the iteration ceiling (0 = automatic:
	// rules x constructs)
	MaxPasses int `yaml:"max_passes"`
	// FailOnWarnings treats any diagnostic as a command failure
	FailOnWarnings bool `yaml:"fail_on_warnings"`
}

// ExportConfig configures RDF export defaults
type ExportConfig struct {
	// Format is the default serialization format (turtle, ntriples, jsonld)
	Format string `yaml:"format"`
	// Profile is the default type-assertion profile (minimal, roles)
	Profile string `yaml:"profile"`
}

// NATSConfig configures enriched-graph publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the subject constructs are published to
	Subject string `yaml:"subject"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait for further changes before re-deriving
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxPasses:      0, // Automatic ceiling
			FailOnWarnings: false,
		},
		Export: ExportConfig{
			Format:  string(export.FormatTurtle),
			Profile: string(export.ProfileMinimal),
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "laderr.graph.entity",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.MaxPasses < 0 {
		return fmt.Errorf("engine.max_passes must not be negative")
	}
	if _, ok := export.GetFormatInfo(export.Format(c.Export.Format)); !ok {
		return fmt.Errorf("export.format %q is not supported", c.Export.Format)
	}
	if _, ok := export.Profiles[export.Profile(c.Export.Profile)]; !ok {
		return fmt.Errorf("export.profile %q is not supported", c.Export.Profile)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// Merge overlays non-zero values from other onto this config
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Engine.MaxPasses != 0 {
		c.Engine.MaxPasses = other.Engine.MaxPasses
	}
	if other.Engine.FailOnWarnings {
		c.Engine.FailOnWarnings = true
	}
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
