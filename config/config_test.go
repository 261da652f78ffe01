package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Export.Format != "turtle" {
		t.Errorf("expected default format turtle, got %s", cfg.Export.Format)
	}
	if cfg.Export.Profile != "minimal" {
		t.Errorf("expected default profile minimal, got %s", cfg.Export.Profile)
	}
	if cfg.NATS.Subject != "laderr.graph.entity" {
		t.Errorf("expected default subject laderr.graph.entity, got %s", cfg.NATS.Subject)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected default debounce 250ms, got %s", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative max passes",
			modify:  func(c *Config) { c.Engine.MaxPasses = -1 },
			wantErr: true,
		},
		{
			name:    "unknown export format",
			modify:  func(c *Config) { c.Export.Format = "rdfxml" },
			wantErr: true,
		},
		{
			name:    "unknown export profile",
			modify:  func(c *Config) { c.Export.Profile = "verbose" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Engine: EngineConfig{MaxPasses: 16},
		Export: ExportConfig{Format: "jsonld"},
		NATS:   NATSConfig{URL: "nats://broker:4222"},
	})

	if base.Engine.MaxPasses != 16 {
		t.Errorf("expected merged max passes 16, got %d", base.Engine.MaxPasses)
	}
	if base.Export.Format != "jsonld" {
		t.Errorf("expected merged format jsonld, got %s", base.Export.Format)
	}
	if base.NATS.URL != "nats://broker:4222" {
		t.Errorf("expected merged NATS URL, got %s", base.NATS.URL)
	}
	// Untouched values keep their defaults.
	if base.Export.Profile != "minimal" {
		t.Errorf("expected profile to stay minimal, got %s", base.Export.Profile)
	}
	if base.NATS.Subject != "laderr.graph.entity" {
		t.Errorf("expected subject to stay at default, got %s", base.NATS.Subject)
	}

	base.Merge(nil) // must not panic
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
engine:
  max_passes: 32
  fail_on_warnings: true
export:
  format: ntriples
nats:
  url: "nats://test:4222"
watch:
  debounce: 1s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Engine.MaxPasses != 32 {
		t.Errorf("expected max passes 32, got %d", cfg.Engine.MaxPasses)
	}
	if !cfg.Engine.FailOnWarnings {
		t.Error("expected fail_on_warnings true")
	}
	if cfg.Export.Format != "ntriples" {
		t.Errorf("expected format ntriples, got %s", cfg.Export.Format)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %s", cfg.Watch.Debounce)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.MaxPasses = 8
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Engine.MaxPasses != 8 {
		t.Errorf("expected reloaded max passes 8, got %d", loaded.Engine.MaxPasses)
	}
}
