package config

import (
	"os"
	"path/filepath"
	"testing"
)

func init() {
	Testing = true
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration must validate: %v", err)
	}
	if cfg.Naming.Strategy != StrategyRandomChars {
		t.Errorf("unexpected default strategy %q", cfg.Naming.Strategy)
	}
	if len(cfg.SourceExtensions) == 0 {
		t.Error("default source extensions must not be empty")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Naming.Strategy = "leet" }},
		{"min length too small", func(c *Config) { c.Naming.MinNameLength = 1 }},
		{"max below min", func(c *Config) { c.Naming.MaxNameLength = c.Naming.MinNameLength - 1 }},
		{"zero memory capacity", func(c *Config) { c.Cache.MemoryCapacity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Naming.Strategy != def.Naming.Strategy {
		t.Errorf("strategy = %q, want %q", cfg.Naming.Strategy, def.Naming.Strategy)
	}
	if cfg.Cache.MemoryCapacity != def.Cache.MemoryCapacity {
		t.Errorf("memory capacity = %d, want %d", cfg.Cache.MemoryCapacity, def.Cache.MemoryCapacity)
	}
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("an explicitly specified missing config file must be an error")
	}
}

func TestLoadConfigReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "silent: true\nnaming:\n  strategy: hash_based\n  seed: 7\n  min_name_length: 8\n  max_name_length: 20\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Silent {
		t.Error("silent not applied")
	}
	if cfg.Naming.Strategy != StrategyHashBased || cfg.Naming.Seed != 7 {
		t.Errorf("naming section not applied: %+v", cfg.Naming)
	}
	// unset keys keep their defaults
	if cfg.MappingFile != "mapping.json" {
		t.Errorf("default mapping file lost: %q", cfg.MappingFile)
	}
}

func TestLoadConfigInvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("naming:\n  strategy: nope\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid strategy must fail validation on load")
	}
}
