package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	if cfg.ZResolutionMM != 1.0 {
		t.Errorf("default z resolution = %v mm, want 1.0", cfg.ZResolutionMM)
	}
	if cfg.XYResolutionMM != 0.1 {
		t.Errorf("default xy resolution = %v mm, want 0.1", cfg.XYResolutionMM)
	}
	if cfg.Workers != 1 {
		t.Errorf("default workers = %d, want 1", cfg.Workers)
	}
	if cfg.DebugHistograms {
		t.Errorf("debug histograms enabled by default")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"input_file": "in.json", "output_file": "out.json", "workers": 4, "xy_resolution_mm": 0.02}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if cfg.XYResolutionMM != 0.02 {
		t.Errorf("xy resolution = %v, want 0.02", cfg.XYResolutionMM)
	}
	// Untouched fields keep their defaults.
	if cfg.ZResolutionMM != 1.0 {
		t.Errorf("z resolution = %v, want default 1.0", cfg.ZResolutionMM)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.InputFile = "in.json"
	valid.OutputFile = "out.json"
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no input", func(c *Config) { c.InputFile = "" }},
		{"no output", func(c *Config) { c.OutputFile = "" }},
		{"negative resolution", func(c *Config) { c.XYResolutionMM = -0.1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
