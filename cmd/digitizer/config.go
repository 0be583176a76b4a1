package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the digitizer job configuration. Defaults are applied first,
// then the JSON file (if given), then command-line flags on top.
type Config struct {
	InputFile  string `json:"input_file"`
	OutputFile string `json:"output_file"`

	ChamberDescriptor string `json:"chamber_descriptor"`
	ClusterTable      string `json:"cluster_table"`

	ZResolutionMM  float64 `json:"z_resolution_mm"`
	XYResolutionMM float64 `json:"xy_resolution_mm"`

	Workers int `json:"workers"`

	DebugHistograms   bool   `json:"debug_histograms"`
	DebugHistogramOut string `json:"debug_histogram_out"`

	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9102".
	MetricsAddr string `json:"metrics_addr"`
}

// DefaultConfig returns the nominal chamber settings: 1 mm along the wire,
// 0.1 mm across, single worker.
func DefaultConfig() Config {
	return Config{
		ChamberDescriptor: "configs/chamber.json",
		ClusterTable:      "configs/clusters.json",
		ZResolutionMM:     1.0,
		XYResolutionMM:    0.1,
		Workers:           1,
		DebugHistogramOut: "dch_digi_debug.json",
	}
}

// LoadConfig reads filename over the defaults. An empty filename keeps the
// defaults untouched.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", filename, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", filename, err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot start a run.
func (c Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("no input file configured")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("no output file configured")
	}
	if c.ZResolutionMM < 0 || c.XYResolutionMM < 0 {
		return fmt.Errorf("negative resolution configured (z=%v mm, xy=%v mm)", c.ZResolutionMM, c.XYResolutionMM)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
