package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds every tunable linecache-server accepts, whether it
// came from a config file or the command line. Flags always win over
// file values, mirroring the precedence calvinalkan-agent-task's
// config loader uses for its own CLI-over-file overrides.
type Config struct {
	Port           int    `json:"port,omitempty"`
	Workers        int    `json:"workers,omitempty"`
	Capacity       int    `json:"capacity,omitempty"`
	ReportInterval int    `json:"report_interval_seconds,omitempty"`
	MetricsAddr    string `json:"metrics_addr,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Port:     11211,
		Workers:  12,
		Capacity: 5000,
	}
}

// loadConfigFile reads a JSONC (JSON-with-comments) file via hujson
// and merges its values over cfg, leaving any field the file omits
// unchanged.
func loadConfigFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var fileCfg Config
	if err := json.Unmarshal(standardized, &fileCfg); err != nil {
		return cfg, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	if fileCfg.Port != 0 {
		cfg.Port = fileCfg.Port
	}
	if fileCfg.Workers != 0 {
		cfg.Workers = fileCfg.Workers
	}
	if fileCfg.Capacity != 0 {
		cfg.Capacity = fileCfg.Capacity
	}
	if fileCfg.ReportInterval != 0 {
		cfg.ReportInterval = fileCfg.ReportInterval
	}
	if fileCfg.MetricsAddr != "" {
		cfg.MetricsAddr = fileCfg.MetricsAddr
	}
	return cfg, nil
}
