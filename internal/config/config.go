// Package config owns the homectl run configuration: TOML loading, defaults,
// validation, and the generated template.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/homectl/internal/control"
)

// RunConfig is the on-disk TOML configuration for a migration run.
type RunConfig struct {
	ControlFile     string   `toml:"control_file"`
	LogDir          string   `toml:"log_dir"`
	Columns         []string `toml:"columns"`
	AdHoc           bool     `toml:"adhoc"`
	StatusAddr      string   `toml:"status_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	MirrorTool      string   `toml:"mirror_tool"`
	MirrorRetries   int      `toml:"mirror_retries"`
	MirrorRetryWait int      `toml:"mirror_retry_wait"`
	AdminPrincipal  string   `toml:"admin_principal"`
}

func Default() RunConfig {
	return RunConfig{
		Columns:         control.Columns,
		MirrorTool:      "robocopy",
		MirrorRetries:   5,
		MirrorRetryWait: 10,
	}
}

// Load reads a TOML run config, overlays it on the defaults, and validates.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("load run config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return RunConfig{}, fmt.Errorf("run config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs that would fail after the control table is
// already loaded or mid-record.
func Validate(cfg RunConfig) error {
	if strings.TrimSpace(cfg.ControlFile) == "" {
		return fmt.Errorf("control_file is required")
	}
	if strings.TrimSpace(cfg.LogDir) == "" {
		return fmt.Errorf("log_dir is required")
	}
	if cfg.MirrorRetries < 0 {
		return fmt.Errorf("mirror_retries must not be negative")
	}
	if cfg.MirrorRetryWait < 0 {
		return fmt.Errorf("mirror_retry_wait must not be negative")
	}
	if len(cfg.Columns) > 0 {
		known := make(map[string]bool, len(control.Columns))
		for _, name := range control.Columns {
			known[name] = true
		}
		seen := make(map[string]bool, len(cfg.Columns))
		for _, name := range cfg.Columns {
			if !known[name] {
				return fmt.Errorf("unknown column %q", name)
			}
			if seen[name] {
				return fmt.Errorf("duplicate column %q", name)
			}
			seen[name] = true
		}
		if len(cfg.Columns) != len(control.Columns) {
			return fmt.Errorf("columns must list all %d control fields", len(control.Columns))
		}
	}
	return nil
}
