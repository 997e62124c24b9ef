package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/homectl/internal/config"
	"github.com/danmuck/homectl/internal/engine"
)

// homectl config.toml key mapping to run settings.
type fileConfig struct {
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

// homectl loader for TOML config with default overlay.
func loadServiceConfig(path string) (engine.ServiceConfig, error) {
	cfg := engine.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return engine.ServiceConfig{}, fmt.Errorf("load run config: %w", err)
	}

	if meta.IsDefined("control_file") {
		cfg.ControlFile = strings.TrimSpace(raw.ControlFile)
	}
	if meta.IsDefined("log_dir") {
		cfg.LogDir = strings.TrimSpace(raw.LogDir)
	}
	if meta.IsDefined("columns") {
		cfg.Columns = raw.Columns
	}
	if meta.IsDefined("adhoc") {
		cfg.AdHoc = raw.AdHoc
	}
	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("mirror_tool") {
		cfg.MirrorTool = strings.TrimSpace(raw.MirrorTool)
	}
	if meta.IsDefined("mirror_retries") {
		cfg.MirrorRetries = raw.MirrorRetries
	}
	if meta.IsDefined("mirror_retry_wait") {
		cfg.MirrorRetryWait = raw.MirrorRetryWait
	}
	if meta.IsDefined("admin_principal") {
		cfg.AdminPrincipal = strings.TrimSpace(raw.AdminPrincipal)
	}

	return cfg, nil
}

// validateServiceConfig runs after CLI flags are overlaid, so a flag can
// supply what the file leaves out.
func validateServiceConfig(cfg engine.ServiceConfig) error {
	return config.Validate(config.RunConfig{
		ControlFile:     cfg.ControlFile,
		LogDir:          cfg.LogDir,
		Columns:         cfg.Columns,
		AdHoc:           cfg.AdHoc,
		StatusAddr:      cfg.StatusAddr,
		CorsOrigins:     cfg.CorsOrigins,
		MirrorTool:      cfg.MirrorTool,
		MirrorRetries:   cfg.MirrorRetries,
		MirrorRetryWait: cfg.MirrorRetryWait,
		AdminPrincipal:  cfg.AdminPrincipal,
	})
}
