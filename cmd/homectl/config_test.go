package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/homectl/internal/engine"
)

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
control_file = "D:/migration/control.csv"
log_dir = "D:/migration/logs"
adhoc = true
status_addr = "127.0.0.1:9180"
mirror_retries = 3
admin_principal = "NT AUTHORITY\\SYSTEM"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ControlFile != "D:/migration/control.csv" {
		t.Fatalf("unexpected control file: %q", cfg.ControlFile)
	}
	if !cfg.AdHoc {
		t.Fatalf("expected ad-hoc mode enabled")
	}
	if cfg.StatusAddr != "127.0.0.1:9180" {
		t.Fatalf("unexpected status addr: %q", cfg.StatusAddr)
	}
	if cfg.MirrorRetries != 3 {
		t.Fatalf("expected retries override, got %d", cfg.MirrorRetries)
	}
	if cfg.MirrorRetryWait != 10 {
		t.Fatalf("expected default retry wait, got %d", cfg.MirrorRetryWait)
	}
	if cfg.MirrorTool != "robocopy" {
		t.Fatalf("expected default mirror tool, got %q", cfg.MirrorTool)
	}
	if cfg.AdminPrincipal != `NT AUTHORITY\SYSTEM` {
		t.Fatalf("unexpected admin principal: %q", cfg.AdminPrincipal)
	}
	if len(cfg.Columns) != 8 {
		t.Fatalf("expected default columns, got %v", cfg.Columns)
	}
}

func TestValidateServiceConfigRequiresPaths(t *testing.T) {
	cfg := engine.DefaultServiceConfig()
	if err := validateServiceConfig(cfg); err == nil {
		t.Fatalf("expected validation failure without paths")
	}
	cfg.ControlFile = "control.csv"
	cfg.LogDir = "logs"
	if err := validateServiceConfig(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
