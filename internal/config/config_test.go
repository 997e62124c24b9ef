package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
control_file = "/srv/migration/control.csv"
log_dir = "/srv/migration/logs"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MirrorTool != "robocopy" {
		t.Fatalf("expected default mirror tool, got %q", cfg.MirrorTool)
	}
	if cfg.MirrorRetries != 5 || cfg.MirrorRetryWait != 10 {
		t.Fatalf("expected default retry knobs, got %d/%d", cfg.MirrorRetries, cfg.MirrorRetryWait)
	}
	if len(cfg.Columns) != 8 {
		t.Fatalf("expected default column order, got %v", cfg.Columns)
	}
}

func TestLoadRejectsMissingControlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_dir = "/srv/logs"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "control_file") {
		t.Fatalf("expected control_file validation error, got %v", err)
	}
}

func TestValidateColumns(t *testing.T) {
	cfg := Default()
	cfg.ControlFile = "c"
	cfg.LogDir = "l"

	cfg.Columns = []string{"UserName"}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected incomplete column list to fail")
	}

	cfg.Columns = append([]string{}, Default().Columns...)
	cfg.Columns[0] = "Bogus"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown column to fail")
	}

	cfg.Columns = append([]string{}, Default().Columns...)
	cfg.Columns[1] = cfg.Columns[0]
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate column to fail")
	}

	cfg.Columns = Default().Columns
	if err := Validate(cfg); err != nil {
		t.Fatalf("canonical columns must validate: %v", err)
	}
}

func TestWriteTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite without force")
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("template must load and validate: %v", err)
	}
}
