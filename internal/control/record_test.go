package control

import "testing"

func TestParseBoolAcceptsAnyCasing(t *testing.T) {
	for _, raw := range []string{"True", "true", "TRUE", " true "} {
		v, err := parseBool(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !v {
			t.Fatalf("expected %q to parse true", raw)
		}
	}
	for _, raw := range []string{"False", "false", "FALSE"} {
		v, err := parseBool(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if v {
			t.Fatalf("expected %q to parse false", raw)
		}
	}
	if _, err := parseBool("yes"); err == nil {
		t.Fatalf("expected error for non-boolean text")
	}
}

func TestRecordKeepsOriginalBooleanText(t *testing.T) {
	rec := &Record{}
	if err := rec.set("MigrationActive", "TRUE"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !rec.MigrationActive {
		t.Fatalf("expected record active")
	}
	got, err := rec.text("MigrationActive")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "TRUE" {
		t.Fatalf("expected original casing preserved, got %q", got)
	}
}

func TestDeactivateWritesCanonicalFalse(t *testing.T) {
	rec := &Record{}
	if err := rec.set("MigrationActive", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	rec.Deactivate()
	if rec.MigrationActive {
		t.Fatalf("expected record inactive")
	}
	got, err := rec.text("MigrationActive")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "False" {
		t.Fatalf("expected canonical False, got %q", got)
	}
}

func TestRecordRejectsUnknownColumn(t *testing.T) {
	rec := &Record{}
	if err := rec.set("NoSuchColumn", "x"); err == nil {
		t.Fatalf("expected unknown column error on set")
	}
	if _, err := rec.text("NoSuchColumn"); err == nil {
		t.Fatalf("expected unknown column error on text")
	}
}
