//go:build !windows

package perms

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func TestTakeOwnershipOpensRootForProcess(t *testing.T) {
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	r := New("")
	if err := r.TakeOwnership(dir); err != nil {
		t.Fatalf("take ownership: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o700 != 0o700 {
		t.Fatalf("expected owner rwx after takeover, got %v", info.Mode().Perm())
	}
}

func TestTakeOwnershipMissingPathFails(t *testing.T) {
	r := New("")
	if err := r.TakeOwnership(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestGrantUserAndSystemSweepsTree(t *testing.T) {
	self, err := user.Current()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "documents"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := New("")
	if err := r.GrantUserAndSystem(dir, self.Username); err != nil {
		t.Fatalf("grant: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o770 {
		t.Fatalf("expected 0770 on root, got %v", info.Mode().Perm())
	}
}

func TestGrantUserAndSystemUnknownUserFails(t *testing.T) {
	r := New("")
	err := r.GrantUserAndSystem(t.TempDir(), "homectl-no-such-user")
	if err == nil {
		t.Fatalf("expected lookup failure for unknown user")
	}
}
