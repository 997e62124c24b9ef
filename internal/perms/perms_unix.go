//go:build !windows

package perms

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Owner/mode rendition of the reset protocol. Windows expresses "full control
// for user and system" as DACL entries; here the administrative identity is a
// group and full control maps to owner plus group rwx.
type resetter struct {
	adminGroup string
}

func newResetter(adminPrincipal string) Resetter {
	return &resetter{adminGroup: adminPrincipal}
}

func (r *resetter) TakeOwnership(path string) error {
	self, err := user.Current()
	if err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}
	uid, err := strconv.Atoi(self.Uid)
	if err != nil {
		return fmt.Errorf("take ownership of %s: uid %q: %w", path, self.Uid, err)
	}
	if err := os.Chown(path, uid, -1); err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}
	if err := os.Chmod(path, info.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}
	return nil
}

func (r *resetter) GrantUserAndSystem(path, userName string) error {
	target, err := user.Lookup(userName)
	if err != nil {
		return fmt.Errorf("grant on %s: lookup %q: %w", path, userName, err)
	}
	uid, err := strconv.Atoi(target.Uid)
	if err != nil {
		return fmt.Errorf("grant on %s: uid %q: %w", path, target.Uid, err)
	}
	gid, err := r.groupID(target)
	if err != nil {
		return fmt.Errorf("grant on %s: %w", path, err)
	}

	if err := os.Chmod(path, 0o770); err != nil {
		return fmt.Errorf("grant on %s: %w", path, err)
	}

	// Best-effort owner sweep over immediate children; one stubborn child
	// must not stop the rest.
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("grant on %s: list children: %w", path, err)
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if err := os.Lchown(child, uid, gid); err != nil {
			log.Warn().Err(err).Str("path", child).Msg("child owner reset failed")
		}
	}

	// Root owner last.
	if err := os.Chown(path, uid, gid); err != nil {
		return fmt.Errorf("grant on %s: set owner: %w", path, err)
	}
	return nil
}

// groupID resolves the administrative group, falling back to the target
// user's primary group when none is configured or the lookup fails.
func (r *resetter) groupID(target *user.User) (int, error) {
	if r.adminGroup != "" {
		if grp, err := user.LookupGroup(r.adminGroup); err == nil {
			if gid, err := strconv.Atoi(grp.Gid); err == nil {
				return gid, nil
			}
		}
	}
	gid, err := strconv.Atoi(target.Gid)
	if err != nil {
		return 0, fmt.Errorf("gid %q: %w", target.Gid, err)
	}
	return gid, nil
}
