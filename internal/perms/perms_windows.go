//go:build windows

package perms

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

type resetter struct {
	adminPrincipal string
}

func newResetter(adminPrincipal string) Resetter {
	if adminPrincipal == "" {
		adminPrincipal = "NT AUTHORITY\\SYSTEM"
	}
	return &resetter{adminPrincipal: adminPrincipal}
}

func (r *resetter) TakeOwnership(path string) error {
	self, err := processSID()
	if err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}

	dacl, err := mergedDACL(path, fullControlEntry(self))
	if err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}

	err = windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.OWNER_SECURITY_INFORMATION|windows.DACL_SECURITY_INFORMATION,
		self, nil, dacl, nil,
	)
	if err != nil {
		return fmt.Errorf("take ownership of %s: %w", path, err)
	}
	return nil
}

func (r *resetter) GrantUserAndSystem(path, userName string) error {
	userSID, _, _, err := windows.LookupSID("", userName)
	if err != nil {
		return fmt.Errorf("grant on %s: lookup %q: %w", path, userName, err)
	}
	adminSID, _, _, err := windows.LookupSID("", r.adminPrincipal)
	if err != nil {
		return fmt.Errorf("grant on %s: lookup %q: %w", path, r.adminPrincipal, err)
	}

	dacl, err := mergedDACL(path, fullControlEntry(userSID), fullControlEntry(adminSID))
	if err != nil {
		return fmt.Errorf("grant on %s: %w", path, err)
	}

	// PROTECTED breaks inheritance from the parent; the merged DACL carries
	// the previously effective rules forward as explicit entries.
	err = windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION|windows.PROTECTED_DACL_SECURITY_INFORMATION,
		nil, nil, dacl, nil,
	)
	if err != nil {
		return fmt.Errorf("grant on %s: write rules: %w", path, err)
	}

	// Best-effort owner sweep over immediate children; one stubborn child
	// must not stop the rest.
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("grant on %s: list children: %w", path, err)
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		err := windows.SetNamedSecurityInfo(
			child,
			windows.SE_FILE_OBJECT,
			windows.OWNER_SECURITY_INFORMATION,
			userSID, nil, nil, nil,
		)
		if err != nil {
			log.Warn().Err(err).Str("path", child).Msg("child owner reset failed")
		}
	}

	// Root owner last.
	err = windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.OWNER_SECURITY_INFORMATION,
		userSID, nil, nil, nil,
	)
	if err != nil {
		return fmt.Errorf("grant on %s: set owner: %w", path, err)
	}
	return nil
}

func processSID() (*windows.SID, error) {
	token := windows.GetCurrentProcessToken()
	user, err := token.GetTokenUser()
	if err != nil {
		return nil, fmt.Errorf("process token user: %w", err)
	}
	return user.User.Sid, nil
}

func fullControlEntry(sid *windows.SID) windows.EXPLICIT_ACCESS {
	return windows.EXPLICIT_ACCESS{
		AccessPermissions: windows.GENERIC_ALL,
		AccessMode:        windows.GRANT_ACCESS,
		Inheritance:       windows.SUB_CONTAINERS_AND_OBJECTS_INHERIT,
		Trustee: windows.TRUSTEE{
			TrusteeForm:  windows.TRUSTEE_IS_SID,
			TrusteeType:  windows.TRUSTEE_IS_USER,
			TrusteeValue: windows.TrusteeValueFromSID(sid),
		},
	}
}

// mergedDACL reads the object's current descriptor and merges the given
// entries into its DACL.
func mergedDACL(path string, entries ...windows.EXPLICIT_ACCESS) (*windows.ACL, error) {
	sd, err := windows.GetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION,
	)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	merged, err := windows.BuildSecurityDescriptor(nil, nil, entries, nil, sd)
	if err != nil {
		return nil, fmt.Errorf("merge rules: %w", err)
	}
	dacl, _, err := merged.DACL()
	if err != nil {
		return nil, fmt.Errorf("merged descriptor dacl: %w", err)
	}
	return dacl, nil
}
