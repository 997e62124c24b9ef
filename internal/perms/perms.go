// Package perms applies the ownership-takeover and permission-reset protocol
// to a destination directory tree. The engine only sees the Resetter
// capability; the platform implementation is selected at build time.
package perms

// Resetter resets ownership and access rules on a destination tree that
// already exists on disk.
type Resetter interface {
	// TakeOwnership makes the running process the owner of the tree root and
	// grants it inheritable full control, so later steps can write access
	// rules even if a prior run left the tree owned by someone else.
	TakeOwnership(path string) error

	// GrantUserAndSystem breaks inheritance on the tree root, grants
	// inheritable full control to the target user and to the administrative
	// principal, resets ownership of the root's immediate children to the
	// target user (best effort), and finally sets the root's own owner to the
	// target user. The root owner is written last so the tree ends up owned
	// by the end user, not the migration process.
	GrantUserAndSystem(path, userName string) error
}

// New returns the platform Resetter. adminPrincipal names the fixed
// administrative identity granted alongside the target user.
func New(adminPrincipal string) Resetter {
	return newResetter(adminPrincipal)
}
