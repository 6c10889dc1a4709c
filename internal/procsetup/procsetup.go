// Package procsetup holds the small amount of process-lifecycle glue
// that sits outside the serving core proper: writing and removing the
// pidfile, and a best-effort privilege drop. Neither is fatal to start
// up on failure; both are logged and left for the operator to notice.
package procsetup

import (
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// WritePidfile writes the current process id to path, truncating any
// existing file. A blank path is a no-op: the pidfile is optional.
func WritePidfile(path string) error {
	if path == "" {
		return nil
	}
	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("procsetup: write pidfile %q: %w", path, err)
	}
	return nil
}

// RemovePidfile removes the pidfile written by WritePidfile. A blank
// path, or a file that is already gone, is not an error.
func RemovePidfile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		xlog.Warnf("procsetup: remove pidfile %q: %v", path, err)
	}
}

// DropPrivileges switches the process to the given user/group, group
// first so the uid switch doesn't lose the permission to do so. Either
// name may be blank to skip that half. Errors are returned, not fatal:
// the caller decides whether a failed drop should abort startup (it
// normally shouldn't, since most deployments don't run as root at all).
func DropPrivileges(username, group string) error {
	if group != "" {
		gid, err := lookupGid(group)
		if err != nil {
			return fmt.Errorf("procsetup: lookup group %q: %w", group, err)
		}
		if err := syscall.Setgid(gid); err != nil {
			return fmt.Errorf("procsetup: setgid %d: %w", gid, err)
		}
	}

	if username != "" {
		uid, err := lookupUid(username)
		if err != nil {
			return fmt.Errorf("procsetup: lookup user %q: %w", username, err)
		}
		if err := syscall.Setuid(uid); err != nil {
			return fmt.Errorf("procsetup: setuid %d: %w", uid, err)
		}
	}

	return nil
}
