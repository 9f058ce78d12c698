//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, which
// takes down Chrome's renderer and GPU helpers with it.
func KillProcessGroup(pid int) {
	// Errors are ignored; Group.Stop runs the launcher fallback next.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
