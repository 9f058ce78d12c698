//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child processes with taskkill.
func KillProcessGroup(pid int) {
	// Errors are ignored; Group.Stop runs the launcher fallback next.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
