//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// isolate starts cmd in a new process group so the whole tree can be
// signalled at once.
func isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the caller still reaps the direct child via Wait.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
