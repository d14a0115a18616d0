//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}
}
