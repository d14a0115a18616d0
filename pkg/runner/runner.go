// Package runner starts the program chosen by the selector. Executables
// are started directly; anything else is handed to the platform opener.
// Started processes are detached from rl.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/lvim-tech/rl/internal/log"
)

// ErrNoOpener is returned when no platform opener is installed.
var ErrNoOpener = errors.New("no opener available")

// LaunchError reports an OS failure to start a program.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Runner launches programs.
type Runner struct {
	goos     string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

// New returns a runner for the current platform.
func New() *Runner {
	return &Runner{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Launch starts path and returns once the process is running.
func (r *Runner) Launch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &LaunchError{Path: path, Err: err}
	}

	name, args, err := r.command(path, isExecutable(info, r.goos))
	if err != nil {
		return &LaunchError{Path: path, Err: err}
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)

	if err := r.start(cmd); err != nil {
		log.ErrorErr(log.CatLaunch, "start failed", err, "path", path, "command", name)
		return &LaunchError{Path: path, Err: err}
	}

	if cmd.Process != nil {
		log.Info(log.CatLaunch, "started", "path", path, "pid", cmd.Process.Pid)
		// Reap in the background so no zombie is left while rl runs.
		go func() { _ = cmd.Wait() }()
	}
	return nil
}

// command returns the program and arguments that open path.
func (r *Runner) command(path string, executable bool) (string, []string, error) {
	switch r.goos {
	case "windows":
		return "cmd", []string{"/C", "start", "", path}, nil
	case "darwin":
		if executable {
			return path, nil, nil
		}
		return "open", []string{path}, nil
	default:
		if executable {
			return path, nil, nil
		}
		for _, opener := range []string{"xdg-open", "gio", "exo-open"} {
			if _, err := r.lookPath(opener); err != nil {
				continue
			}
			if opener == "gio" {
				return opener, []string{"open", path}, nil
			}
			return opener, []string{path}, nil
		}
		return "", nil, ErrNoOpener
	}
}

func isExecutable(info os.FileInfo, goos string) bool {
	if info.IsDir() || goos == "windows" {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
