package launcher

import (
	"errors"
	"os/exec"
)

var (
	// ErrCancelled is returned when the user presses ESC or closes the menu.
	ErrCancelled = errors.New("cancelled by user")

	// ErrUnknownLauncher is returned by New for an unsupported name.
	ErrUnknownLauncher = errors.New("unknown launcher")

	// ErrNoLauncher is returned when no supported menu program is installed.
	ErrNoLauncher = errors.New("no launcher available - please install rofi, dmenu, fzf, bemenu, or fuzzel")
)

// IsCancelled reports whether err means the user backed out.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// cancelled maps the exit codes menu programs use for ESC: 1 for the
// dmenu family, 130 for fzf.
func cancelled(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return code == 1 || code == 130
	}
	return false
}
