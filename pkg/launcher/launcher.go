// Package launcher provides an abstraction layer for dmenu-style menu
// programs. It supports rofi, dmenu, fzf, bemenu, and fuzzel with a
// unified interface: options go to stdin, the choice comes back on stdout.
package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/lvim-tech/rl/pkg/config"
)

// Launcher shows a list of options and returns the chosen one. Prompt
// asks for free text instead, such as a path to add.
type Launcher interface {
	Show(options []string, prompt string) (string, error)
	Prompt(prompt string) (string, error)
	Name() string
	Args() []string
}

// Names lists the supported menu programs in detection order.
var Names = []string{"rofi", "dmenu", "fzf", "bemenu", "fuzzel"}

// New returns the launcher called name, configured from cfg. "auto"
// picks the first installed program.
func New(name string, cfg *config.Config) (Launcher, error) {
	if name == "" || name == "auto" {
		return Detect(cfg)
	}

	lc := cfg.GetLauncherCommand(name)
	if lc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLauncher, name)
	}

	base := baseLauncher{name: name, command: lc.Command, args: lc.Args}
	if base.command == "" {
		base.command = name
	}

	switch name {
	case "rofi":
		return &Rofi{base}, nil
	case "dmenu":
		return &Dmenu{base}, nil
	case "fzf":
		return &Fzf{base}, nil
	case "bemenu":
		return &Bemenu{base}, nil
	case "fuzzel":
		return &Fuzzel{base}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLauncher, name)
}

// Detect returns the first installed menu program.
func Detect(cfg *config.Config) (Launcher, error) {
	for _, name := range Names {
		command := name
		if lc := cfg.GetLauncherCommand(name); lc != nil && lc.Command != "" {
			command = lc.Command
		}
		if _, err := exec.LookPath(command); err == nil {
			return New(name, cfg)
		}
	}
	return nil, ErrNoLauncher
}

// baseLauncher runs a menu program over stdin/stdout.
type baseLauncher struct {
	name    string
	command string
	args    []string
}

func (b *baseLauncher) Name() string {
	return b.name
}

func (b *baseLauncher) Args() []string {
	return b.args
}

// run feeds options to the program and returns the trimmed choice.
func (b *baseLauncher) run(args []string, options []string, stderr bool) (string, error) {
	cmd := exec.Command(b.command, args...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n"))
	if stderr {
		cmd.Stderr = os.Stderr
	}

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		if cancelled(err) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("%s exited with error: %w", b.name, err)
	}

	choice := strings.TrimSpace(firstLine(out.String()))
	if choice == "" {
		return "", ErrCancelled
	}
	return choice, nil
}

// query runs the program over empty input and returns the typed query,
// the first line printed. A query matching nothing makes fzf exit 1, so
// that exit is not a cancel here; ESC exits 130.
func (b *baseLauncher) query(args []string, stderr bool) (string, error) {
	cmd := exec.Command(b.command, args...)
	cmd.Stdin = strings.NewReader("")
	if stderr {
		cmd.Stderr = os.Stderr
	}

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil && !noMatch(err) {
		if cancelled(err) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("%s exited with error: %w", b.name, err)
	}

	typed := strings.TrimSpace(firstLine(out.String()))
	if typed == "" {
		return "", ErrCancelled
	}
	return typed, nil
}

func noMatch(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// withArgs copies base and appends extra.
func withArgs(base []string, extra ...string) []string {
	args := append([]string{}, base...)
	return append(args, extra...)
}
