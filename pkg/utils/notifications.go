// Package utils provides notification utilities for rl.
// Supports configurable notification behavior via NotificationConfig.
package utils

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/lvim-tech/rl/pkg/config"
)

// Notifier reports messages to the desktop, or to the terminal when rl
// runs in one and show_in_terminal is set.
type Notifier struct {
	cfg        *config.NotificationConfig
	out        io.Writer
	errOut     io.Writer
	isTerminal func() bool
	start      func(name string, args ...string) error
}

// NewNotifier returns a notifier using cfg. A nil cfg disables it.
func NewNotifier(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:        cfg,
		out:        os.Stdout,
		errOut:     os.Stderr,
		isTerminal: IsTerminal,
		start:      startDetached,
	}
}

// Notify sends a normal notification.
func (n *Notifier) Notify(title, message string) {
	if n.cfg == nil || !n.cfg.Enabled {
		return
	}

	if n.cfg.ShowInTerminal && n.isTerminal() {
		fmt.Fprintf(n.out, "[%s] %s\n", title, message)
		return
	}

	n.send(title, message, n.cfg.Urgency, "normal")
}

// Error sends a critical notification.
func (n *Notifier) Error(title, message string) {
	if n.cfg == nil || !n.cfg.Enabled {
		// Errors still reach a terminal user
		if n.isTerminal() {
			fmt.Fprintf(n.errOut, "[ERROR] [%s] %s\n", title, message)
		}
		return
	}

	if n.cfg.ShowInTerminal && n.isTerminal() {
		fmt.Fprintf(n.errOut, "[ERROR] [%s] %s\n", title, message)
		return
	}

	n.send(title, message, "critical", "critical")
}

// ============================================================================
// Internal Helper Functions
// ============================================================================

func (n *Notifier) send(title, message, urgency, fallbackUrgency string) {
	tool := n.cfg.Tool
	if tool == "" || tool == "auto" {
		tool = detectNotificationTool()
	}
	if tool == "" {
		return
	}

	if urgency == "" {
		urgency = fallbackUrgency
	}

	timeout := n.cfg.Timeout
	if timeout <= 0 {
		timeout = 5000
	}

	switch tool {
	case "dunstify", "notify-send":
		_ = n.start(tool,
			"-u", urgency,
			"-t", strconv.Itoa(timeout),
			title,
			message)
	}
}

// detectNotificationTool detects which notification tool is available
func detectNotificationTool() string {
	if CommandExists("dunstify") {
		return "dunstify"
	}
	if CommandExists("notify-send") {
		return "notify-send"
	}
	return ""
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
