// Package utils provides common helpers for rl: command detection, path
// expansion, XDG directories and terminal detection.
package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// CommandExists reports whether name resolves through PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ExpandHomeDir replaces a leading "~" or "~/" with the home directory.
// Other forms such as "~user" are returned unchanged.
func ExpandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	return filepath.Join(GetHomeDir(), strings.TrimPrefix(path, "~"))
}

// ExpandPath expands ~ and then $VAR references.
func ExpandPath(path string) string {
	return os.ExpandEnv(ExpandHomeDir(strings.TrimSpace(path)))
}

// GetEnvOrDefault returns the value of key, or fallback when it is unset or empty.
func GetEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// GetHomeDir prefers $HOME so tests and sandboxes can redirect it.
func GetHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

// GetCacheDir returns $XDG_CACHE_HOME, or ~/.cache.
func GetCacheDir() string {
	return GetEnvOrDefault("XDG_CACHE_HOME", filepath.Join(GetHomeDir(), ".cache"))
}

// IsTerminal reports whether both stdin and stdout are attached to a
// terminal, as they are when rl is started from a shell.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
