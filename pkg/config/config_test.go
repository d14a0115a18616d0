package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "rofi", cfg.GetDefaultLauncher())
	assert.Equal(t, 1, cfg.Registry.MinPriority)
	assert.Equal(t, 10, cfg.Registry.MaxPriority)
	assert.InDelta(t, 0.10, cfg.Selector.NoLaunchChance, 1e-9)
	assert.Equal(t, int64(0), cfg.Selector.Seed)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, []string{"--height", "40%", "--reverse"}, cfg.Launchers.Fzf.Args)
	require.NoError(t, cfg.Validate())
}

func TestLoadFrom_NoFilesUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_MergesOnlySetKeys(t *testing.T) {
	path := writeConfig(t, `
default_launcher = "fzf"

[selector]
no_launch_chance = 0.25

[notifications]
enabled = false

[launchers.dmenu]
args = ["-b"]
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "fzf", cfg.GetDefaultLauncher())
	assert.InDelta(t, 0.25, cfg.Selector.NoLaunchChance, 1e-9)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, []string{"-b"}, cfg.Launchers.Dmenu.Args)

	// Untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Registry.MaxPriority)
	assert.Equal(t, "normal", cfg.Notifications.Urgency)
	assert.Equal(t, []string{"-i"}, cfg.Launchers.Rofi.Args)
}

func TestLoadFrom_FirstExistingPathWins(t *testing.T) {
	first := writeConfig(t, `default_launcher = "bemenu"`)
	second := writeConfig(t, `default_launcher = "dmenu"`)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"), first, second)
	require.NoError(t, err)
	assert.Equal(t, "bemenu", cfg.DefaultLauncher)
}

func TestLoadFrom_BrokenFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `default_launcher = [unterminated`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_InvalidRangeRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"min below one", "[registry]\nmin_priority = 0\n"},
		{"max below min", "[registry]\nmin_priority = 5\nmax_priority = 2\n"},
		{"chance above one", "[selector]\nno_launch_chance = 1.5\n"},
		{"negative chance", "[selector]\nno_launch_chance = -0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestGetLauncherCommand(t *testing.T) {
	cfg := Default()

	for _, name := range []string{"rofi", "dmenu", "fzf", "bemenu", "fuzzel"} {
		assert.NotNil(t, cfg.GetLauncherCommand(name), name)
	}
	assert.Nil(t, cfg.GetLauncherCommand("wofi"))
}

func TestGetRegistryPath_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, ".random_app_launcher.json"), cfg.GetRegistryPath())

	cfg.Registry.Path = "$HOME/programs.json"
	assert.Equal(t, filepath.Join(home, "programs.json"), cfg.GetRegistryPath())
}

func TestInitConfigAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rl", "config.toml")

	require.NoError(t, InitConfigAt(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfigContent(), string(data))

	err = InitConfigAt(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestGetUserConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "rl", "config.toml"), GetUserConfigPath())
}
