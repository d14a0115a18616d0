// Package config provides configuration management for rl.
// It handles loading, merging, and accessing configuration from the
// embedded defaults and the user or system config files.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultConfigData string

// ErrInvalidConfig is returned when merged settings are out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the merged, ready-to-use configuration.
type Config struct {
	DefaultLauncher string             `toml:"default_launcher"`
	Launchers       LauncherConfig     `toml:"launchers"`
	Registry        RegistryConfig     `toml:"registry"`
	Selector        SelectorConfig     `toml:"selector"`
	Notifications   NotificationConfig `toml:"notifications"`
}

// LauncherConfig holds the extra arguments for every menu program.
type LauncherConfig struct {
	Dmenu  LauncherCommand `toml:"dmenu"`
	Rofi   LauncherCommand `toml:"rofi"`
	Fzf    LauncherCommand `toml:"fzf"`
	Bemenu LauncherCommand `toml:"bemenu"`
	Fuzzel LauncherCommand `toml:"fuzzel"`
}

// LauncherCommand describes how a menu program is started.
type LauncherCommand struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// RegistryConfig controls where programs are stored and which
// priorities are accepted.
type RegistryConfig struct {
	Path        string `toml:"path"`
	MinPriority int    `toml:"min_priority"`
	MaxPriority int    `toml:"max_priority"`
}

// SelectorConfig controls the random pick.
type SelectorConfig struct {
	NoLaunchChance float64 `toml:"no_launch_chance"`
	Seed           int64   `toml:"seed"`
}

// NotificationConfig controls how outcomes are reported to the user.
type NotificationConfig struct {
	Enabled        bool   `toml:"enabled"`
	Tool           string `toml:"tool"`
	Timeout        int    `toml:"timeout"`
	Urgency        string `toml:"urgency"`
	ShowInTerminal bool   `toml:"show_in_terminal"`
}

// RegistryConfigFile is the TOML view of [registry]; nil means unset.
type RegistryConfigFile struct {
	Path        *string `toml:"path"`
	MinPriority *int    `toml:"min_priority"`
	MaxPriority *int    `toml:"max_priority"`
}

// SelectorConfigFile is the TOML view of [selector].
type SelectorConfigFile struct {
	NoLaunchChance *float64 `toml:"no_launch_chance"`
	Seed           *int64   `toml:"seed"`
}

// NotificationConfigFile is the TOML view of [notifications].
type NotificationConfigFile struct {
	Enabled        *bool   `toml:"enabled"`
	Tool           *string `toml:"tool"`
	Timeout        *int    `toml:"timeout"`
	Urgency        *string `toml:"urgency"`
	ShowInTerminal *bool   `toml:"show_in_terminal"`
}

// ConfigFile is what a user or system config file decodes into.
type ConfigFile struct {
	DefaultLauncher *string                `toml:"default_launcher"`
	Launchers       LauncherConfig         `toml:"launchers"`
	Registry        RegistryConfigFile     `toml:"registry"`
	Selector        SelectorConfigFile     `toml:"selector"`
	Notifications   NotificationConfigFile `toml:"notifications"`
}

// GetUserConfigPath returns the path of the user config file.
func GetUserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rl", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rl", "config.toml")
}

// GetSystemConfigPath returns the path of the system-wide config file.
func GetSystemConfigPath() string {
	return "/etc/rl/config.toml"
}

// Load merges the defaults with the first config file found among the
// user and system locations.
func Load() (*Config, error) {
	return LoadFrom(GetUserConfigPath(), GetSystemConfigPath())
}

// LoadFrom merges the defaults with the first existing file in paths.
// An unreadable file is reported on stderr and the defaults are used.
func LoadFrom(paths ...string) (*Config, error) {
	defaultCfg, err := loadDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		fileCfg, err := loadConfigFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config %s: %v\n", path, err)
			fmt.Fprintf(os.Stderr, "Using default configuration\n")
			return defaultCfg, nil
		}

		merged := mergeConfigs(defaultCfg, fileCfg)
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return merged, nil
	}

	return defaultCfg, nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := loadDefaultConfig()
	if err != nil {
		panic(fmt.Sprintf("embedded default config is broken: %v", err))
	}
	return cfg
}

func loadDefaultConfig() (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(defaultConfigData, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadConfigFromFile(path string) (*ConfigFile, error) {
	var cfg ConfigFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays the values set in the file on top of defaults.
func mergeConfigs(defaultCfg *Config, userCfg *ConfigFile) *Config {
	merged := *defaultCfg

	if userCfg.DefaultLauncher != nil && *userCfg.DefaultLauncher != "" {
		merged.DefaultLauncher = *userCfg.DefaultLauncher
	}

	mergeLauncherConfigs(&merged.Launchers, &userCfg.Launchers)
	mergeRegistryConfig(&merged.Registry, &userCfg.Registry)
	mergeSelectorConfig(&merged.Selector, &userCfg.Selector)
	mergeNotificationConfig(&merged.Notifications, &userCfg.Notifications)

	return &merged
}

func mergeLauncherConfigs(merged *LauncherConfig, user *LauncherConfig) {
	mergeLauncherCommand(&merged.Dmenu, &user.Dmenu)
	mergeLauncherCommand(&merged.Rofi, &user.Rofi)
	mergeLauncherCommand(&merged.Fzf, &user.Fzf)
	mergeLauncherCommand(&merged.Bemenu, &user.Bemenu)
	mergeLauncherCommand(&merged.Fuzzel, &user.Fuzzel)
}

func mergeLauncherCommand(merged *LauncherCommand, user *LauncherCommand) {
	if user.Command != "" {
		merged.Command = user.Command
	}
	if len(user.Args) > 0 {
		merged.Args = user.Args
	}
}

func mergeRegistryConfig(merged *RegistryConfig, user *RegistryConfigFile) {
	if user.Path != nil && *user.Path != "" {
		merged.Path = *user.Path
	}
	if user.MinPriority != nil {
		merged.MinPriority = *user.MinPriority
	}
	if user.MaxPriority != nil {
		merged.MaxPriority = *user.MaxPriority
	}
}

func mergeSelectorConfig(merged *SelectorConfig, user *SelectorConfigFile) {
	if user.NoLaunchChance != nil {
		merged.NoLaunchChance = *user.NoLaunchChance
	}
	if user.Seed != nil {
		merged.Seed = *user.Seed
	}
}

func mergeNotificationConfig(merged *NotificationConfig, user *NotificationConfigFile) {
	if user.Enabled != nil {
		merged.Enabled = *user.Enabled
	}
	if user.Tool != nil && *user.Tool != "" {
		merged.Tool = *user.Tool
	}
	if user.Timeout != nil {
		merged.Timeout = *user.Timeout
	}
	if user.Urgency != nil && *user.Urgency != "" {
		merged.Urgency = *user.Urgency
	}
	if user.ShowInTerminal != nil {
		merged.ShowInTerminal = *user.ShowInTerminal
	}
}

// Validate checks that the numeric settings are usable.
func (c *Config) Validate() error {
	if c.Registry.MinPriority < 1 {
		return fmt.Errorf("%w: min_priority must be at least 1, got %d", ErrInvalidConfig, c.Registry.MinPriority)
	}
	if c.Registry.MaxPriority < c.Registry.MinPriority {
		return fmt.Errorf("%w: max_priority %d is below min_priority %d",
			ErrInvalidConfig, c.Registry.MaxPriority, c.Registry.MinPriority)
	}
	if c.Selector.NoLaunchChance < 0 || c.Selector.NoLaunchChance > 1 {
		return fmt.Errorf("%w: no_launch_chance must be within [0, 1], got %v", ErrInvalidConfig, c.Selector.NoLaunchChance)
	}
	return nil
}

// GetDefaultLauncher returns the configured menu program name.
func (c *Config) GetDefaultLauncher() string {
	if c.DefaultLauncher == "" {
		return "rofi"
	}
	return c.DefaultLauncher
}

// GetLauncherCommand returns the settings of a menu program, or nil
// for an unknown name.
func (c *Config) GetLauncherCommand(name string) *LauncherCommand {
	switch name {
	case "dmenu":
		return &c.Launchers.Dmenu
	case "rofi":
		return &c.Launchers.Rofi
	case "fzf":
		return &c.Launchers.Fzf
	case "bemenu":
		return &c.Launchers.Bemenu
	case "fuzzel":
		return &c.Launchers.Fuzzel
	default:
		return nil
	}
}

// GetRegistryPath returns the registry file path with ~ expanded.
func (c *Config) GetRegistryPath() string {
	path := c.Registry.Path
	if path == "" {
		path = "~/.random_app_launcher.json"
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path)
}

// GetNotificationConfig returns the notification settings.
func (c *Config) GetNotificationConfig() *NotificationConfig {
	return &c.Notifications
}

// InitUserConfig writes the default config into the user config directory.
func InitUserConfig() error {
	return InitConfigAt(GetUserConfigPath())
}

// InitConfigAt writes the default config to path unless it already exists.
func InitConfigAt(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigData), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigContent returns the embedded default config.
func GetDefaultConfigContent() string {
	return defaultConfigData
}
