package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lvim-tech/rl/internal/log"
	"github.com/lvim-tech/rl/pkg/config"
	"github.com/lvim-tech/rl/pkg/launcher"
	"github.com/lvim-tech/rl/pkg/menu"
	"github.com/lvim-tech/rl/pkg/registry"
	"github.com/lvim-tech/rl/pkg/runner"
	"github.com/lvim-tech/rl/pkg/selector"
	"github.com/lvim-tech/rl/pkg/utils"
)

// app carries the state shared by all sub-commands of one invocation.
type app struct {
	cfgFile      string
	registryPath string
	launcherName string
	debug        bool

	cfg      *config.Config
	reg      *registry.Registry
	sel      *selector.Selector
	run      menu.Runner
	closeLog func()
}

func newApp() *app {
	return &app{run: runner.New()}
}

// execute runs root and always tears down afterwards. cobra skips post-run
// hooks when a command fails, so this cannot live in PersistentPostRun.
func (a *app) execute(root *cobra.Command) error {
	defer a.teardown()
	return root.Execute()
}

func buildRootCmd(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "rl",
		Short: "Launch a random program from your list",
		Long: `rl keeps a list of programs with priorities and launches one of them at random.
Higher priorities are picked more often, one program can be pinned for the next
pick, and every now and then rl decides that nothing gets launched at all.

Without a sub-command rl opens the interactive menu (rofi, dmenu, fzf, bemenu or fuzzel).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			return a.setup()
		},
		RunE: a.runMenu,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/rl/config.toml)")
	root.PersistentFlags().StringVarP(&a.registryPath, "registry", "r", "",
		"program list file (default: ~/.random_app_launcher.json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false,
		"write a debug log to ~/.cache/rl/debug.log")
	root.PersistentFlags().StringVarP(&a.launcherName, "launcher", "l", "",
		"menu program: rofi, dmenu, fzf, bemenu, fuzzel or auto")

	root.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newPriorityCmd(a),
		newResetCmd(a),
		newEnableCmd(a, true),
		newEnableCmd(a, false),
		newLaunchCmd(a),
		newInitCmd(a),
		newVersionCmd(version),
	)

	return root
}

// setup loads config, starts logging and opens the registry.
func (a *app) setup() error {
	var err error
	if a.cfgFile != "" {
		if _, statErr := os.Stat(a.cfgFile); statErr != nil {
			return fmt.Errorf("config file: %w", statErr)
		}
		a.cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.debug || os.Getenv("RL_DEBUG") != "" {
		logPath := utils.GetEnvOrDefault("RL_LOG_FILE", filepath.Join(utils.GetCacheDir(), "rl", "debug.log"))
		cleanup, err := log.Init(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
		} else {
			a.closeLog = cleanup
			log.With("session", uuid.NewString())
		}
	}

	path := a.cfg.GetRegistryPath()
	if a.registryPath != "" {
		path = utils.ExpandPath(a.registryPath)
	}
	store := registry.NewFileStore(path)
	log.Debug(log.CatConfig, "config loaded", "registry", store.Path(), "launcher", a.cfg.GetDefaultLauncher())

	a.reg = registry.Open(store,
		registry.WithPriorityRange(a.cfg.Registry.MinPriority, a.cfg.Registry.MaxPriority))

	opts := []selector.Option{selector.WithNoLaunchChance(a.cfg.Selector.NoLaunchChance)}
	if a.cfg.Selector.Seed != 0 {
		opts = append(opts, selector.WithSeed(a.cfg.Selector.Seed))
	}
	a.sel = selector.New(opts...)
	return nil
}

func (a *app) teardown() {
	if a.reg != nil {
		a.reg.Close()
		a.reg = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
		log.Reset()
	}
}

func (a *app) runMenu(cmd *cobra.Command, args []string) error {
	name := a.cfg.GetDefaultLauncher()
	if a.launcherName != "" {
		name = a.launcherName
	}

	l, err := launcher.New(name, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create launcher: %w", err)
	}

	m := menu.New(l, a.reg, a.sel, a.run, utils.NewNotifier(a.cfg.GetNotificationConfig()))
	return m.Run()
}

// resolve maps a user supplied path onto the registered entry.
func (a *app) resolve(path string) (registry.Entry, error) {
	if e, ok := a.reg.Find(utils.ExpandPath(path)); ok {
		return e, nil
	}
	return registry.Entry{}, fmt.Errorf("%w: %s", registry.ErrNotFound, path)
}
