package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lvim-tech/rl/pkg/config"
	"github.com/lvim-tech/rl/pkg/menu"
	"github.com/lvim-tech/rl/pkg/registry"
	"github.com/lvim-tech/rl/pkg/selector"
	"github.com/lvim-tech/rl/pkg/utils"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Register programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			rejected := 0
			for _, arg := range args {
				result, err := a.reg.Add(utils.ExpandPath(arg))
				switch result {
				case registry.Added:
					e := a.reg.Entries()[a.reg.Len()-1]
					fmt.Fprintf(out, "Added: %s (%s)\n", e.Name, e.Path)
				case registry.AlreadyExists:
					fmt.Fprintf(out, "Already registered: %s\n", arg)
				default:
					if !registry.IsValidation(err) {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					rejected++
				}
			}
			if rejected > 0 {
				return fmt.Errorf("%d of %d paths not added", rejected, len(args))
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path>...",
		Aliases: []string{"rm"},
		Short:   "Unregister programs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if a.reg.Remove(utils.ExpandPath(arg)) {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", arg)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Not registered: %s\n", arg)
				}
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show registered programs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.reg.Entries()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No programs registered. Add one with 'rl add <path>'.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPRIORITY\tENABLED\tPATH")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", e.Name, e.Priority, e.Enabled, e.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

func newPriorityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <path> <value>",
		Short: "Set how often a program is picked",
		Long:  "Set the relative weight of a program. A program with priority 3 is picked three times as often as one with priority 1.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be a number: %s", args[1])
			}

			e, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.reg.SetPriority(e.Path, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Priority of %s set to %d\n", e.Name, value)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset every priority to 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.reg.ResetPriorities()
			fmt.Fprintln(cmd.OutOrStdout(), "All priorities reset to 1")
			return nil
		},
	}
}

func newEnableCmd(a *app, enabled bool) *cobra.Command {
	use, short, verb := "enable <path>...", "Let programs take part in random picks", "Enabled"
	if !enabled {
		use, short, verb = "disable <path>...", "Keep programs out of random picks", "Disabled"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				e, err := a.resolve(arg)
				if err != nil {
					return err
				}
				if err := a.reg.SetEnabled(e.Path, enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, e.Name)
			}
			return nil
		},
	}
}

// errNoEligible is returned by launch when nothing can be picked.
var errNoEligible = errors.New("no eligible programs - check and enable at least one")

func newLaunchCmd(a *app) *cobra.Command {
	var (
		only    []string
		exclude []string
		next    string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Pick one program at random and start it",
		Long: `Pick one program at random, weighted by priority, and start it.

--only and --exclude narrow the programs taking part in this pick without
changing their enabled state. --next pins a program for this pick; a pinned
program that is disabled or not taking part is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checked, err := a.checkedSet(only, exclude)
			if err != nil {
				return err
			}

			session := selector.NewSession()
			if next != "" {
				pin := utils.ExpandPath(next)
				if e, err := a.resolve(next); err == nil {
					pin = e.Path
				}
				session.SetNext(pin)
			}

			var out selector.Outcome
			var launchErr error
			if dryRun {
				out = a.sel.Select(a.reg.Entries(), checked, session)
			} else {
				out, launchErr = menu.RandomLaunch(a.reg, a.sel, checked, session, a.run)
			}

			w := cmd.OutOrStdout()
			switch out.Kind {
			case selector.NoLaunch:
				fmt.Fprintln(w, "Not this time - nothing was launched")
				return nil
			case selector.NoEligiblePrograms:
				return errNoEligible
			}

			name := out.Path
			if e, ok := a.reg.Find(out.Path); ok {
				name = e.Name
			}
			if launchErr != nil {
				return launchErr
			}

			switch {
			case dryRun:
				fmt.Fprintf(w, "Would launch: %s (%s)\n", name, out.Path)
			case out.Pinned:
				fmt.Fprintf(w, "Launching pinned program: %s\n", name)
			default:
				fmt.Fprintf(w, "Launching: %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&only, "only", nil, "limit the pick to this program (repeatable)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "leave this program out of the pick (repeatable)")
	cmd.Flags().StringVar(&next, "next", "", "pin this program for the pick")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show the pick without starting anything")
	return cmd
}

// checkedSet builds the programs taking part in a pick.
func (a *app) checkedSet(only, exclude []string) (selector.Checked, error) {
	checked := selector.CheckAll(a.reg.Entries())

	if len(only) > 0 {
		checked = selector.Checked{}
		for _, p := range only {
			e, err := a.resolve(p)
			if err != nil {
				return nil, err
			}
			checked[e.Path] = true
		}
	}

	for _, p := range exclude {
		e, err := a.resolve(p)
		if err != nil {
			return nil, err
		}
		delete(checked, e.Path)
	}
	return checked, nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write the default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"standalone": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			var err error
			if path == "" {
				path = config.GetUserConfigPath()
				err = config.InitUserConfig()
			} else {
				err = config.InitConfigAt(path)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config initialized at: %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Edit it to customize rl, then run 'rl add <path>' to register programs.")
			return nil
		},
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"standalone": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rl %s\n", version)
		},
	}
}
