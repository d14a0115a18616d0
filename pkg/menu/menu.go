// Package menu is the interactive front end of rl. It drives a
// dmenu-style launcher, keeps the per-session checked set and pending
// pin, and turns the selector's outcome into a launched program.
package menu

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/lvim-tech/rl/internal/log"
	"github.com/lvim-tech/rl/pkg/launcher"
	"github.com/lvim-tech/rl/pkg/registry"
	"github.com/lvim-tech/rl/pkg/selector"
	"github.com/lvim-tech/rl/pkg/utils"
)

const (
	optRandom   = "🎲 Random launch"
	optNext     = "📌 Set next program"
	optCheck    = "☑ Check / uncheck"
	optEnable   = "⏻ Enable / disable"
	optPriority = "⚖ Set priority"
	optReset    = "↺ Reset priorities"
	optAdd      = "➕ Add program"
	optRemove   = "➖ Remove program"
	optBack     = "← Back"

	title = "Random Launcher"
)

// Runner starts the selected program.
type Runner interface {
	Launch(path string) error
}

// Notifier reports results to the user.
type Notifier interface {
	Notify(title, message string)
	Error(title, message string)
}

// Menu is one interactive session.
type Menu struct {
	launcher launcher.Launcher
	registry *registry.Registry
	selector *selector.Selector
	session  *selector.Session
	runner   Runner
	notifier Notifier
	checked  selector.Checked
}

// New returns a session over reg. Every registered program starts checked.
func New(l launcher.Launcher, reg *registry.Registry, sel *selector.Selector, run Runner, n Notifier) *Menu {
	return &Menu{
		launcher: l,
		registry: reg,
		selector: sel,
		session:  selector.NewSession(),
		runner:   run,
		notifier: n,
		checked:  selector.CheckAll(reg.Entries()),
	}
}

// Run shows the main menu until the user cancels or a random launch ends
// the session. The registry is saved on the way out.
func (m *Menu) Run() error {
	defer m.registry.Close()

	for {
		choice, err := m.launcher.Show(m.mainOptions(), "rl")
		if err != nil {
			if launcher.IsCancelled(err) {
				return nil
			}
			return err
		}

		log.Debug(log.CatMenu, "main menu choice", "choice", choice)

		switch choice {
		case optRandom:
			if m.randomLaunch() {
				return nil
			}
		case optNext:
			err = m.setNext()
		case optCheck:
			err = m.toggleChecked()
		case optEnable:
			err = m.toggleEnabled()
		case optPriority:
			err = m.setPriority()
		case optReset:
			m.registry.ResetPriorities()
			m.notifier.Notify(title, "All priorities reset to 1")
		case optAdd:
			err = m.addProgram()
		case optRemove:
			err = m.removeProgram()
		default:
			m.notifier.Error(title, fmt.Sprintf("Unknown option: %s", choice))
		}

		if err != nil && !launcher.IsCancelled(err) {
			return err
		}
	}
}

func (m *Menu) mainOptions() []string {
	return []string{optRandom, optNext, optCheck, optEnable, optPriority, optReset, optAdd, optRemove}
}

// randomLaunch reports whether the session is over.
func (m *Menu) randomLaunch() bool {
	out, err := RandomLaunch(m.registry, m.selector, m.checked, m.session, m.runner)

	switch out.Kind {
	case selector.NoLaunch:
		m.notifier.Notify(title, "Not this time - nothing was launched")
		return true
	case selector.NoEligiblePrograms:
		m.notifier.Error(title, "Check and enable at least one program")
		return false
	}

	name := m.displayName(out.Path)
	if err != nil {
		m.notifier.Error(title, err.Error())
		return false
	}
	if out.Pinned {
		m.notifier.Notify(title, fmt.Sprintf("Launching pinned program: %s", name))
	} else {
		m.notifier.Notify(title, fmt.Sprintf("Launching: %s", name))
	}
	return true
}

// RandomLaunch runs one selection and, for a Selected outcome, launches
// it. A launch failure is returned alongside the outcome; the pick
// already happened and the registry is saved either way.
func RandomLaunch(reg *registry.Registry, sel *selector.Selector, checked selector.Checked, session *selector.Session, run Runner) (selector.Outcome, error) {
	out := sel.Select(reg.Entries(), checked, session)
	if out.Kind != selector.Selected {
		return out, nil
	}

	var launchErr error
	if err := run.Launch(out.Path); err != nil {
		log.ErrorErr(log.CatLaunch, "launch failed", err, "path", out.Path)
		launchErr = err
	}

	if err := reg.Save(); err != nil {
		log.ErrorErr(log.CatRegistry, "save after launch failed", err)
	}
	return out, launchErr
}

func (m *Menu) setNext() error {
	// Disabled programs are never picked, so they cannot be pinned either.
	path, err := m.chooseEntry("Next program", isEnabled, func(e registry.Entry) string {
		if pin, ok := m.session.Next(); ok && pin == e.Path {
			return "📌 "
		}
		return ""
	})
	if err != nil {
		return err
	}

	m.session.SetNext(path)
	m.notifier.Notify(title, fmt.Sprintf("Next launch will be: %s", m.displayName(path)))
	return nil
}

func (m *Menu) toggleChecked() error {
	path, err := m.chooseEntry("Check / uncheck", nil, func(e registry.Entry) string {
		if m.checked[e.Path] {
			return "[x] "
		}
		return "[ ] "
	})
	if err != nil {
		return err
	}

	if m.checked[path] {
		delete(m.checked, path)
	} else {
		m.checked[path] = true
	}
	return nil
}

func (m *Menu) toggleEnabled() error {
	path, err := m.chooseEntry("Enable / disable", nil, func(e registry.Entry) string {
		if e.Enabled {
			return "on  "
		}
		return "off "
	})
	if err != nil {
		return err
	}

	e, _ := m.registry.Find(path)
	return m.registry.SetEnabled(path, !e.Enabled)
}

func (m *Menu) setPriority() error {
	path, err := m.chooseEntry("Priority", nil, nil)
	if err != nil {
		return err
	}

	minP, maxP := m.registry.Limits()
	values := []string{optBack}
	for p := minP; p <= maxP; p++ {
		values = append(values, strconv.Itoa(p))
	}

	choice, err := m.launcher.Show(values, m.displayName(path))
	if err != nil {
		return err
	}
	if choice == optBack {
		return launcher.ErrCancelled
	}

	p, err := strconv.Atoi(choice)
	if err != nil {
		m.notifier.Error(title, fmt.Sprintf("Not a number: %s", choice))
		return nil
	}
	if err := m.registry.SetPriority(path, p); err != nil {
		m.notifier.Error(title, err.Error())
		return nil
	}

	m.notifier.Notify(title, fmt.Sprintf("Priority of %s set to %d", m.displayName(path), p))
	return nil
}

func (m *Menu) addProgram() error {
	input, err := m.launcher.Prompt("Program path")
	if err != nil {
		return err
	}

	path := utils.ExpandPath(input)
	result, err := m.registry.Add(path)
	switch result {
	case registry.Added:
		added := m.registry.Entries()[m.registry.Len()-1]
		m.checked[added.Path] = true
		m.notifier.Notify(title, fmt.Sprintf("Added: %s", added.Name))
	case registry.AlreadyExists:
		m.notifier.Notify(title, fmt.Sprintf("Program already exists: %s", path))
	default:
		m.notifier.Error(title, err.Error())
	}
	return nil
}

func (m *Menu) removeProgram() error {
	path, err := m.chooseEntry("Remove", nil, nil)
	if err != nil {
		return err
	}

	name := m.displayName(path)
	if m.registry.Remove(path) {
		delete(m.checked, path)
		m.notifier.Notify(title, fmt.Sprintf("Removed: %s", name))
	}
	return nil
}

// errNoPrograms ends a submenu when the registry is empty.
var errNoPrograms = errors.New("no programs registered")

// chooseEntry lets the user pick a registered program and returns its
// path. include filters the rows and prefix decorates each label; nil
// means all rows and no decoration.
func (m *Menu) chooseEntry(prompt string, include func(registry.Entry) bool, prefix func(registry.Entry) string) (string, error) {
	all := m.registry.Entries()
	if len(all) == 0 {
		m.notifier.Notify(title, "No programs registered yet")
		return "", fmt.Errorf("%w: %w", launcher.ErrCancelled, errNoPrograms)
	}

	entries := all
	if include != nil {
		entries = slices.DeleteFunc(slices.Clone(all), func(e registry.Entry) bool { return !include(e) })
	}
	if len(entries) == 0 {
		m.notifier.Notify(title, "No enabled programs")
		return "", fmt.Errorf("%w: %w", launcher.ErrCancelled, errNoPrograms)
	}

	options := []string{optBack}
	byLabel := make(map[string]string, len(entries))
	for _, e := range entries {
		label := fmt.Sprintf("%s (p%d)  %s", e.Name, e.Priority, e.Path)
		if prefix != nil {
			label = prefix(e) + label
		}
		options = append(options, label)
		byLabel[label] = e.Path
	}

	choice, err := m.launcher.Show(options, prompt)
	if err != nil {
		return "", err
	}
	if choice == optBack {
		return "", launcher.ErrCancelled
	}

	path, ok := byLabel[choice]
	if !ok {
		m.notifier.Error(title, fmt.Sprintf("Unknown program: %s", choice))
		return "", launcher.ErrCancelled
	}
	return path, nil
}

func isEnabled(e registry.Entry) bool {
	return e.Enabled
}

func (m *Menu) displayName(path string) string {
	if e, ok := m.registry.Find(path); ok {
		return e.Name
	}
	return path
}
