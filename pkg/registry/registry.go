// Package registry keeps the ordered list of launchable programs, their
// enabled flags and priorities, and persists it through a Store after
// every mutation.
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lvim-tech/rl/internal/log"
)

// Option configures a Registry.
type Option func(*Registry)

// WithPriorityRange sets the range accepted by SetPriority.
func WithPriorityRange(minPriority, maxPriority int) Option {
	return func(r *Registry) {
		r.minPriority = minPriority
		r.maxPriority = maxPriority
	}
}

// Registry is the program list. It is not safe for concurrent use.
type Registry struct {
	store       Store
	entries     []Entry
	minPriority int
	maxPriority int
}

// New returns an empty registry that saves to store. store may be nil
// for an in-memory registry.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store:       store,
		minPriority: 1,
		maxPriority: 10,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.minPriority < 1 {
		r.minPriority = 1
	}
	if r.maxPriority < r.minPriority {
		r.maxPriority = r.minPriority
	}
	return r
}

// Open returns a registry populated from store. Load failures are logged
// and yield an empty registry.
func Open(store Store, opts ...Option) *Registry {
	r := New(store, opts...)
	if store == nil {
		return r
	}

	entries, err := store.Load()
	if err != nil {
		log.ErrorErr(log.CatRegistry, "load failed, starting empty", err)
		return r
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			log.Warn(log.CatRegistry, "skipping duplicate entry", "path", e.Path)
			continue
		}
		seen[e.Path] = true

		if clamped := r.clamp(e.Priority); clamped != e.Priority {
			log.Warn(log.CatRegistry, "priority clamped", "path", e.Path, "from", e.Priority, "to", clamped)
			e.Priority = clamped
		}
		r.entries = append(r.entries, e)
	}

	log.Debug(log.CatRegistry, "loaded", "count", len(r.entries))
	return r
}

// Limits returns the accepted priority range.
func (r *Registry) Limits() (minPriority, maxPriority int) {
	return r.minPriority, r.maxPriority
}

// Entries returns a copy of the entries in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered programs.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Find returns the entry registered under path.
func (r *Registry) Find(path string) (Entry, bool) {
	if i := r.lookup(path); i >= 0 {
		return r.entries[i], true
	}
	return Entry{}, false
}

// Add registers path. The path must exist; duplicates are rejected
// without touching the registry.
func (r *Registry) Add(path string) (AddResult, error) {
	path = normalize(path)

	if _, err := os.Stat(path); err != nil {
		return PathNotFound, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if r.index(path) >= 0 {
		return AlreadyExists, fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	}

	entry := NewEntry(path)
	r.entries = append(r.entries, entry)
	log.Info(log.CatRegistry, "added program", "name", entry.Name, "path", path)

	r.persist()
	return Added, nil
}

// Remove unregisters path and reports whether it was present.
func (r *Registry) Remove(path string) bool {
	i := r.lookup(path)
	if i < 0 {
		return false
	}

	removed := r.entries[i]
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	log.Info(log.CatRegistry, "removed program", "path", removed.Path)

	r.persist()
	return true
}

// SetPriority sets the weight of path. Values outside Limits are
// rejected, never clamped.
func (r *Registry) SetPriority(path string, priority int) error {
	if priority < r.minPriority || priority > r.maxPriority {
		return fmt.Errorf("%w: %d not within [%d, %d]", ErrPriorityOutOfRange, priority, r.minPriority, r.maxPriority)
	}

	i := r.lookup(path)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	r.entries[i].Priority = priority
	log.Info(log.CatRegistry, "priority set", "path", r.entries[i].Path, "priority", priority)

	r.persist()
	return nil
}

// ResetPriorities sets every priority back to 1.
func (r *Registry) ResetPriorities() {
	for i := range r.entries {
		r.entries[i].Priority = DefaultPriority
	}
	log.Info(log.CatRegistry, "priorities reset", "count", len(r.entries))

	r.persist()
}

// SetEnabled toggles whether path takes part in selection.
func (r *Registry) SetEnabled(path string, enabled bool) error {
	i := r.lookup(path)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	r.entries[i].Enabled = enabled
	log.Info(log.CatRegistry, "enabled set", "path", r.entries[i].Path, "enabled", enabled)

	r.persist()
	return nil
}

// Save writes the entries to the store.
func (r *Registry) Save() error {
	if r.store == nil {
		return nil
	}
	return r.store.Save(r.entries)
}

// Close saves one last time; the error is logged, not returned.
func (r *Registry) Close() {
	r.persist()
}

// persist saves and logs failures; persistence is best-effort.
func (r *Registry) persist() {
	if err := r.Save(); err != nil {
		log.ErrorErr(log.CatRegistry, "save failed", err)
	}
}

func (r *Registry) clamp(priority int) int {
	return max(r.minPriority, min(priority, r.maxPriority))
}

func (r *Registry) index(path string) int {
	for i, e := range r.entries {
		if e.Path == path {
			return i
		}
	}
	return -1
}

// lookup matches path as given, then in normalized form.
func (r *Registry) lookup(path string) int {
	if i := r.index(path); i >= 0 {
		return i
	}
	return r.index(normalize(path))
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
