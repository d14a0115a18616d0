package registry

import (
	"fmt"
	"path/filepath"
)

// DefaultPriority is the weight of a newly added program.
const DefaultPriority = 1

// Entry is one registered program.
type Entry struct {
	Name     string `json:"name" mapstructure:"name"`
	Path     string `json:"path" mapstructure:"path"`
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Priority int    `json:"priority" mapstructure:"priority"`
}

// NewEntry builds an enabled entry with the default priority, named
// after the base filename of path.
func NewEntry(path string) Entry {
	return Entry{
		Name:     filepath.Base(path),
		Path:     path,
		Enabled:  true,
		Priority: DefaultPriority,
	}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%s, priority %d)", e.Name, e.Path, e.Priority)
}

// AddResult is the outcome of Registry.Add.
type AddResult int

const (
	Added AddResult = iota
	AlreadyExists
	PathNotFound
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	case PathNotFound:
		return "path not found"
	default:
		return "unknown"
	}
}
