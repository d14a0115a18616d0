package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

// Store persists the full entry list.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// FileStore keeps the entries as a JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// storedEntry is the on-disk record; optional fields are pointers so a
// missing key can be told apart from its zero value.
type storedEntry struct {
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	Enabled  *bool  `mapstructure:"enabled"`
	Priority *int   `mapstructure:"priority"`
}

// Load reads the file. A missing file is an empty registry. Any read or
// parse failure returns an empty slice together with a *PersistenceError.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return []Entry{}, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return []Entry{}, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	return entries, nil
}

func decodeEntries(data []byte) ([]Entry, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, record := range raw {
		var stored storedEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &stored,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if stored.Path == "" {
			return nil, fmt.Errorf("record %d: missing path", i)
		}

		entry := NewEntry(stored.Path)
		if stored.Name != "" {
			entry.Name = stored.Name
		}
		if stored.Enabled != nil {
			entry.Enabled = *stored.Enabled
		}
		if stored.Priority != nil {
			entry.Priority = *stored.Priority
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Save overwrites the file with entries. The write goes to a temporary
// file in the same directory which is then renamed over the target.
func (s *FileStore) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(entries); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}
