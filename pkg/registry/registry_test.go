package registry

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvim-tech/rl/internal/log"
)

// memStore records saves and can be told to fail.
type memStore struct {
	entries []Entry
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() ([]Entry, error) {
	if m.loadErr != nil {
		return []Entry{}, m.loadErr
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memStore) Save(entries []Entry) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = append([]Entry(nil), entries...)
	return nil
}

// touch creates an empty file and returns its path.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestAdd_NewProgram(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "game.sh")
	store := &memStore{}
	r := New(store)

	result, err := r.Add(path)
	require.NoError(t, err)
	assert.Equal(t, Added, result)

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Name: "game.sh", Path: path, Enabled: true, Priority: 1}, entries[0])
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, entries, store.entries)
}

func TestAdd_DuplicateReportsAlreadyExists(t *testing.T) {
	path := touch(t, t.TempDir(), "app")
	store := &memStore{}
	r := New(store)

	_, err := r.Add(path)
	require.NoError(t, err)

	result, err := r.Add(path)
	assert.Equal(t, AlreadyExists, result)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, store.saves, "rejected add must not save")
}

func TestAdd_RelativeDuplicateDetected(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "app")
	t.Chdir(dir)

	r := New(nil)
	_, err := r.Add("app")
	require.NoError(t, err)

	result, err := r.Add("./app")
	assert.Equal(t, AlreadyExists, result)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAdd_MissingPath(t *testing.T) {
	r := New(nil)

	result, err := r.Add(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, PathNotFound, result)
	require.ErrorIs(t, err, ErrPathNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	r := New(nil)
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		_, err := r.Add(touch(t, dir, name))
		require.NoError(t, err)
	}

	var got []string
	for _, e := range r.Entries() {
		got = append(got, e.Name)
	}
	assert.Equal(t, names, got)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "a")
	b := touch(t, dir, "b")
	store := &memStore{}
	r := New(store)
	_, _ = r.Add(a)
	_, _ = r.Add(b)

	assert.True(t, r.Remove(a))
	require.Equal(t, 1, r.Len())
	assert.Equal(t, b, r.Entries()[0].Path)
	assert.Equal(t, 3, store.saves)

	assert.False(t, r.Remove(a), "absent path is a no-op")
	assert.Equal(t, 3, store.saves)
}

func TestSetPriority(t *testing.T) {
	path := touch(t, t.TempDir(), "a")
	store := &memStore{}
	r := New(store)
	_, _ = r.Add(path)

	require.NoError(t, r.SetPriority(path, 7))
	e, ok := r.Find(path)
	require.True(t, ok)
	assert.Equal(t, 7, e.Priority)
	assert.Equal(t, 7, store.entries[0].Priority)
}

func TestSetPriority_OutOfRangeRejected(t *testing.T) {
	path := touch(t, t.TempDir(), "a")
	r := New(nil)
	_, _ = r.Add(path)

	for _, v := range []int{0, -1, 11, 100} {
		err := r.SetPriority(path, v)
		require.ErrorIs(t, err, ErrPriorityOutOfRange, "value %d", v)
		assert.True(t, IsValidation(err))
	}

	e, _ := r.Find(path)
	assert.Equal(t, 1, e.Priority, "rejected values leave priority unchanged")

	require.NoError(t, r.SetPriority(path, 1))
	require.NoError(t, r.SetPriority(path, 10))
}

func TestSetPriority_CustomRange(t *testing.T) {
	path := touch(t, t.TempDir(), "a")
	r := New(nil, WithPriorityRange(2, 4))
	_, _ = r.Add(path)

	minP, maxP := r.Limits()
	assert.Equal(t, 2, minP)
	assert.Equal(t, 4, maxP)
	require.ErrorIs(t, r.SetPriority(path, 1), ErrPriorityOutOfRange)
	require.ErrorIs(t, r.SetPriority(path, 5), ErrPriorityOutOfRange)
	require.NoError(t, r.SetPriority(path, 3))
}

func TestNew_SanitizesRange(t *testing.T) {
	r := New(nil, WithPriorityRange(0, -5))
	minP, maxP := r.Limits()
	assert.Equal(t, 1, minP)
	assert.Equal(t, 1, maxP)
}

func TestSetPriority_UnknownPath(t *testing.T) {
	r := New(nil)
	err := r.SetPriority("/nope", 3)
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsValidation(err))
}

func TestResetPriorities(t *testing.T) {
	dir := t.TempDir()
	r := New(nil)
	for i, name := range []string{"a", "b", "c"} {
		path := touch(t, dir, name)
		_, _ = r.Add(path)
		require.NoError(t, r.SetPriority(path, i+3))
	}

	r.ResetPriorities()
	for _, e := range r.Entries() {
		assert.Equal(t, 1, e.Priority, e.Path)
	}
}

func TestSetEnabled(t *testing.T) {
	path := touch(t, t.TempDir(), "a")
	r := New(nil)
	_, _ = r.Add(path)

	require.NoError(t, r.SetEnabled(path, false))
	e, _ := r.Find(path)
	assert.False(t, e.Enabled)

	require.NoError(t, r.SetEnabled(path, true))
	e, _ = r.Find(path)
	assert.True(t, e.Enabled)

	require.ErrorIs(t, r.SetEnabled("/nope", false), ErrNotFound)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	path := touch(t, t.TempDir(), "a")
	r := New(nil)
	_, _ = r.Add(path)

	entries := r.Entries()
	entries[0].Priority = 9

	e, _ := r.Find(path)
	assert.Equal(t, 1, e.Priority)
}

func TestOpen_LoadFailureStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	log.InitWriter(&buf)
	t.Cleanup(log.Reset)

	store := &memStore{loadErr: &PersistenceError{Op: "load", Path: "x", Err: errors.New("bad json")}}
	r := Open(store)

	assert.Equal(t, 0, r.Len())
	assert.Contains(t, buf.String(), "load failed")
}

func TestOpen_ClampsAndDeduplicates(t *testing.T) {
	store := &memStore{entries: []Entry{
		{Name: "a", Path: "/a", Enabled: true, Priority: 0},
		{Name: "b", Path: "/b", Enabled: true, Priority: 42},
		{Name: "a2", Path: "/a", Enabled: false, Priority: 2},
	}}

	r := Open(store)
	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Priority)
	assert.Equal(t, 10, entries[1].Priority)
	assert.Equal(t, "a", entries[0].Name)
}

func TestSaveFailureIsSwallowedByMutations(t *testing.T) {
	var buf bytes.Buffer
	log.InitWriter(&buf)
	t.Cleanup(log.Reset)

	path := touch(t, t.TempDir(), "a")
	store := &memStore{saveErr: errors.New("disk full")}
	r := New(store)

	result, err := r.Add(path)
	require.NoError(t, err)
	assert.Equal(t, Added, result)
	assert.Equal(t, 1, r.Len())
	assert.Contains(t, buf.String(), "save failed")

	// The explicit call surfaces the error
	require.Error(t, r.Save())
	require.NotPanics(t, r.Close)
}

func TestOpen_FileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "programs.json")
	a := touch(t, dir, "a")
	b := touch(t, dir, "b")

	r := Open(NewFileStore(storePath))
	_, _ = r.Add(a)
	_, _ = r.Add(b)
	require.NoError(t, r.SetPriority(b, 5))
	require.NoError(t, r.SetEnabled(a, false))
	r.Close()

	reopened := Open(NewFileStore(storePath))
	assert.Equal(t, r.Entries(), reopened.Entries())
}

func TestNilStore(t *testing.T) {
	r := Open(nil)
	require.NoError(t, r.Save())
	assert.Equal(t, 0, r.Len())
}

func TestAddResult_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "already exists", AlreadyExists.String())
	assert.Equal(t, "path not found", PathNotFound.String())
	assert.Equal(t, "unknown", AddResult(99).String())
}
