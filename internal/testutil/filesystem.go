// Package testutil provides in-memory fakes for exercising the engine
// against fixture trees without touching the real filesystem.
package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"snapkeep/internal/snap"
)

type memFile struct {
	content []byte
	modTime time.Time
}

// MemFilesystem is an in-memory implementation of snap.Filesystem.
// Paths are absolute, slash-separated ("/src/docs/a.txt").
type MemFilesystem struct {
	mu         sync.Mutex
	dirs       map[string]bool
	files      map[string]memFile
	unreadable map[string]bool // listed but failing ModTime, like a broken link
}

// NewMemFilesystem creates an empty in-memory filesystem containing only
// the root directory.
func NewMemFilesystem() *MemFilesystem {
	return &MemFilesystem{
		dirs:       map[string]bool{"/": true},
		files:      make(map[string]memFile),
		unreadable: make(map[string]bool),
	}
}

// AddDir creates a directory and any missing parents.
func (m *MemFilesystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(path)
}

func (m *MemFilesystem) addDirLocked(path string) {
	for path != "/" && path != "." && path != "" {
		m.dirs[path] = true
		path = filepath.Dir(path)
	}
}

// AddFile creates a file with the given content and modification time,
// creating parent directories as needed.
func (m *MemFilesystem) AddFile(path string, content []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(filepath.Dir(path))
	m.files[path] = memFile{content: append([]byte(nil), content...), modTime: modTime}
}

// AddArchive creates an empty file named after the given archive, for
// fixture trees built directly from Archive values.
func (m *MemFilesystem) AddArchive(a snap.Archive) {
	m.AddFile(a.Path(), nil, a.Timestamp)
}

// AddUnreadable creates a directory entry whose ModTime fails, simulating
// a broken symbolic link.
func (m *MemFilesystem) AddUnreadable(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(filepath.Dir(path))
	m.unreadable[path] = true
}

// Content returns a file's content.
func (m *MemFilesystem) Content(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.content...), true
}

// AllFiles returns the paths of every file, sorted.
func (m *MemFilesystem) AllFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemFilesystem) ReadDir(dir string) ([]snap.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirs[dir] {
		return nil, fmt.Errorf("reading %s: %w", dir, fs.ErrNotExist)
	}

	var entries []snap.Entry
	for d := range m.dirs {
		if d != dir && filepath.Dir(d) == dir {
			entries = append(entries, snap.Entry{Name: filepath.Base(d), IsDir: true})
		}
	}
	for f := range m.files {
		if filepath.Dir(f) == dir {
			entries = append(entries, snap.Entry{Name: filepath.Base(f)})
		}
	}
	for f := range m.unreadable {
		if filepath.Dir(f) == dir {
			entries = append(entries, snap.Entry{Name: filepath.Base(f)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *MemFilesystem) ModTime(path string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unreadable[path] {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}
	f, ok := m.files[path]
	if !ok {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}
	return f.modTime, nil
}

func (m *MemFilesystem) IsDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path]
}

func (m *MemFilesystem) IsFile(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *MemFilesystem) MkdirAll(dir string) error {
	m.AddDir(dir)
	return nil
}

func (m *MemFilesystem) CreateEmpty(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		return nil // the earlier file wins
	}
	if !m.dirs[filepath.Dir(path)] {
		return fmt.Errorf("creating %s: %w", path, fs.ErrNotExist)
	}
	m.files[path] = memFile{}
	return nil
}

func (m *MemFilesystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if m.unreadable[path] {
		delete(m.unreadable, path)
		return nil
	}
	if m.dirs[path] {
		for d := range m.dirs {
			if d != path && filepath.Dir(d) == path {
				return fmt.Errorf("removing %s: directory not empty", path)
			}
		}
		for f := range m.files {
			if filepath.Dir(f) == path {
				return fmt.Errorf("removing %s: directory not empty", path)
			}
		}
		delete(m.dirs, path)
		return nil
	}
	return fmt.Errorf("removing %s: %w", path, fs.ErrNotExist)
}

// Compile-time check that MemFilesystem implements snap.Filesystem.
var _ snap.Filesystem = (*MemFilesystem)(nil)
