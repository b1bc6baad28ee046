package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDryRunFilesystem(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(existing, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	d := NewDryRunFilesystem(NewOSFilesystem())

	t.Run("reads pass through", func(t *testing.T) {
		entries, err := d.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Name != "a.txt" {
			t.Errorf("ReadDir() = %v", entries)
		}
		got, err := d.ModTime(existing)
		if err != nil {
			t.Fatalf("ModTime() error = %v", err)
		}
		if !got.Equal(mtime) {
			t.Errorf("ModTime() = %v, want %v", got, mtime)
		}
		if !d.IsDir(dir) || !d.IsFile(existing) {
			t.Error("IsDir/IsFile did not pass through")
		}
	})

	t.Run("mutations are no-ops", func(t *testing.T) {
		if err := d.MkdirAll(filepath.Join(dir, "new")); err != nil {
			t.Errorf("MkdirAll() error = %v", err)
		}
		if err := d.CreateEmpty(filepath.Join(dir, "marker")); err != nil {
			t.Errorf("CreateEmpty() error = %v", err)
		}
		if err := d.Remove(existing); err != nil {
			t.Errorf("Remove() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "a.txt" {
			t.Errorf("dry run mutated the tree: %v", entries)
		}
	})
}

func TestOSFilesystemCreateEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marker")
	f := NewOSFilesystem()

	if err := f.CreateEmpty(path); err != nil {
		t.Fatalf("CreateEmpty() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("earlier content"), 0644); err != nil {
		t.Fatal(err)
	}

	// A second create must not truncate the existing file.
	if err := f.CreateEmpty(path); err != nil {
		t.Fatalf("second CreateEmpty() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "earlier content" {
		t.Errorf("CreateEmpty() truncated an existing file: %q", content)
	}
}

func TestOSFilesystemModTimeBrokenLink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "missing"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	f := NewOSFilesystem()
	entries, err := f.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ReadDir() = %v, want the dangling link listed", entries)
	}
	if _, err := f.ModTime(link); err == nil {
		t.Error("ModTime() succeeded on a dangling link")
	}
}
