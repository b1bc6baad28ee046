package fs

import (
	"os"
	"time"

	"snapkeep/internal/snap"
)

// OSFilesystem implements snap.Filesystem against the real filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem manager that operates on the real
// filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// ReadDir lists a directory non-recursively.
func (*OSFilesystem) ReadDir(dir string) ([]snap.Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]snap.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, snap.Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

// ModTime returns a file's last-modified time. Broken symbolic links fail
// here, which the engine treats as an unreadable source.
func (*OSFilesystem) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// IsDir reports whether path exists and is a directory.
func (*OSFilesystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func (*OSFilesystem) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// MkdirAll creates a directory along with any missing parents.
func (*OSFilesystem) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// CreateEmpty creates an empty file. An already existing file is left
// untouched: the earlier archive wins.
func (*OSFilesystem) CreateEmpty(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	return f.Close()
}

// Remove deletes a file or an empty directory.
func (*OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

// Compile-time check that OSFilesystem implements snap.Filesystem.
var _ snap.Filesystem = (*OSFilesystem)(nil)
