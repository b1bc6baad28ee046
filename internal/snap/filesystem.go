package snap

import "time"

// Entry is a single directory entry as seen by the engine.
type Entry struct {
	Name  string
	IsDir bool
}

// Filesystem abstracts the directory operations the engine performs, so the
// tracker, pruner and resolver can be exercised against an in-memory tree
// as well as the real filesystem.
type Filesystem interface {
	// ReadDir lists a directory non-recursively.
	ReadDir(dir string) ([]Entry, error)

	// ModTime returns a file's last-modified time. It fails for paths
	// that cannot be stat'ed, e.g. broken symbolic links.
	ModTime(path string) (time.Time, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool

	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool

	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(dir string) error

	// CreateEmpty creates an empty file. An already existing file is left
	// untouched: the earlier archive wins.
	CreateEmpty(path string) error

	// Remove deletes a file or an empty directory.
	Remove(path string) error
}

// CompressionHint tells the container whether a file's bytes are worth
// compressing. It is an external policy decision keyed off the filename;
// the engine only passes it through.
type CompressionHint int

const (
	HintCompress CompressionHint = iota
	HintStore
)

// Container is the external archive-container collaborator that stores and
// materializes file bytes. Create must make the archive visible atomically
// under its final name, or not at all.
type Container interface {
	// Create writes a self-contained container holding one file's bytes.
	Create(sourcePath, archivePath string, hint CompressionHint) error

	// Extract materializes the contained file into destDir. It fails with
	// ErrTargetExists when a file of that name is already there.
	Extract(archivePath, destDir string) error
}
