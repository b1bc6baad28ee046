package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"snapkeep/internal/snap"
)

// MemContainer implements snap.Container over a MemFilesystem: Create
// records the source file's bytes under the archive path, Extract writes
// them back out under the archive's unlabeled name.
type MemContainer struct {
	fsys *MemFilesystem
}

// NewMemContainer creates a container storing archives in fsys.
func NewMemContainer(fsys *MemFilesystem) *MemContainer {
	return &MemContainer{fsys: fsys}
}

func (c *MemContainer) Create(sourcePath, archivePath string, _ snap.CompressionHint) error {
	content, ok := c.fsys.Content(sourcePath)
	if !ok {
		return fmt.Errorf("opening source %s: %w", sourcePath, fs.ErrNotExist)
	}
	mtime, err := c.fsys.ModTime(sourcePath)
	if err != nil {
		return err
	}
	c.fsys.AddFile(archivePath, content, mtime)
	return nil
}

func (c *MemContainer) Extract(archivePath, destDir string) error {
	a, err := snap.ParseName(filepath.Dir(archivePath), filepath.Base(archivePath))
	if err != nil {
		return err
	}
	content, ok := c.fsys.Content(archivePath)
	if !ok {
		return fmt.Errorf("opening archive %s: %w", archivePath, fs.ErrNotExist)
	}

	destPath := filepath.Join(destDir, a.UnlabeledName)
	if c.fsys.IsFile(destPath) {
		return fmt.Errorf("%w: %s", snap.ErrTargetExists, destPath)
	}
	c.fsys.AddFile(destPath, content, a.Timestamp)
	return nil
}

// Compile-time check that MemContainer implements snap.Container.
var _ snap.Container = (*MemContainer)(nil)
