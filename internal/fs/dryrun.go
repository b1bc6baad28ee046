package fs

import (
	"time"

	"snapkeep/internal/snap"
)

// DryRunFilesystem answers reads from the wrapped filesystem and turns
// every mutation into a no-op, so a simulated run reports the operations it
// would perform without touching the tree.
type DryRunFilesystem struct {
	inner snap.Filesystem
}

// NewDryRunFilesystem wraps inner in a read-only view.
func NewDryRunFilesystem(inner snap.Filesystem) *DryRunFilesystem {
	return &DryRunFilesystem{inner: inner}
}

func (d *DryRunFilesystem) ReadDir(dir string) ([]snap.Entry, error) { return d.inner.ReadDir(dir) }

func (d *DryRunFilesystem) ModTime(path string) (time.Time, error) { return d.inner.ModTime(path) }

func (d *DryRunFilesystem) IsDir(path string) bool { return d.inner.IsDir(path) }

func (d *DryRunFilesystem) IsFile(path string) bool { return d.inner.IsFile(path) }

func (*DryRunFilesystem) MkdirAll(string) error { return nil }

func (*DryRunFilesystem) CreateEmpty(string) error { return nil }

func (*DryRunFilesystem) Remove(string) error { return nil }

var _ snap.Filesystem = (*DryRunFilesystem)(nil)
