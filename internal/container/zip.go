// Package container implements the archive-container collaborator: one zip
// file per archived version, holding exactly one member.
package container

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"snapkeep/internal/snap"
)

// ZipContainer stores one file per zip archive. Archives become visible
// atomically: content is written to a temporary name in the destination
// directory and renamed into place, so callers never observe a partially
// written archive.
type ZipContainer struct{}

// NewZipContainer creates a zip container.
func NewZipContainer() *ZipContainer {
	return &ZipContainer{}
}

// Create writes a zip archive holding the single source file. The hint
// selects deflate or plain store.
func (c *ZipContainer) Create(sourcePath, archivePath string, hint snap.CompressionHint) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	// Temp file in the destination directory so the final rename is atomic.
	dir := filepath.Dir(archivePath)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("building zip header: %w", err)
	}
	hdr.Name = filepath.Base(sourcePath)
	hdr.Method = zip.Deflate
	if hint == snap.HintStore {
		hdr.Method = zip.Store
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating zip member: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		zw.Close()
		tmp.Close()
		return fmt.Errorf("writing zip member: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalizing zip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		return fmt.Errorf("renaming archive into place: %w", err)
	}
	success = true
	return nil
}

// Extract materializes the archive's members into destDir, preserving the
// member modification times. It fails with snap.ErrTargetExists when a
// member's file already exists at the destination.
func (c *ZipContainer) Extract(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	for _, member := range r.File {
		// Members are stored by basename; flattening here also keeps
		// hostile archives from escaping destDir.
		destPath := filepath.Join(destDir, filepath.Base(member.Name))

		out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		if err != nil {
			if os.IsExist(err) {
				return fmt.Errorf("%w: %s", snap.ErrTargetExists, destPath)
			}
			return fmt.Errorf("creating output file: %w", err)
		}

		rc, err := member.Open()
		if err != nil {
			out.Close()
			os.Remove(destPath)
			return fmt.Errorf("opening zip member: %w", err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		if err := out.Close(); copyErr == nil {
			copyErr = err
		}
		if copyErr != nil {
			os.Remove(destPath)
			return fmt.Errorf("extracting %s: %w", member.Name, copyErr)
		}

		if !member.Modified.IsZero() {
			os.Chtimes(destPath, member.Modified, member.Modified)
		}
	}
	return nil
}

// Compile-time check that ZipContainer implements snap.Container.
var _ snap.Container = (*ZipContainer)(nil)
