package container

import (
	"path/filepath"
	"strings"

	"snapkeep/internal/snap"
)

// Extensions of formats that are already compressed and typically gain
// nothing from being compressed again; their archives are stored raw for
// speed.
var storedExts = map[string]bool{
	// Media
	"jpg": true, "jpeg": true, "mp3": true, "dng": true, "png": true,
	"mov": true, "avi": true, "pdf": true,
	// Archives
	"zip": true, "7z": true, "gz": true, "bz2": true,
}

// Hint returns the compression hint for a filename, keyed off its
// extension.
func Hint(name string) snap.CompressionHint {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if storedExts[ext] {
		return snap.HintStore
	}
	return snap.HintCompress
}
