package snap

import "errors"

// ErrNotAnArchive reports a filename that does not match the label format.
// It is a filtering signal: catalog listings silently exclude such entries,
// callers must not treat it as a failure.
var ErrNotAnArchive = errors.New("not an archive")

// ErrTargetExists reports a restore-time extraction collision: a file of
// that name already exists at the destination.
var ErrTargetExists = errors.New("target file already exists")
