package snap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// LabelSeparator joins the original filename and the version label.
	// It is reserved: constructed labels contain it exactly once after the
	// original name. Original filenames containing it are not defended
	// against; parsing splits on the last occurrence.
	LabelSeparator = "@"

	// labelTimeFormat renders label timestamps in UTC at second
	// resolution with a literal trailing Z.
	labelTimeFormat = "20060102-150405Z"

	// RegularExt is the extension of content-bearing archives.
	RegularExt = ".zip"

	// MarkerExt is the extension of deletion markers.
	MarkerExt = ".deleted"
)

// Kind distinguishes content-bearing archives from deletion markers.
type Kind int

const (
	// KindRegular is a stored version of the original file.
	KindRegular Kind = iota
	// KindDeletionMarker is a zero-content tombstone recording that the
	// original item was absent from source as of the marker's timestamp.
	KindDeletionMarker
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDeletionMarker:
		return "deletion marker"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Archive is one timestamped, labeled version of an original file,
// identified by (Dir, UnlabeledName, Timestamp, Kind). Timestamps are UTC
// at second resolution, as encoded in the label.
type Archive struct {
	Dir           string
	UnlabeledName string
	Timestamp     time.Time
	Kind          Kind
}

// LabeledName returns the archive's on-disk filename.
func (a Archive) LabeledName() string {
	return FormatLabel(a.UnlabeledName, a.Timestamp, a.Kind)
}

// Path returns the archive's full path.
func (a Archive) Path() string {
	return filepath.Join(a.Dir, a.LabeledName())
}

// UnlabeledPath addresses the conceptual original item independent of
// version: the archive's directory joined with its unlabeled name.
func (a Archive) UnlabeledPath() string {
	return filepath.Join(a.Dir, a.UnlabeledName)
}

// FormatLabel builds the archive filename for an original filename, a
// timestamp and a kind: <name><sep><YYYYMMDD-HHMMSSZ><ext>. The timestamp
// is rendered in UTC at second resolution.
func FormatLabel(unlabeledName string, ts time.Time, kind Kind) string {
	ext := RegularExt
	if kind == KindDeletionMarker {
		ext = MarkerExt
	}
	return unlabeledName + LabelSeparator + ts.UTC().Format(labelTimeFormat) + ext
}

// ParseName parses a directory entry name into an Archive. The unlabeled
// name is recovered by splitting on the last occurrence of the separator;
// the remainder must be a valid label timestamp plus a known extension.
// Names that don't match report ErrNotAnArchive.
func ParseName(dir, fileName string) (Archive, error) {
	idx := strings.LastIndex(fileName, LabelSeparator)
	if idx < 0 {
		return Archive{}, fmt.Errorf("%w: %s", ErrNotAnArchive, fileName)
	}
	unlabeled := fileName[:idx]
	label := fileName[idx+len(LabelSeparator):]

	ext := filepath.Ext(label)
	var kind Kind
	switch ext {
	case RegularExt:
		kind = KindRegular
	case MarkerExt:
		kind = KindDeletionMarker
	default:
		return Archive{}, fmt.Errorf("%w: unknown extension %q in %s", ErrNotAnArchive, ext, fileName)
	}

	stamp := strings.TrimSuffix(label, ext)
	ts, err := time.ParseInLocation(labelTimeFormat, stamp, time.UTC)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: bad timestamp %q in %s", ErrNotAnArchive, stamp, fileName)
	}

	return Archive{
		Dir:           dir,
		UnlabeledName: unlabeled,
		Timestamp:     ts,
		Kind:          kind,
	}, nil
}
