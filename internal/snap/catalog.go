package snap

import "sort"

// ListArchives passes every entry of a directory through the label codec,
// non-recursively. Subdirectories and entries that are not archives are
// silently excluded.
func ListArchives(fsys Filesystem, dir string) ([]Archive, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var archives []Archive
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		a, err := ParseName(dir, e.Name)
		if err != nil {
			continue
		}
		archives = append(archives, a)
	}
	return archives, nil
}

// GroupByName groups archives by their unlabeled names. Each group is one
// original file's version timeline.
func GroupByName(archives []Archive) map[string][]Archive {
	versions := make(map[string][]Archive)
	for _, a := range archives {
		versions[a.UnlabeledName] = append(versions[a.UnlabeledName], a)
	}
	return versions
}

// Latest returns the archive in group with the maximum timestamp. Equal
// timestamps cannot occur under the one-version-per-second labeling
// invariant; should they anyway, the archive whose labeled name sorts
// lexicographically last wins, so the result is deterministic.
func Latest(group []Archive) (Archive, bool) {
	var best Archive
	found := false
	for _, a := range group {
		if !found || newer(a, best) {
			best = a
			found = true
		}
	}
	return best, found
}

// LatestPerGroup returns, per unlabeled name, the archive with the maximum
// timestamp.
func LatestPerGroup(archives []Archive) map[string]Archive {
	latest := make(map[string]Archive)
	for name, group := range GroupByName(archives) {
		if a, ok := Latest(group); ok {
			latest[name] = a
		}
	}
	return latest
}

// newer reports whether a supersedes b within one version group.
func newer(a, b Archive) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.LabeledName() > b.LabeledName()
}

// sortedNames returns the keys of a version map in lexicographic order, for
// reproducible iteration in logs and tests.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
