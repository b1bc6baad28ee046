package snap

import (
	"path/filepath"
	"sort"
	"time"
)

// MarkDeleted compares sourceDir's live contents against targetDir's version
// catalog and records vanished items with deletion markers. It covers one
// directory level; recursion across live subdirectories is driven by the
// backup pass's walk. Marking is append-only: prior content archives stay in
// place, pruning handles their removal later.
func (s *Service) MarkDeleted(sourceDir, targetDir string, st *Stats) error {
	entries, err := s.fsys.ReadDir(targetDir)
	if err != nil {
		return err
	}

	var subdirs []string
	var archives []Archive
	for _, e := range entries {
		if e.IsDir {
			subdirs = append(subdirs, e.Name)
			continue
		}
		a, err := ParseName(targetDir, e.Name)
		if err != nil {
			continue
		}
		archives = append(archives, a)
	}

	// Target subdirectories whose source counterpart vanished: everything
	// beneath them is recorded as deleted.
	sort.Strings(subdirs)
	for _, name := range subdirs {
		if s.fsys.IsDir(filepath.Join(sourceDir, name)) {
			continue
		}
		changed, err := s.markSubtreeDeleted(filepath.Join(targetDir, name), st)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Op("marked deleted", "path", filepath.Join(sourceDir, name))
		}
	}

	// Groups whose latest recorded version is live but whose source file
	// vanished get one marker stamped at the current instant.
	latest := LatestPerGroup(archives)
	for _, name := range sortedNames(latest) {
		if latest[name].Kind == KindDeletionMarker {
			continue // already recorded as deleted
		}
		if s.fsys.IsFile(filepath.Join(sourceDir, name)) {
			continue
		}
		if err := s.writeMarker(targetDir, name, st); err != nil {
			return err
		}
		s.logger.Op("marked deleted", "path", filepath.Join(sourceDir, name))
	}
	return nil
}

// markSubtreeDeleted records every archive group under a removed directory
// as deleted. Groups whose latest version is already a marker are left
// alone so repeated runs do not push marker timestamps forward; recursion
// still descends to catch partially marked subtrees.
func (s *Service) markSubtreeDeleted(dir string, st *Stats) (bool, error) {
	entries, err := s.fsys.ReadDir(dir)
	if err != nil {
		return false, err
	}

	var subdirs []string
	var archives []Archive
	for _, e := range entries {
		if e.IsDir {
			subdirs = append(subdirs, e.Name)
			continue
		}
		a, err := ParseName(dir, e.Name)
		if err != nil {
			continue
		}
		archives = append(archives, a)
	}

	changed := false
	latest := LatestPerGroup(archives)
	for _, name := range sortedNames(latest) {
		if latest[name].Kind == KindDeletionMarker {
			continue
		}
		if err := s.writeMarker(dir, name, st); err != nil {
			return changed, err
		}
		changed = true
	}

	sort.Strings(subdirs)
	for _, name := range subdirs {
		sub, err := s.markSubtreeDeleted(filepath.Join(dir, name), st)
		if err != nil {
			return changed, err
		}
		changed = changed || sub
	}
	return changed, nil
}

// writeMarker creates one deletion marker for a group, stamped at the
// current UTC instant. A same-second collision with an existing marker is a
// no-op (the earlier archive wins).
func (s *Service) writeMarker(dir, unlabeledName string, st *Stats) error {
	marker := Archive{
		Dir:           dir,
		UnlabeledName: unlabeledName,
		Timestamp:     s.clock.Now().UTC().Truncate(time.Second),
		Kind:          KindDeletionMarker,
	}
	if err := s.fsys.CreateEmpty(marker.Path()); err != nil {
		return err
	}
	st.Marked++
	return nil
}
