package snap

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ResolveAt selects the version of a group that was in force at the given
// instant: the archive with the maximum timestamp strictly before at. An
// archive created at exactly at does not exist yet. ok is false when the
// file did not exist at all at that time.
func ResolveAt(group []Archive, at time.Time) (Archive, bool) {
	var best Archive
	found := false
	for _, a := range group {
		if !a.Timestamp.Before(at) {
			continue
		}
		if !found || newer(a, best) {
			best = a
			found = true
		}
	}
	return best, found
}

// Restore reconstructs the archived tree's state as of the given instant
// into target. target must be empty or absent. Per version group the
// resolver picks the newest version strictly older than at; deletion
// markers produce nothing. Target directories are created lazily, only when
// a first real file is about to be written into them, so the snapshot never
// contains empty directories.
//
// Extraction collisions are logged and skipped: a restore is best-effort,
// not all-or-nothing.
func (s *Service) Restore(source, target string, at time.Time) (Stats, error) {
	var st Stats

	if !s.fsys.IsDir(source) {
		return st, fmt.Errorf("not a directory: %s", source)
	}
	if s.fsys.IsDir(target) {
		entries, err := s.fsys.ReadDir(target)
		if err != nil {
			return st, err
		}
		if len(entries) > 0 {
			return st, fmt.Errorf("target directory is not empty: %s", target)
		}
	}

	s.logger.Info("restore started",
		"source", source, "target", target, "at", at.UTC().Format(time.RFC3339))

	err := s.walkDirs(source, func(dir string, subdirs, files []string) error {
		rel, err := filepath.Rel(source, dir)
		if err != nil {
			return err
		}
		targetDir := filepath.Join(target, rel)
		targetDirReady := false

		var archives []Archive
		for _, name := range files {
			a, err := ParseName(dir, name)
			if err != nil {
				continue
			}
			archives = append(archives, a)
		}

		versions := GroupByName(archives)
		for _, name := range sortedNames(versions) {
			candidate, ok := ResolveAt(versions[name], at)
			if !ok {
				continue // did not exist yet at the snapshot time
			}
			if candidate.Kind == KindDeletionMarker {
				s.logger.Debug("deleted at snapshot time", "path", candidate.UnlabeledPath())
				continue
			}

			if !targetDirReady && !s.fsys.IsDir(targetDir) {
				if err := s.fsys.MkdirAll(targetDir); err != nil {
					return err
				}
				s.logger.Op("created", "path", targetDir)
			}
			targetDirReady = true

			if err := s.container.Extract(candidate.Path(), targetDir); err != nil {
				if errors.Is(err, ErrTargetExists) {
					s.logger.Error("could not restore",
						"path", filepath.Join(targetDir, name), "error", err)
					st.Errors++
					continue
				}
				return err
			}
			st.Restored++
			s.logger.Op("restored", "path", filepath.Join(targetDir, name))
		}
		return nil
	})

	s.logger.Info("restore finished", "restored", st.Restored, "errors", st.Errors)
	return st, err
}
