package snap

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// errSkipDir tells walkDirs not to descend into the current directory.
var errSkipDir = errors.New("skip directory")

// Backup runs the full pass over every configured directory pair: per
// source directory, deletion marking, per-file archiving, then pruning. A
// pair that fails is reported and skipped; the run continues with the next
// one. The returned error joins all per-pair failures.
func (s *Service) Backup(pairs []DirPair) (Stats, error) {
	var st Stats
	var errs []error

	s.logger.Info("backup started", "pairs", len(pairs))
	for _, pair := range pairs {
		if !s.fsys.IsDir(pair.Source) {
			s.logger.Error("source is not a directory", "path", pair.Source)
			st.Errors++
			errs = append(errs, fmt.Errorf("source is not a directory: %s", pair.Source))
			continue
		}
		if err := s.backupPair(pair.Source, pair.Target, &st); err != nil {
			s.logger.Error("pair failed", "source", pair.Source, "error", err)
			st.Errors++
			errs = append(errs, fmt.Errorf("backing up %s: %w", pair.Source, err))
		}
	}
	s.logger.Info("backup finished",
		"archived", st.Archived, "marked", st.Marked, "pruned", st.Pruned, "skipped", st.Skipped)
	return st, errors.Join(errs...)
}

// backupPair backs up one source tree into its mirrored target tree.
func (s *Service) backupPair(source, target string, st *Stats) error {
	now := s.clock.Now().UTC()
	deleteBefore, trustedBefore := s.opts.Policy.CutoffsAt(now)

	total, err := s.countFiles(source)
	if err != nil {
		return err
	}
	s.progress.Begin(total)
	defer s.progress.End()

	// Target dirs seen by this pass; anything else found in the target
	// tree afterwards is a leftover candidate.
	visited := make(map[string]bool)

	err = s.walkDirs(source, func(dir string, subdirs, files []string) error {
		if s.opts.ExcludeDirs.Match(dir) {
			if s.opts.ReportSkipped {
				s.logger.Info("skipped", "path", dir)
			}
			st.Skipped += len(files)
			s.progress.Advance(len(files))
			return errSkipDir
		}

		rel, err := filepath.Rel(source, dir)
		if err != nil {
			return err
		}
		targetDir := filepath.Join(target, rel)
		visited[targetDir] = true

		if !s.fsys.IsDir(targetDir) {
			if err := s.fsys.MkdirAll(targetDir); err != nil {
				return err
			}
			s.logger.Op("created", "path", targetDir)
		} else if err := s.MarkDeleted(dir, targetDir, st); err != nil {
			return err
		}

		for _, name := range files {
			path := filepath.Join(dir, name)
			if s.opts.ExcludeFiles.Match(path) {
				if s.opts.ReportSkipped {
					s.logger.Info("skipped", "path", path)
				}
				st.Skipped++
				s.progress.Advance(1)
				continue
			}
			if err := s.archiveFile(path, targetDir, st); err != nil {
				return err
			}
			s.progress.Advance(1)
		}

		return s.PruneDir(targetDir, deleteBefore, trustedBefore, st)
	})
	if err != nil {
		return err
	}

	return s.removeLeftoverDirs(source, target, visited, st)
}

// archiveFile writes a new labeled version of a source file unless one with
// the same modification timestamp already exists. Labels carry second
// resolution, so a second change within the same second is absorbed by the
// first: the earlier archive wins and the later content is not recorded.
func (s *Service) archiveFile(sourcePath, targetDir string, st *Stats) error {
	mtime, err := s.fsys.ModTime(sourcePath)
	if err != nil {
		// Broken link or otherwise unreadable source: skip and continue.
		s.logger.Warn("source unreadable", "path", sourcePath, "error", err)
		st.Skipped++
		return nil
	}

	a := Archive{
		Dir:           targetDir,
		UnlabeledName: filepath.Base(sourcePath),
		Timestamp:     mtime.UTC().Truncate(time.Second),
		Kind:          KindRegular,
	}
	if s.fsys.IsFile(a.Path()) {
		return nil // this version is already archived
	}

	if err := s.container.Create(sourcePath, a.Path(), s.opts.Hint(a.UnlabeledName)); err != nil {
		return err
	}
	st.Archived++
	s.logger.Op("backed up", "path", sourcePath)
	return nil
}

// removeLeftoverDirs deletes empty target directories the pass did not
// visit and that have no corresponding source directory. Only already-empty
// directories go in one pass; a parent emptied by this cleanup is picked up
// on the next run.
func (s *Service) removeLeftoverDirs(source, target string, visited map[string]bool, st *Stats) error {
	if !s.fsys.IsDir(target) {
		return nil
	}
	return s.walkDirs(target, func(dir string, subdirs, files []string) error {
		if visited[dir] || len(subdirs) > 0 || len(files) > 0 {
			return nil
		}
		rel, err := filepath.Rel(target, dir)
		if err != nil {
			return err
		}
		if s.fsys.IsDir(filepath.Join(source, rel)) {
			return nil
		}
		if err := s.fsys.Remove(dir); err != nil {
			return err
		}
		s.logger.Op("deleted", "path", dir)
		return nil
	})
}

// walkDirs walks the tree rooted at root top-down, calling fn once per
// directory with its immediate subdirectory and file names in sorted order.
// fn may return errSkipDir to prune descent.
func (s *Service) walkDirs(root string, fn func(dir string, subdirs, files []string) error) error {
	entries, err := s.fsys.ReadDir(root)
	if err != nil {
		return err
	}

	var subdirs, files []string
	for _, e := range entries {
		if e.IsDir {
			subdirs = append(subdirs, e.Name)
		} else {
			files = append(files, e.Name)
		}
	}
	sort.Strings(subdirs)
	sort.Strings(files)

	if err := fn(root, subdirs, files); err != nil {
		if errors.Is(err, errSkipDir) {
			return nil
		}
		return err
	}

	for _, name := range subdirs {
		if err := s.walkDirs(filepath.Join(root, name), fn); err != nil {
			return err
		}
	}
	return nil
}

// countFiles counts the files a backup pass will consider, for progress
// reporting.
func (s *Service) countFiles(root string) (int, error) {
	total := 0
	err := s.walkDirs(root, func(dir string, subdirs, files []string) error {
		total += len(files)
		return nil
	})
	return total, err
}
