package snap

import "time"

// PruneDir enforces the retention policy on one directory's version
// catalog. deleteBefore and trustedBefore are the cutoffs derived from the
// policy (see RetentionPolicy.CutoffsAt): a zero deleteBefore disables the
// sweep entirely, a zero trustedBefore treats every version as trusted.
//
// This is a generational sweep: each group's newest trusted version is
// protected regardless of age, everything else older than deleteBefore is
// deleted. Afterwards, groups whose surviving members are all deletion
// markers are removed entirely: once a tombstone has nothing left to
// protect and nothing a restore could resolve to, the file is fully
// forgotten.
func (s *Service) PruneDir(dir string, deleteBefore, trustedBefore time.Time, st *Stats) error {
	if deleteBefore.IsZero() {
		return nil
	}

	if !s.fsys.IsDir(dir) {
		// The directory may legitimately be absent, e.g. a dry run that
		// skipped creating it.
		return nil
	}
	archives, err := ListArchives(s.fsys, dir)
	if err != nil {
		return err
	}
	versions := GroupByName(archives)

	// Protected version per group: the newest trusted one, if any.
	protected := make(map[Archive]bool)
	for _, group := range versions {
		var best Archive
		found := false
		for _, a := range group {
			if !trustedBefore.IsZero() && !a.Timestamp.Before(trustedBefore) {
				continue // too recent to trust
			}
			if !found || newer(a, best) {
				best = a
				found = true
			}
		}
		if found {
			protected[best] = true
		}
	}

	// Sweep aged-out versions.
	survivors := make(map[string][]Archive)
	for _, name := range sortedNames(versions) {
		for _, a := range versions[name] {
			if a.Timestamp.Before(deleteBefore) && !protected[a] {
				if err := s.fsys.Remove(a.Path()); err != nil {
					return err
				}
				st.Pruned++
				s.logger.Op("pruned", "path", a.Path())
				continue
			}
			survivors[name] = append(survivors[name], a)
		}
	}

	// Tombstone cleanup.
	for _, name := range sortedNames(survivors) {
		group := survivors[name]
		onlyMarkers := true
		for _, a := range group {
			if a.Kind != KindDeletionMarker {
				onlyMarkers = false
				break
			}
		}
		if !onlyMarkers {
			continue
		}
		for _, a := range group {
			if err := s.fsys.Remove(a.Path()); err != nil {
				return err
			}
			st.Pruned++
			s.logger.Op("pruned", "path", a.Path())
		}
	}
	return nil
}
