package snap_test

import (
	"testing"

	"snapkeep/internal/snap"
)

func TestRestore(t *testing.T) {
	jan := utc(2023, 1, 1, 0, 0, 0)
	jun := utc(2023, 6, 1, 0, 0, 0)
	sep := utc(2023, 9, 1, 0, 0, 0)

	// report.txt: created in January, rewritten in June, deleted in September.
	seed := func(ts *testService) {
		ts.fsys.AddFile(archiveAt("/dst", "report.txt", jan, snap.KindRegular).Path(), []byte("january"), jan)
		ts.fsys.AddFile(archiveAt("/dst", "report.txt", jun, snap.KindRegular).Path(), []byte("june"), jun)
		ts.fsys.AddArchive(archiveAt("/dst", "report.txt", sep, snap.KindDeletionMarker))
	}

	t.Run("restores the version in force at the snapshot time", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)

		st, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 1 {
			t.Errorf("Restored = %d, want 1", st.Restored)
		}
		content, ok := ts.fsys.Content("/out/report.txt")
		if !ok {
			t.Fatalf("restored file missing; files: %v", ts.fsys.AllFiles())
		}
		if string(content) != "june" {
			t.Errorf("restored content = %q, want %q", content, "june")
		}
	})

	t.Run("deleted at snapshot time produces nothing", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)

		st, err := ts.svc.Restore("/dst", "/out", utc(2023, 10, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 0 {
			t.Errorf("Restored = %d, want 0", st.Restored)
		}
		if ts.fsys.IsFile("/out/report.txt") {
			t.Error("deleted file was restored")
		}
	})

	t.Run("before first version produces nothing", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)

		st, err := ts.svc.Restore("/dst", "/out", utc(2022, 1, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 0 {
			t.Errorf("Restored = %d, want 0", st.Restored)
		}
	})

	t.Run("snapshot contains no empty directories", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)
		// A subtree that was fully deleted before the snapshot time.
		ts.fsys.AddArchive(archiveAt("/dst/old", "a.txt", jan, snap.KindRegular))
		ts.fsys.AddArchive(archiveAt("/dst/old", "a.txt", jun, snap.KindDeletionMarker))

		if _, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0)); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if ts.fsys.IsDir("/out/old") {
			t.Error("empty directory materialized in the snapshot")
		}
	})

	t.Run("restores nested directories lazily", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		ts.fsys.AddFile(archiveAt("/dst/docs/deep", "a.txt", jan, snap.KindRegular).Path(), []byte("x"), jan)

		st, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 1 {
			t.Errorf("Restored = %d, want 1", st.Restored)
		}
		if !ts.fsys.IsFile("/out/docs/deep/a.txt") {
			t.Errorf("nested file missing; files: %v", ts.fsys.AllFiles())
		}
	})

	t.Run("non-archive files in the source tree are ignored", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)
		ts.fsys.AddFile("/dst/README", []byte("hands off"), jan)

		st, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 1 {
			t.Errorf("Restored = %d, want 1", st.Restored)
		}
		if ts.fsys.IsFile("/out/README") {
			t.Error("non-archive file was restored")
		}
	})

	t.Run("refuses a non-empty target", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)
		ts.fsys.AddFile("/out/stale.txt", []byte("x"), jan)

		if _, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0)); err == nil {
			t.Fatal("Restore() accepted a non-empty target")
		}
	})

	t.Run("refuses a missing source", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		if _, err := ts.svc.Restore("/nowhere", "/out", utc(2023, 7, 1, 0, 0, 0)); err == nil {
			t.Fatal("Restore() accepted a missing source")
		}
	})

	t.Run("allows an empty existing target", func(t *testing.T) {
		ts := newTestService(snap.Options{})
		seed(ts)
		ts.fsys.AddDir("/out")

		st, err := ts.svc.Restore("/dst", "/out", utc(2023, 7, 1, 0, 0, 0))
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if st.Restored != 1 {
			t.Errorf("Restored = %d, want 1", st.Restored)
		}
	})
}
