package snap_test

import (
	"time"

	"snapkeep/internal/snap"
	"snapkeep/internal/testutil"
)

// testService wires a Service to in-memory fakes sharing one filesystem.
type testService struct {
	svc   *snap.Service
	fsys  *testutil.MemFilesystem
	clock *testutil.StubClock
}

func newTestService(opts snap.Options) *testService {
	fsys := testutil.NewMemFilesystem()
	clock := testutil.FixedClock()
	return &testService{
		svc:   snap.NewService(fsys, testutil.NewMemContainer(fsys), clock, nil, nil, opts),
		fsys:  fsys,
		clock: clock,
	}
}

func utc(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}
