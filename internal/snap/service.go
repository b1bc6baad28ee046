package snap

// DirPair is one (source, target) backup mapping: the target directory tree
// mirrors the source tree 1:1 and holds its labeled archive versions.
type DirPair struct {
	Source string
	Target string
}

// Stats counts the file operations performed by a run.
type Stats struct {
	Archived int // regular archives written
	Marked   int // deletion markers created
	Pruned   int // obsolete versions deleted
	Restored int // files materialized by a restore
	Skipped  int // excluded or unreadable items passed over
	Errors   int // failures recovered from without aborting the run
}

// Progress receives file-count updates during a backup pass.
type Progress interface {
	Begin(total int)
	Advance(n int)
	End()
}

// NopProgress discards progress updates. Use in tests.
type NopProgress struct{}

func (NopProgress) Begin(int)   {}
func (NopProgress) Advance(int) {}
func (NopProgress) End()        {}

// Options carries the per-run behavior of a Service.
type Options struct {
	// Policy bounds version retention. The zero value disables pruning.
	Policy RetentionPolicy

	// ExcludeDirs filters source directories out of the backup pass.
	ExcludeDirs *ExcludeMatcher

	// ExcludeFiles filters source files out of the backup pass.
	ExcludeFiles *ExcludeMatcher

	// ReportSkipped logs every excluded file and directory.
	ReportSkipped bool

	// Hint decides whether a file's bytes are worth compressing. When
	// nil, everything is compressed.
	Hint func(name string) CompressionHint
}

// Service is the version bookkeeping and retention/restore engine. All
// filesystem access goes through the injected collaborators, so one Service
// works against the real tree, a dry-run wrapper, or an in-memory fixture.
//
// The service is single-threaded: one directory is fully processed (deletion
// marking, per-file archiving, pruning) before the walk moves on.
type Service struct {
	fsys      Filesystem
	container Container
	clock     Clock
	logger    Logger
	progress  Progress
	opts      Options
}

// NewService creates a Service with the provided collaborators. logger and
// progress may be nil.
func NewService(fsys Filesystem, container Container, clock Clock, logger Logger, progress Progress, opts Options) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if opts.Hint == nil {
		opts.Hint = func(string) CompressionHint { return HintCompress }
	}
	return &Service{
		fsys:      fsys,
		container: container,
		clock:     clock,
		logger:    logger,
		progress:  progress,
		opts:      opts,
	}
}
