// Package app wires the snapkeep engine from configuration for one CLI
// invocation and records run outcomes in the journal.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snapkeep/internal/config"
	"snapkeep/internal/container"
	"snapkeep/internal/fs"
	"snapkeep/internal/journal"
	"snapkeep/internal/snap"
)

// App is the application layer between the CLI and the snap.Service.
type App struct {
	cfg     *config.Config
	service *snap.Service
	journal *journal.Journal
	logFile *os.File
	dryRun  bool
}

// New creates a fully wired App from the given config. dryRunOverride, when
// non-nil, overrides the configured dry_run setting. Configuration and
// policy validation happen here, before anything touches the filesystem.
// The caller must call Close when done.
func New(cfg *config.Config, dryRunOverride *bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	policy := cfg.Policy()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dryRun := cfg.DryRun
	if dryRunOverride != nil {
		if *dryRunOverride != cfg.DryRun {
			fmt.Printf("Overriding dry_run=%v config setting\n", cfg.DryRun)
		}
		dryRun = *dryRunOverride
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID, dryRun)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	var fsys snap.Filesystem = fs.NewOSFilesystem()
	var cont snap.Container = container.NewZipContainer()
	if dryRun {
		fsys = fs.NewDryRunFilesystem(fsys)
		cont = container.NewDryRunContainer()
	}

	svc := snap.NewService(fsys, cont, snap.RealClock{}, logger, newProgressLine(os.Stdout), snap.Options{
		Policy:        policy,
		ExcludeDirs:   snap.NewExcludeMatcher(cfg.ExcludedDirs),
		ExcludeFiles:  snap.NewExcludeMatcher(cfg.ExcludedFiles),
		ReportSkipped: cfg.ReportSkipped,
		Hint:          container.Hint,
	})

	return &App{
		cfg:     cfg,
		service: svc,
		journal: j,
		logFile: logFile,
		dryRun:  dryRun,
	}, nil
}

// DryRun reports whether this invocation only simulates file operations.
func (a *App) DryRun() bool { return a.dryRun }

// Backup runs the full backup pass over the configured directory pairs and
// records the run in the journal.
func (a *App) Backup() (snap.Stats, error) {
	pairs, err := a.cfg.DirPairs()
	if err != nil {
		return snap.Stats{}, err
	}
	if len(pairs) == 0 {
		return snap.Stats{}, fmt.Errorf("no directory pairs configured")
	}

	return a.recordRun("backup", func() (snap.Stats, error) {
		return a.service.Backup(pairs)
	})
}

// Restore reconstructs the archived tree at source into target as of the
// given instant and records the run in the journal.
func (a *App) Restore(source, target string, at time.Time) (snap.Stats, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return snap.Stats{}, fmt.Errorf("resolving source: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return snap.Stats{}, fmt.Errorf("resolving target: %w", err)
	}

	return a.recordRun("restore", func() (snap.Stats, error) {
		return a.service.Restore(absSource, absTarget, at)
	})
}

// History returns the most recent recorded runs.
func (a *App) History(limit int) ([]*journal.Run, error) {
	return a.journal.Recent(limit)
}

// recordRun brackets an operation with journal begin/finish records.
func (a *App) recordRun(operation string, fn func() (snap.Stats, error)) (snap.Stats, error) {
	id, err := a.journal.Begin(operation, a.dryRun, time.Now().UTC())
	if err != nil {
		return snap.Stats{}, err
	}

	st, runErr := fn()

	status := "success"
	if runErr != nil {
		status = "error"
	}
	if err := a.journal.Finish(id, status, st, time.Now().UTC()); err != nil && runErr == nil {
		runErr = err
	}
	return st, runErr
}

// Close closes the journal and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
