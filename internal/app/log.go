package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"snapkeep/internal/snap"
)

// runHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
type runHandler struct {
	w     io.Writer
	runID string
	attrs []slog.Attr
}

func (h *runHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *runHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, level, h.runID, r.Message)
	if err != nil {
		return err
	}

	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{
		w:     h.w,
		runID: h.runID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *runHandler) WithGroup(string) slog.Handler { return h }

// runLogger implements snap.Logger: every event goes to the durable log
// file; operator-relevant events are additionally printed to the console,
// color-coded by severity. File operations carry a dry-run indicator when
// the run is simulated.
type runLogger struct {
	file    *slog.Logger
	console io.Writer
	dryRun  bool

	opColor   *color.Color
	warnColor *color.Color
	errColor  *color.Color
}

func (l *runLogger) Debug(msg string, args ...any) {
	l.file.Debug(msg, args...)
}

func (l *runLogger) Info(msg string, args ...any) {
	fmt.Fprintln(l.console, consoleLine(msg, args))
	l.file.Info(msg, args...)
}

func (l *runLogger) Op(msg string, args ...any) {
	if l.dryRun {
		msg = "[dry run] " + msg
	}
	l.opColor.Fprintln(l.console, consoleLine(msg, args))
	l.file.Info(msg, args...)
}

func (l *runLogger) Warn(msg string, args ...any) {
	l.warnColor.Fprintln(l.console, consoleLine(msg, args))
	l.file.Warn(msg, args...)
}

func (l *runLogger) Error(msg string, args ...any) {
	l.errColor.Fprintln(l.console, consoleLine(msg, args))
	l.file.Error(msg, args...)
}

// consoleLine renders a message and its key/value args as one console line.
func consoleLine(msg string, args []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, "  %v=%v", args[i], args[i+1])
	}
	return b.String()
}

// newLogger creates the run logger: a structured file log at
// logDir/snapkeep.log plus colorized console output on stdout.
// It returns the logger, the open log file (for cleanup), and any error.
func newLogger(logDir, runID string, dryRun bool) (snap.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "snapkeep.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	l := &runLogger{
		file:      slog.New(&runHandler{w: f, runID: runID}),
		console:   os.Stdout,
		dryRun:    dryRun,
		opColor:   color.New(color.FgCyan),
		warnColor: color.New(color.FgYellow),
		errColor:  color.New(color.FgRed),
	}
	return l, f, nil
}
