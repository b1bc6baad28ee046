package app

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// progressLine renders "N/M files (P%) processed", rewriting the line in
// place while the writer is a terminal. Off a terminal only the final
// summary line is printed, so redirected output stays clean.
type progressLine struct {
	w        io.Writer
	terminal bool
	total    int
	done     int
}

func newProgressLine(w io.Writer) *progressLine {
	terminal := false
	if f, ok := w.(*os.File); ok {
		terminal = term.IsTerminal(int(f.Fd()))
	}
	return &progressLine{w: w, terminal: terminal}
}

func (p *progressLine) Begin(total int) {
	p.total = total
	p.done = 0
	if p.terminal {
		p.print("\r")
	}
}

func (p *progressLine) Advance(n int) {
	p.done += n
	if p.terminal {
		p.print("\r")
	}
}

func (p *progressLine) End() {
	p.print("\n")
}

func (p *progressLine) print(end string) {
	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.w, "%d/%d files (%d%%) processed%s",
		p.done, p.total, 100*p.done/p.total, end)
}
