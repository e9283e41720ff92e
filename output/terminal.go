package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/fkie-cad/loadmeter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"golang.org/x/term"
)

// DefaultTerminalRows is the default height of the terminal chart.
const DefaultTerminalRows = 12

const (
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	keyCtrlC  = 0x03
	keyEscape = 0x1b

	labelWidth = 8
	newline    = "\r\n"
)

// TerminalSink draws snapshots as an ASCII line chart, redrawing the whole
// screen on every Render. One column is used per sample.
type TerminalSink struct {
	out    io.Writer
	rows   int
	header string

	closers closeCallbacks

	mux         sync.Mutex
	fd          int
	oldState    *term.State
	watching    bool
	closed      bool
	drawnBefore bool
}

// NewTerminalSink creates a new TerminalSink writing to out. The header is
// printed below the title, e.g. a description of the host.
func NewTerminalSink(out io.Writer, rows int, header string) *TerminalSink {
	if rows < 2 {
		rows = DefaultTerminalRows
	}
	return &TerminalSink{
		out:    out,
		rows:   rows,
		header: header,
	}
}

// AttachKeys switches in to raw mode and watches it for q, Esc and Ctrl-C,
// which close the chart. Nothing happens if in is not a terminal.
func (t *TerminalSink) AttachKeys(in *os.File) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		logrus.Debug("Input is not a terminal, chart cannot be closed by key press.")
		return nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Errorf("could not switch terminal to raw mode, reason: %w", err)
	}

	t.mux.Lock()
	t.fd = fd
	t.oldState = state
	t.watching = true
	t.mux.Unlock()

	go t.watchKeys(in)
	return nil
}

// watchKeys reads single key presses until one of them closes the chart or
// the sink is closed. A read that is already blocking when the sink is
// closed only returns with the next key or the end of input.
func (t *TerminalSink) watchKeys(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if t.isClosed() {
			return
		}
		if err != nil {
			if err != io.EOF {
				logrus.WithError(err).Debug("Stopped reading keys.")
			}
			return
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case 'q', 'Q', keyEscape, keyCtrlC:
			logrus.WithField("key", buf[0]).Debug("Chart closed by key press.")
			t.closers.fire()
			return
		}
	}
}

func (t *TerminalSink) isClosed() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.closed
}

// NotifyClose registers fn to be called once the user closes the chart.
func (t *TerminalSink) NotifyClose(fn func()) {
	t.closers.add(fn)
}

// Render redraws the chart.
func (t *TerminalSink) Render(snap loadmeter.Snapshot) error {
	if t.closers.isFired() {
		return loadmeter.ErrSurfaceClosed
	}

	t.mux.Lock()
	defer t.mux.Unlock()

	frame := t.draw(snap)
	if !t.drawnBefore {
		frame = hideCursor + frame
		t.drawnBefore = true
	}
	_, err := io.WriteString(t.out, frame)
	if err != nil {
		return errors.Errorf("could not draw terminal chart, reason: %w", err)
	}
	return nil
}

// Close restores the terminal.
func (t *TerminalSink) Close() error {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.closed = true
	var err error
	if t.drawnBefore {
		_, err = io.WriteString(t.out, showCursor+newline)
	}
	if t.oldState != nil {
		err = errors.NewMultiError(err, term.Restore(t.fd, t.oldState))
		t.oldState = nil
	}
	return err
}

func (t *TerminalSink) draw(snap loadmeter.Snapshot) string {
	b := &strings.Builder{}
	b.WriteString(clearScreen)
	b.WriteString(color.New(color.Bold).Sprint(ChartTitle))
	b.WriteString(newline)
	if t.header != "" {
		b.WriteString(t.header)
		b.WriteString(newline)
	}

	latest := color.YellowString("n/a")
	if snap.Available {
		latest = color.GreenString(formatLoad(snap.Latest))
	}
	bounds := snap.Bounds()
	fmt.Fprintf(b, "%s %s   range [%s, %s]   tick %d%s%s",
		YAxisLabel, latest, formatLoad(bounds.Min), formatLoad(bounds.Max), snap.Tick, newline, newline)

	cols := len(snap.Values)
	for r, line := range t.plot(snap) {
		fmt.Fprintf(b, "%*s |%s%s", labelWidth, t.rowLabel(snap, r), line, newline)
	}
	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(" +")
	b.WriteString(strings.Repeat("-", cols))
	b.WriteString(newline)

	left := humanize.FtoaWithDigits(snap.XMin, 1) + " s"
	right := humanize.FtoaWithDigits(snap.XMax, 1)
	gap := cols - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(strings.Repeat(" ", labelWidth+2))
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteString("  ")
	b.WriteString(XAxisLabel)
	b.WriteString(newline)

	if t.watching {
		b.WriteString(color.HiBlackString("press q to quit"))
		b.WriteString(newline)
	}
	return b.String()
}

// plot returns one string per chart row, top row first.
func (t *TerminalSink) plot(snap loadmeter.Snapshot) []string {
	grid := make([][]byte, t.rows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", len(snap.Values)))
	}
	for col, v := range snap.Values {
		grid[t.rowOf(snap, v)][col] = '*'
	}

	lines := make([]string, t.rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lines
}

func (t *TerminalSink) rowOf(snap loadmeter.Snapshot, v float64) int {
	span := snap.YMax - snap.YMin
	if span <= 0 {
		return t.rows / 2
	}
	r := int(math.Round((snap.YMax - v) / span * float64(t.rows-1)))
	if r < 0 {
		return 0
	}
	if r >= t.rows {
		return t.rows - 1
	}
	return r
}

func (t *TerminalSink) rowLabel(snap loadmeter.Snapshot, r int) string {
	mid := (t.rows - 1) / 2
	switch r {
	case 0:
		return formatLoad(snap.YMax)
	case mid:
		return formatLoad(snap.YMax - (snap.YMax-snap.YMin)*float64(mid)/float64(t.rows-1))
	case t.rows - 1:
		return formatLoad(snap.YMin)
	}
	return ""
}

func formatLoad(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}
