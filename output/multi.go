package output

import (
	"io"

	"github.com/fkie-cad/loadmeter"

	"github.com/targodan/go-errors"
)

// MultiSink is a ChartSink which renders every snapshot to all given sinks.
// A sink whose surface was closed is skipped from then on; the MultiSink
// reports a closed surface once all of its sinks are closed.
type MultiSink struct {
	Sinks []loadmeter.ChartSink

	closed []bool
}

// NewMultiSink creates a new MultiSink.
func NewMultiSink(sinks ...loadmeter.ChartSink) *MultiSink {
	return &MultiSink{
		Sinks:  sinks,
		closed: make([]bool, len(sinks)),
	}
}

// Render renders snap to all open sinks and combines their errors.
func (s *MultiSink) Render(snap loadmeter.Snapshot) error {
	if len(s.closed) != len(s.Sinks) {
		s.closed = make([]bool, len(s.Sinks))
	}

	var err error
	open := 0
	for i, sink := range s.Sinks {
		if s.closed[i] {
			continue
		}
		// Every sink gets its own copy, so that none can affect the others.
		rerr := sink.Render(copySnapshot(snap))
		if errors.Is(rerr, loadmeter.ErrSurfaceClosed) {
			s.closed[i] = true
			continue
		}
		open++
		err = errors.NewMultiError(err, rerr)
	}
	if open == 0 {
		return loadmeter.ErrSurfaceClosed
	}
	return err
}

// NotifyClose registers fn with every sink that can be closed by its user.
func (s *MultiSink) NotifyClose(fn func()) {
	for _, sink := range s.Sinks {
		if notifier, ok := sink.(loadmeter.CloseNotifier); ok {
			notifier.NotifyClose(fn)
		}
	}
}

// Close closes all sinks that implement io.Closer.
func (s *MultiSink) Close() error {
	var err error
	for _, sink := range s.Sinks {
		if closer, ok := sink.(io.Closer); ok {
			err = errors.NewMultiError(err, closer.Close())
		}
	}
	return err
}

func copySnapshot(snap loadmeter.Snapshot) loadmeter.Snapshot {
	snap.Times = append([]float64(nil), snap.Times...)
	snap.Values = append([]float64(nil), snap.Values...)
	return snap
}
