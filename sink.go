package loadmeter

import "github.com/targodan/go-errors"

// ErrSurfaceClosed may be returned by a ChartSink if its display surface has
// been closed. A Meter stops without error when it receives it.
var ErrSurfaceClosed = errors.New("chart surface closed")

// ChartSink displays snapshots of a SampleWindow.
// The first call to Render creates the display surface, all subsequent calls
// update it in place.
type ChartSink interface {
	Render(snap Snapshot) error
}

// CloseNotifier is implemented by ChartSinks whose surface can be closed by
// the user. Every registered callback is called once the surface is closed.
type CloseNotifier interface {
	NotifyClose(fn func())
}
