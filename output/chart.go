package output

import (
	"io"

	"github.com/fkie-cad/loadmeter"

	"github.com/targodan/go-errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart labels shared by all sinks.
const (
	ChartTitle = "CPU Meter"
	XAxisLabel = "seconds"
	YAxisLabel = "load"
)

// Default size of rendered PNG charts in pixels.
const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 400
)

var lineColor = drawing.ColorFromHex("1f77b4")

// newChart builds a line chart of snap. The axis limits are exactly the
// limits of the snapshot.
func newChart(snap loadmeter.Snapshot, width, height int) chart.Chart {
	xMin, xMax := snap.XMin, snap.XMax
	if xMin == xMax {
		// Single sample windows have an empty time axis.
		xMin -= 0.5
		xMax += 0.5
	}

	return chart.Chart{
		Title:  ChartTitle,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  XAxisLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  YAxisLabel,
			Range: &chart.ContinuousRange{Min: snap.YMin, Max: snap.YMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    YAxisLabel,
				XValues: snap.Times,
				YValues: snap.Values,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: lineColor,
				},
			},
		},
	}
}

// RenderPNG draws snap as a PNG image of the given size to w.
func RenderPNG(w io.Writer, snap loadmeter.Snapshot, width, height int) error {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}
	if len(snap.Times) == 0 || len(snap.Times) != len(snap.Values) {
		return errors.Newf("snapshot has %d times and %d values, cannot draw it", len(snap.Times), len(snap.Values))
	}

	ch := newChart(snap, width, height)
	err := ch.Render(chart.PNG, w)
	if err != nil {
		return errors.Errorf("could not render chart, reason: %w", err)
	}
	return nil
}
