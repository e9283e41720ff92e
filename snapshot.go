package loadmeter

import "time"

// Snapshot is the state of a SampleWindow right after a tick, ready to be
// drawn by a ChartSink. A Snapshot owns its slices; modifying them does not
// affect the window it was taken from.
type Snapshot struct {
	// Times is the time axis in seconds relative to now, oldest first.
	Times []float64 `json:"times"`
	// Values holds the samples, oldest first.
	Values []float64 `json:"values"`

	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`

	// Tick is the 1-based number of the tick that produced this Snapshot.
	Tick uint64 `json:"tick"`
	// Latest is the sample added in this tick.
	Latest float64 `json:"latest"`
	// Available is false if the load could not be determined and Latest was
	// recorded as zero instead.
	Available bool      `json:"available"`
	TakenAt   time.Time `json:"takenAt"`
}

// Bounds returns the value axis limits of the Snapshot.
func (s Snapshot) Bounds() ScaleBounds {
	return ScaleBounds{Min: s.YMin, Max: s.YMax}
}
