package loadmeter

import (
	"time"

	"github.com/targodan/go-errors"
)

// DefaultCapacity is the number of samples kept in a SampleWindow unless
// configured otherwise.
const DefaultCapacity = 50

const (
	pollingAverseInterval = 5 * time.Second
	defaultInterval       = 1 * time.Second
)

var (
	// ErrInvalidCapacity is returned when a SampleWindow is constructed with a
	// capacity smaller than one.
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrInvalidInterval is returned when a SampleWindow is constructed with a
	// non-positive interval.
	ErrInvalidInterval = errors.New("interval must be positive")
)

// DefaultInterval returns the poll interval to use on a platform.
// Platforms where querying the load is expensive, or where the load
// average is refreshed only every few seconds anyway, are polled less often.
func DefaultInterval(pollingAverse bool) time.Duration {
	if pollingAverse {
		return pollingAverseInterval
	}
	return defaultInterval
}

// SampleWindow is a fixed capacity rolling window of load samples with a
// parallel, fixed time axis.
//
// The time axis is given in seconds relative to now, so the last slot is
// always at 0 and the first slot at -(capacity-1)*interval. The values are
// shifted by one slot on each call to Advance.
//
// A SampleWindow is not safe for concurrent use. It is meant to be owned by
// a single polling goroutine.
type SampleWindow struct {
	interval time.Duration
	times    []float64
	values   []float64
	ticks    uint64
}

// NewSampleWindow creates a new SampleWindow holding capacity samples taken
// every interval. All values start out as zero.
func NewSampleWindow(capacity int, interval time.Duration) (*SampleWindow, error) {
	if capacity <= 0 {
		return nil, errors.Newf("invalid window capacity %d, reason: %w", capacity, ErrInvalidCapacity)
	}
	if interval <= 0 {
		return nil, errors.Newf("invalid window interval %v, reason: %w", interval, ErrInvalidInterval)
	}

	w := &SampleWindow{
		interval: interval,
		times:    make([]float64, capacity),
		values:   make([]float64, capacity),
	}
	step := interval.Seconds()
	// Index 0 is the oldest slot, the newest slot sits at 0 seconds.
	for i := 1; i < capacity; i++ {
		w.times[capacity-1-i] = -float64(i) * step
	}
	return w, nil
}

// Capacity returns the number of samples the window holds.
func (w *SampleWindow) Capacity() int {
	return len(w.values)
}

// Interval returns the time between two samples.
func (w *SampleWindow) Interval() time.Duration {
	return w.interval
}

// Ticks returns how often Advance has been called.
func (w *SampleWindow) Ticks() uint64 {
	return w.ticks
}

// Times returns a copy of the time axis in seconds relative to now.
func (w *SampleWindow) Times() []float64 {
	return copyFloats(w.times)
}

// Values returns a copy of the current samples, oldest first.
func (w *SampleWindow) Values() []float64 {
	return copyFloats(w.values)
}

// Advance discards the oldest sample, appends the given one and returns a
// Snapshot of the window, including the autoscaled display bounds.
// The returned Snapshot does not share memory with the window.
func (w *SampleWindow) Advance(sample float64) Snapshot {
	last := len(w.values) - 1
	copy(w.values[:last], w.values[1:])
	w.values[last] = sample
	w.ticks++

	bounds := ComputeBounds(w.values)
	return Snapshot{
		Times:     w.Times(),
		Values:    w.Values(),
		XMin:      w.times[0],
		XMax:      w.times[last],
		YMin:      bounds.Min,
		YMax:      bounds.Max,
		Tick:      w.ticks,
		Latest:    sample,
		Available: true,
	}
}

func copyFloats(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
