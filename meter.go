package loadmeter

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
)

// Meter periodically samples a Source into a SampleWindow and hands every
// resulting Snapshot to a ChartSink.
//
// Ticks are strictly sequential: a tick, including the Render call, is
// completed before the meter goes to sleep for one interval.
type Meter struct {
	window *SampleWindow
	source Source
	sink   ChartSink

	logger   logrus.FieldLogger
	now      func() time.Time
	maxTicks uint64

	closeNotifierRegistered bool
	stopOnce                sync.Once
	stopped                 chan struct{}
}

// MeterOption configures optional properties of a Meter.
type MeterOption func(m *Meter)

// WithLogger sets the logger used for non-fatal problems during ticks.
func WithLogger(logger logrus.FieldLogger) MeterOption {
	return func(m *Meter) {
		m.logger = logger
	}
}

// WithClock sets the function used to timestamp snapshots.
func WithClock(now func() time.Time) MeterOption {
	return func(m *Meter) {
		m.now = now
	}
}

// WithMaxTicks makes the meter stop on its own after n ticks.
// Zero means no limit.
func WithMaxTicks(n uint64) MeterOption {
	return func(m *Meter) {
		m.maxTicks = n
	}
}

// NewMeter creates a new Meter. The poll interval is the interval of the
// given window.
func NewMeter(window *SampleWindow, source Source, sink ChartSink, opts ...MeterOption) *Meter {
	m := &Meter{
		window:  window,
		source:  source,
		sink:    sink,
		logger:  logrus.StandardLogger(),
		now:     time.Now,
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Window returns the SampleWindow fed by the meter.
func (m *Meter) Window() *SampleWindow {
	return m.window
}

// Stop requests the meter to stop. A running meter returns from Run at the
// next sleep boundary without performing another tick. Stop may be called
// more than once and from any goroutine.
func (m *Meter) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopped)
	})
}

// Run samples and renders until ctx is cancelled, Stop is called, the
// surface of the sink is closed or the configured number of ticks is reached.
// The first tick is performed immediately.
//
// Run returns nil in all of the cases above. Problems with the source or
// the sink do not end the loop, they are logged instead.
func (m *Meter) Run(ctx context.Context) error {
	for {
		if m.isDone(ctx) {
			return nil
		}

		err := m.tick()
		if errors.Is(err, ErrSurfaceClosed) {
			m.logger.Info("Chart surface was closed, stopping meter.")
			return nil
		}
		if err != nil {
			m.logger.WithError(err).Warn("Could not render snapshot.")
		}

		if m.maxTicks > 0 && m.window.Ticks() >= m.maxTicks {
			m.logger.WithField("ticks", m.window.Ticks()).Debug("Tick limit reached.")
			return nil
		}

		if !m.sleep(ctx) {
			return nil
		}
	}
}

func (m *Meter) tick() error {
	load, ok := m.source.Sample()
	if ok && (math.IsNaN(load) || math.IsInf(load, 0)) {
		m.logger.WithField("load", load).Warn("Load source returned a non-finite value.")
		ok = false
	}
	if !ok {
		m.logger.Warn("Could not determine load average, recording zero.")
		load = 0
	}

	snap := m.window.Advance(load)
	snap.Available = ok
	snap.TakenAt = m.now()

	m.logger.WithFields(logrus.Fields{
		"tick": snap.Tick,
		"load": load,
		"yMin": snap.YMin,
		"yMax": snap.YMax,
	}).Trace("Tick complete.")

	err := m.sink.Render(snap)
	if err != nil {
		return err
	}

	if !m.closeNotifierRegistered {
		if notifier, ok := m.sink.(CloseNotifier); ok {
			notifier.NotifyClose(m.Stop)
		}
		m.closeNotifierRegistered = true
	}
	return nil
}

func (m *Meter) sleep(ctx context.Context) bool {
	timer := time.NewTimer(m.window.Interval())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-m.stopped:
		return false
	case <-timer.C:
	}
	return !m.isDone(ctx)
}

func (m *Meter) isDone(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-m.stopped:
		return true
	default:
		return false
	}
}
