package loadmeter

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/targodan/go-errors"

	. "github.com/smartystreets/goconvey/convey"
)

type mockSink struct {
	mock.Mock
}

func (s *mockSink) Render(snap Snapshot) error {
	args := s.Called(snap)
	return args.Error(0)
}

type recordingSink struct {
	mux   sync.Mutex
	snaps []Snapshot

	closeAfter int
	onClose    []func()
}

func (s *recordingSink) Render(snap Snapshot) error {
	s.mux.Lock()
	s.snaps = append(s.snaps, snap)
	n := len(s.snaps)
	callbacks := s.onClose
	s.mux.Unlock()

	if s.closeAfter > 0 && n == s.closeAfter {
		for _, fn := range callbacks {
			fn()
		}
	}
	return nil
}

func (s *recordingSink) NotifyClose(fn func()) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.onClose = append(s.onClose, fn)
}

func (s *recordingSink) Snapshots() []Snapshot {
	s.mux.Lock()
	defer s.mux.Unlock()
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

type scriptedSource struct {
	loads []float64
	oks   []bool
	i     int
}

func (s *scriptedSource) Sample() (float64, bool) {
	if s.i >= len(s.loads) {
		return 0, false
	}
	load, ok := s.loads[s.i], true
	if s.oks != nil {
		ok = s.oks[s.i]
	}
	s.i++
	return load, ok
}

func quietLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func TestMeterRun(t *testing.T) {
	Convey("A meter limited to three ticks", t, func() {
		window, err := NewSampleWindow(3, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &recordingSink{}
		fixed := time.Date(2023, 5, 17, 12, 0, 0, 0, time.UTC)
		meter := NewMeter(window, &scriptedSource{loads: []float64{4, 6, 2}}, sink,
			WithMaxTicks(3),
			WithLogger(quietLogger()),
			WithClock(func() time.Time { return fixed }))

		err = meter.Run(context.Background())

		Convey("should return cleanly.", func() {
			So(err, ShouldBeNil)
		})
		Convey("should have advanced its window.", func() {
			So(meter.Window(), ShouldEqual, window)
			So(meter.Window().Ticks(), ShouldEqual, uint64(3))
		})
		Convey("should render one snapshot per tick.", func() {
			snaps := sink.Snapshots()
			So(snaps, ShouldHaveLength, 3)

			So(snaps[0].Values, ShouldResemble, []float64{0, 0, 4})
			So(snaps[0].YMin, ShouldAlmostEqual, -0.2)
			So(snaps[0].YMax, ShouldAlmostEqual, 4.2)

			So(snaps[1].Values, ShouldResemble, []float64{0, 4, 6})
			So(snaps[2].Values, ShouldResemble, []float64{4, 6, 2})
			So(snaps[2].YMin, ShouldAlmostEqual, 1.8)
			So(snaps[2].YMax, ShouldAlmostEqual, 6.2)
		})
		Convey("should stamp and number the snapshots.", func() {
			for i, snap := range sink.Snapshots() {
				So(snap.Tick, ShouldEqual, uint64(i+1))
				So(snap.TakenAt.Equal(fixed), ShouldBeTrue)
				So(snap.Available, ShouldBeTrue)
				So(snap.XMin, ShouldEqual, -2*time.Millisecond.Seconds())
				So(snap.XMax, ShouldEqual, 0.0)
			}
		})
	})
}

func TestMeterUnavailableLoad(t *testing.T) {
	Convey("A meter whose source cannot determine the load", t, func() {
		window, err := NewSampleWindow(3, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &recordingSink{}
		logger, hook := logtest.NewNullLogger()
		source := &scriptedSource{
			loads: []float64{2, 9, math.NaN()},
			oks:   []bool{true, false, true},
		}
		meter := NewMeter(window, source, sink, WithMaxTicks(3), WithLogger(logger))

		So(meter.Run(context.Background()), ShouldBeNil)
		snaps := sink.Snapshots()
		So(snaps, ShouldHaveLength, 3)

		Convey("should record zero instead.", func() {
			So(snaps[2].Values, ShouldResemble, []float64{2, 0, 0})
		})
		Convey("should mark the affected snapshots.", func() {
			So(snaps[0].Available, ShouldBeTrue)
			So(snaps[1].Available, ShouldBeFalse)
			So(snaps[2].Available, ShouldBeFalse)
		})
		Convey("should log a warning.", func() {
			warnings := 0
			for _, entry := range hook.AllEntries() {
				if entry.Level == logrus.WarnLevel {
					warnings++
				}
			}
			So(warnings, ShouldBeGreaterThanOrEqualTo, 2)
		})
	})
}

func TestMeterCancellation(t *testing.T) {
	Convey("A meter whose surface gets closed", t, func() {
		window, err := NewSampleWindow(5, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &recordingSink{closeAfter: 2}
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithLogger(quietLogger()))

		err = meter.Run(context.Background())

		Convey("should stop without another tick.", func() {
			So(err, ShouldBeNil)
			So(sink.Snapshots(), ShouldHaveLength, 2)
			So(window.Ticks(), ShouldEqual, uint64(2))
		})
	})

	Convey("A sleeping meter whose context is cancelled", t, func() {
		window, err := NewSampleWindow(5, time.Hour)
		So(err, ShouldBeNil)
		sink := &recordingSink{}
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithLogger(quietLogger()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- meter.Run(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		Convey("should return promptly after exactly one tick.", func() {
			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(2 * time.Second):
				t.Fatal("meter did not stop after cancellation")
			}
			So(sink.Snapshots(), ShouldHaveLength, 1)
		})
	})

	Convey("A meter stopped from another goroutine", t, func() {
		window, err := NewSampleWindow(5, time.Hour)
		So(err, ShouldBeNil)
		sink := &recordingSink{}
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithLogger(quietLogger()))

		done := make(chan error, 1)
		go func() {
			done <- meter.Run(context.Background())
		}()
		time.Sleep(20 * time.Millisecond)
		meter.Stop()
		meter.Stop()

		Convey("should return.", func() {
			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(2 * time.Second):
				t.Fatal("meter did not stop")
			}
		})
	})

	Convey("A meter with an already cancelled context", t, func() {
		window, err := NewSampleWindow(5, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &mockSink{}
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithLogger(quietLogger()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("should not tick at all.", func() {
			So(meter.Run(ctx), ShouldBeNil)
			So(window.Ticks(), ShouldEqual, uint64(0))
			sink.AssertNotCalled(t, "Render", mock.Anything)
		})
	})
}

func TestMeterSinkErrors(t *testing.T) {
	Convey("A meter whose sink reports a closed surface", t, func() {
		window, err := NewSampleWindow(5, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &mockSink{}
		sink.On("Render", mock.Anything).Return(ErrSurfaceClosed).Once()
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithLogger(quietLogger()))

		Convey("should stop cleanly after the first render.", func() {
			So(meter.Run(context.Background()), ShouldBeNil)
			So(window.Ticks(), ShouldEqual, uint64(1))
			sink.AssertExpectations(t)
		})
	})

	Convey("A meter whose sink fails to render", t, func() {
		window, err := NewSampleWindow(5, time.Millisecond)
		So(err, ShouldBeNil)
		sink := &mockSink{}
		sink.On("Render", mock.Anything).Return(errors.New("display broken")).Twice()
		sink.On("Render", mock.Anything).Return(nil).Once()
		meter := NewMeter(window, SourceFunc(func() (float64, bool) { return 1, true }), sink,
			WithMaxTicks(3), WithLogger(quietLogger()))

		Convey("should keep going.", func() {
			So(meter.Run(context.Background()), ShouldBeNil)
			So(window.Ticks(), ShouldEqual, uint64(3))
			sink.AssertExpectations(t)
		})
	})
}
