package loadmeter

import (
	"testing"
	"time"

	"github.com/targodan/go-errors"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewSampleWindow(t *testing.T) {
	Convey("Creating a window with a non-positive capacity", t, func() {
		w, err := NewSampleWindow(0, time.Second)
		Convey("should fail.", func() {
			So(w, ShouldBeNil)
			So(errors.Is(err, ErrInvalidCapacity), ShouldBeTrue)
		})
	})

	Convey("Creating a window with a non-positive interval", t, func() {
		w, err := NewSampleWindow(3, 0)
		Convey("should fail.", func() {
			So(w, ShouldBeNil)
			So(errors.Is(err, ErrInvalidInterval), ShouldBeTrue)
		})
	})

	for _, capacity := range []int{1, 2, 3, 50, 1000} {
		for _, interval := range []time.Duration{time.Millisecond, time.Second, 5 * time.Second, 1500 * time.Millisecond} {
			Convey("A new window", t, func() {
				w, err := NewSampleWindow(capacity, interval)
				So(err, ShouldBeNil)

				times := w.Times()
				Convey("should have a time axis of the requested length.", func() {
					So(times, ShouldHaveLength, capacity)
					So(w.Capacity(), ShouldEqual, capacity)
				})
				Convey("should have a strictly increasing time axis ending at zero.", func() {
					for i := 1; i < len(times); i++ {
						So(times[i], ShouldBeGreaterThan, times[i-1])
					}
					So(times[capacity-1], ShouldEqual, 0.0)
					So(times[0], ShouldAlmostEqual, -float64(capacity-1)*interval.Seconds())
				})
				Convey("should hold only zeros.", func() {
					So(w.Values(), ShouldResemble, make([]float64, capacity))
				})
			})
		}
	}
}

func TestSampleWindowScenario(t *testing.T) {
	Convey("A window with capacity 3 and an interval of one second", t, func() {
		w, err := NewSampleWindow(3, time.Second)
		So(err, ShouldBeNil)

		Convey("should start with the expected axes.", func() {
			So(w.Times(), ShouldResemble, []float64{-2, -1, 0})
			So(w.Values(), ShouldResemble, []float64{0, 0, 0})
		})

		Convey("should scroll and rescale on every advance.", func() {
			snap := w.Advance(4)
			So(snap.Values, ShouldResemble, []float64{0, 0, 4})
			So(snap.YMin, ShouldAlmostEqual, -0.2)
			So(snap.YMax, ShouldAlmostEqual, 4.2)

			snap = w.Advance(6)
			So(snap.Values, ShouldResemble, []float64{0, 4, 6})
			So(snap.YMin, ShouldAlmostEqual, -0.3)
			So(snap.YMax, ShouldAlmostEqual, 6.3)

			snap = w.Advance(2)
			So(snap.Values, ShouldResemble, []float64{4, 6, 2})
			So(snap.YMin, ShouldAlmostEqual, 1.8)
			So(snap.YMax, ShouldAlmostEqual, 6.2)
			So(snap.Bounds(), ShouldResemble, ComputeBounds(snap.Values))

			So(snap.Tick, ShouldEqual, uint64(3))
			So(snap.Latest, ShouldEqual, 2.0)
			So(snap.XMin, ShouldEqual, -2.0)
			So(snap.XMax, ShouldEqual, 0.0)
			So(w.Ticks(), ShouldEqual, uint64(3))
		})
	})
}

func TestSampleWindowFIFO(t *testing.T) {
	Convey("Advancing a window fewer times than its capacity", t, func() {
		w, err := NewSampleWindow(8, time.Second)
		So(err, ShouldBeNil)
		samples := []float64{0.5, 1.25, 3, 0.75, 2}
		for _, s := range samples {
			w.Advance(s)
		}

		values := w.Values()
		Convey("should end with the samples in order.", func() {
			So(values[len(values)-len(samples):], ShouldResemble, samples)
		})
		Convey("should keep the initial zeros in front.", func() {
			So(values[:len(values)-len(samples)], ShouldResemble, []float64{0, 0, 0})
		})
	})

	Convey("Advancing a window more times than its capacity", t, func() {
		w, err := NewSampleWindow(3, time.Second)
		So(err, ShouldBeNil)
		for i := 1; i <= 10; i++ {
			w.Advance(float64(i))
		}
		Convey("should keep only the most recent samples.", func() {
			So(w.Values(), ShouldResemble, []float64{8, 9, 10})
		})
	})

	Convey("A window of capacity one", t, func() {
		w, err := NewSampleWindow(1, time.Second)
		So(err, ShouldBeNil)
		snap := w.Advance(7)
		Convey("should only hold the latest sample.", func() {
			So(snap.Values, ShouldResemble, []float64{7})
			So(snap.Times, ShouldResemble, []float64{0})
			So(snap.YMin, ShouldAlmostEqual, 6.9)
			So(snap.YMax, ShouldAlmostEqual, 7.1)
		})
	})
}

func TestSampleWindowConstantSignal(t *testing.T) {
	Convey("Filling a window with a constant value", t, func() {
		const v = 1.5
		w, err := NewSampleWindow(DefaultCapacity, time.Second)
		So(err, ShouldBeNil)

		var snap Snapshot
		for i := 0; i < DefaultCapacity; i++ {
			snap = w.Advance(v)
		}
		Convey("should yield only that value.", func() {
			for _, value := range snap.Values {
				So(value, ShouldEqual, v)
			}
		})
		Convey("should pad the bounds by the flat padding.", func() {
			So(snap.YMin, ShouldAlmostEqual, v-FlatPadding)
			So(snap.YMax, ShouldAlmostEqual, v+FlatPadding)
		})
	})
}

func TestSnapshotOwnership(t *testing.T) {
	Convey("A snapshot", t, func() {
		w, err := NewSampleWindow(3, time.Second)
		So(err, ShouldBeNil)
		snap := w.Advance(1)

		Convey("should not be affected by later ticks.", func() {
			w.Advance(2)
			So(snap.Values, ShouldResemble, []float64{0, 0, 1})
		})
		Convey("should not affect the window when modified.", func() {
			snap.Values[2] = 42
			snap.Times[0] = 42
			So(w.Values(), ShouldResemble, []float64{0, 0, 1})
			So(w.Times(), ShouldResemble, []float64{-2, -1, 0})
		})
	})
}

func TestDefaultInterval(t *testing.T) {
	Convey("The default interval", t, func() {
		Convey("should be five seconds on polling averse platforms.", func() {
			So(DefaultInterval(true), ShouldEqual, 5*time.Second)
		})
		Convey("should be one second elsewhere.", func() {
			So(DefaultInterval(false), ShouldEqual, time.Second)
		})
	})
}
