package system

import (
	"sync"
	"time"

	"github.com/fkie-cad/loadmeter/win32"

	"github.com/sirupsen/logrus"
)

const pollingAverse = false

const loadIsNormalized = true

const fifteenMinutes = 15
const valuesPerMinute = int(time.Minute / loadPollIntervalWindows)

type cpuLoadTracker struct {
	mux               *sync.Mutex
	minuteAvgBuffer   []float64
	bufferInitialized bool
}

func newCpuLoadTracker() *cpuLoadTracker {
	return &cpuLoadTracker{
		mux:               new(sync.Mutex),
		minuteAvgBuffer:   make([]float64, fifteenMinutes*valuesPerMinute),
		bufferInitialized: false,
	}
}

func (t *cpuLoadTracker) addValue(value float64) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.bufferInitialized {
		copy(t.minuteAvgBuffer, t.minuteAvgBuffer[1:])
		t.minuteAvgBuffer[len(t.minuteAvgBuffer)-1] = value
	} else {
		for i := range t.minuteAvgBuffer {
			t.minuteAvgBuffer[i] = value
		}
		t.bufferInitialized = true
	}
}

func (t *cpuLoadTracker) average(numValues int) (float64, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if !t.bufferInitialized {
		return 0, false
	}

	last := len(t.minuteAvgBuffer) - 1

	var sum float64
	for i := 0; i < numValues; i++ {
		sum += t.minuteAvgBuffer[last-i]
	}

	return sum / float64(numValues), true
}

func (t *cpuLoadTracker) track() {
	lastIdleTicks, kernelTicks, userTicks, err := win32.GetSystemTimes()
	if err != nil {
		logrus.WithError(err).Error("Could not query system times.")
	}
	lastTotalTicks := kernelTicks + userTicks

	ticker := time.NewTicker(loadPollIntervalWindows)
	defer ticker.Stop()
	for range ticker.C {
		idleTicks, kernelTicks, userTicks, err := win32.GetSystemTimes()
		if err != nil {
			logrus.WithError(err).Error("Could not query system times.")
			continue
		}
		// Kernel time includes idle time.
		totalTicks := kernelTicks + userTicks

		idleDelta := idleTicks - lastIdleTicks
		totalDelta := totalTicks - lastTotalTicks
		lastIdleTicks, lastTotalTicks = idleTicks, totalTicks
		if totalDelta <= 0 {
			continue
		}

		t.addValue(float64(totalDelta-idleDelta) / float64(totalDelta))
	}
}

var (
	loadTracker     *cpuLoadTracker
	loadTrackerOnce sync.Once
)

func startLoadTracker() *cpuLoadTracker {
	loadTrackerOnce.Do(func() {
		loadTracker = newCpuLoadTracker()
		go loadTracker.track()
	})
	return loadTracker
}

func loadAverages() (oneMinuteAvg, fiveMinuteAvg, fifteenMinuteAvg float64, err error) {
	tracker := startLoadTracker()

	var ok bool
	oneMinuteAvg, ok = tracker.average(valuesPerMinute)
	if !ok {
		err = ErrNoLoadInformation
		return
	}
	fiveMinuteAvg, _ = tracker.average(valuesPerMinute * 5)
	fifteenMinuteAvg, _ = tracker.average(valuesPerMinute * fifteenMinutes)
	return
}
