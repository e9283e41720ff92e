package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/sirupsen/logrus"
)

// LoadSource samples the 1-minute load average of the local system.
type LoadSource struct {
	normalize bool
	numCores  int

	loadAverages func() (float64, float64, float64, error)
}

// NewLoadSource creates a new LoadSource. If normalize is true, the load is
// divided by the number of logical CPUs, unless the platform already reports
// a normalized value.
func NewLoadSource(normalize bool) *LoadSource {
	return &LoadSource{
		normalize:    normalize && !LoadIsNormalized(),
		numCores:     NumCores(),
		loadAverages: LoadAverages,
	}
}

// Sample returns the current 1-minute load average. If it cannot be
// determined, the error is logged and ok is false.
func (s *LoadSource) Sample() (load float64, ok bool) {
	avg1, _, _, err := s.loadAverages()
	if err != nil {
		logrus.WithError(err).Error("Could not determine load average.")
		return 0, false
	}
	if s.normalize {
		avg1 /= float64(s.numCores)
	}
	return avg1, true
}

// NumCores returns the number of logical CPUs.
func NumCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logrus.WithError(err).Debug("Could not count CPUs, falling back to the runtime.")
		return runtime.NumCPU()
	}
	return n
}
