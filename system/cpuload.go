package system

import (
	"strconv"
	"strings"
	"time"

	"github.com/targodan/go-errors"
)

const loadPollIntervalWindows = 200 * time.Millisecond

// ErrNoLoadInformation is returned if the load cannot be determined (yet).
var ErrNoLoadInformation = errors.New("no load information available")

// LoadAverages retrieves the 1-, 5-, and 15-minute load averages.
//
// On Windows there is no run-queue based load average, the values are the
// averages of the CPU utilization in [0, 1] instead, see LoadIsNormalized.
func LoadAverages() (oneMinuteAvg, fiveMinuteAvg, fifteenMinuteAvg float64, err error) {
	return loadAverages()
}

// LoadIsNormalized returns true if LoadAverages already reports values relative
// to the number of CPUs on this platform.
func LoadIsNormalized() bool {
	return loadIsNormalized
}

// IsPollingAverse returns true if the load average should not be polled
// more often than every few seconds on this platform, because it is not
// refreshed more often anyway.
func IsPollingAverse() bool {
	return pollingAverse
}

// parseLoadFields parses up to three leading whitespace separated load
// values, as found in /proc/loadavg or in the output of simple commands.
func parseLoadFields(text string, minFields int) ([]float64, error) {
	parts := strings.Fields(text)
	if len(parts) < minFields {
		return nil, errors.Newf("expected at least %d parts, got %d", minFields, len(parts))
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}

	loads := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.Newf("invalid load value \"%s\", reason: %w", part, err)
		}
		loads[i] = f
	}
	return loads, nil
}
