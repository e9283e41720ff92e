package system

import (
	"os"

	"github.com/targodan/go-errors"
)

// The kernel recalculates the load averages every five seconds.
const pollingAverse = true

const loadIsNormalized = false

var procLoadAvgPath = "/proc/loadavg"

func loadAverages() (oneMinuteAvg, fiveMinuteAvg, fifteenMinuteAvg float64, err error) {
	text, err := os.ReadFile(procLoadAvgPath)
	if err != nil {
		err = errors.Newf("could not read %s, reason: %w", procLoadAvgPath, err)
		return
	}

	loads, err := parseLoadFields(string(text), 3)
	if err != nil {
		err = errors.Newf("could not parse %s, reason: %w", procLoadAvgPath, err)
		return
	}
	return loads[0], loads[1], loads[2], nil
}
