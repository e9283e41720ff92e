//go:build !linux && !windows

package system

import (
	"github.com/shirou/gopsutil/v4/load"
	"github.com/targodan/go-errors"
)

const pollingAverse = false

const loadIsNormalized = false

func loadAverages() (oneMinuteAvg, fiveMinuteAvg, fifteenMinuteAvg float64, err error) {
	avg, err := load.Avg()
	if err != nil {
		err = errors.Newf("could not query load average, reason: %w", err)
		return
	}
	return avg.Load1, avg.Load5, avg.Load15, nil
}
