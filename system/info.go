package system

import (
	"os"
	"runtime"

	"github.com/fkie-cad/loadmeter/arch"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/targodan/go-errors"
)

// Info contains information about the running system.
type Info struct {
	OSName        string       `json:"osName"`
	OSVersion     string       `json:"osVersion"`
	OSFlavour     string       `json:"osFlavour"`
	OSArch        arch.T       `json:"osArch"`
	Bitness       arch.Bitness `json:"bitness"`
	Hostname      string       `json:"hostname"`
	NumCPUs       int          `json:"numCPUs"`
	TotalRAM      uint64       `json:"totalRAM"`
	PollingAverse bool         `json:"pollingAverse"`
}

// GetInfo retrieves information about the running system.
func GetInfo() (info *Info, err error) {
	info = new(Info)
	info.OSName, info.OSVersion, info.OSFlavour, err = getOSInfo()
	if err != nil {
		err = errors.Errorf("could not determine OS info, reason: %w", err)
		return
	}
	info.OSArch = arch.FromGOARCH(runtime.GOARCH)
	info.Bitness = info.OSArch.Bitness()
	info.Hostname, err = os.Hostname()
	if err != nil {
		err = errors.Errorf("could not determine hostname, reason: %w", err)
		return
	}
	info.NumCPUs = NumCores()
	vmem, err := mem.VirtualMemory()
	if err != nil {
		err = errors.Errorf("could not determine total RAM, reason: %w", err)
		return
	}
	info.TotalRAM = vmem.Total
	info.PollingAverse = IsPollingAverse()
	return
}
