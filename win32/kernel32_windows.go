package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32       = windows.NewLazySystemDLL("kernel32.dll")
	getSystemTimes = kernel32.NewProc("GetSystemTimes")
)

func filetimeTicks(ft windows.Filetime) int64 {
	return int64(ft.HighDateTime)<<32 + int64(ft.LowDateTime)
}

// GetSystemTimes returns the amount of time the system spent idle, in kernel
// mode and in user mode, in 100ns ticks, summed over all processors.
// The kernel time includes the idle time.
func GetSystemTimes() (idleTicks int64, kernelTicks int64, userTicks int64, err error) {
	var fIdleTicks, fKernelTicks, fUserTicks windows.Filetime

	r0, _, lastErr := getSystemTimes.Call(
		uintptr(unsafe.Pointer(&fIdleTicks)),
		uintptr(unsafe.Pointer(&fKernelTicks)),
		uintptr(unsafe.Pointer(&fUserTicks)),
	)
	if r0 == 0 {
		err = lastErr
		return
	}

	idleTicks = filetimeTicks(fIdleTicks)
	kernelTicks = filetimeTicks(fKernelTicks)
	userTicks = filetimeTicks(fUserTicks)

	return
}
