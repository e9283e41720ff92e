// Package win32 provides WinAPI functions that are inaccessible through
// golang.org/x/sys/windows.
package win32
