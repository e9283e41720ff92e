//go:build !windows

package system

import (
	"os/exec"
	"strings"
)

func uname(flag string) (string, error) {
	buf, err := exec.Command("uname", flag).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

func getOSInfo() (name, version, flavour string, err error) {
	name, err = uname("-s")
	if err != nil {
		return
	}
	version, err = uname("-r")
	if err != nil {
		return
	}
	// Not every uname knows -o.
	flavour, ferr := uname("-o")
	if ferr != nil {
		flavour = name
	}
	return
}
