package system

import (
	"encoding/csv"
	"os/exec"
	"strings"

	"github.com/targodan/go-errors"
)

func getOSInfo() (name, version, flavour string, err error) {
	cmd := exec.Command("systeminfo", "/FO", "CSV")
	buf, err := cmd.Output()
	if err != nil {
		err = errors.Newf("could not execute systeminfo, reason: %w", err)
		return
	}

	info := csv.NewReader(strings.NewReader(string(buf)))
	headings, err := info.Read()
	if err != nil {
		err = errors.Newf("could not parse systeminfo output, reason: %w", err)
		return
	}
	data, err := info.Read()
	if err != nil {
		err = errors.Newf("could not parse systeminfo output, reason: %w", err)
		return
	}

	iOSName, iOSVersion := -1, -1
	for i, heading := range headings {
		switch strings.ToLower(heading) {
		case "os name":
			iOSName = i
		case "os version":
			iOSVersion = i
		}
	}
	if iOSName < 0 || iOSVersion < 0 || iOSName >= len(data) || iOSVersion >= len(data) {
		err = errors.New("systeminfo output lacks OS name or version")
		return
	}

	parts := strings.Split(strings.TrimSpace(data[iOSName]), " ")
	if len(parts) < 3 {
		err = errors.Newf("invalid OS name \"%s\"", data[iOSName])
		return
	}
	// Examples:
	// Microsoft Windows 7 Professional
	// Microsoft Windows 10 Pro
	name = strings.Join(parts[:3], " ")
	flavour = strings.Join(parts[3:], " ")
	version = strings.TrimSpace(data[iOSVersion])

	return
}
