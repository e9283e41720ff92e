package app

import (
	"encoding/json"
	"fmt"

	"github.com/fkie-cad/loadmeter"
	"github.com/fkie-cad/loadmeter/system"

	"github.com/dustin/go-humanize"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"
)

func sample(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	one, five, fifteen, err := system.LoadAverages()
	if err != nil {
		return errors.Errorf("could not determine load averages, reason: %w", err)
	}
	if c.Bool("normalize") && !system.LoadIsNormalized() {
		cores := float64(system.NumCores())
		one /= cores
		five /= cores
		fifteen /= cores
	}

	fmt.Fprintf(c.App.Writer, "1 min: %s\n5 min: %s\n15 min: %s\n",
		humanize.FtoaWithDigits(one, 2),
		humanize.FtoaWithDigits(five, 2),
		humanize.FtoaWithDigits(fifteen, 2))
	return nil
}

type infoOutput struct {
	*system.Info
	LoadIsNormalized bool   `json:"loadIsNormalized"`
	DefaultInterval  string `json:"defaultInterval"`
}

func info(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	sysInfo, err := system.GetInfo()
	if err != nil {
		return errors.Errorf("could not retrieve system info, reason: %w", err)
	}
	interval := loadmeter.DefaultInterval(sysInfo.PollingAverse)

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(&infoOutput{
			Info:             sysInfo,
			LoadIsNormalized: system.LoadIsNormalized(),
			DefaultInterval:  interval.String(),
		})
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Hostname:          %s\n", sysInfo.Hostname)
	fmt.Fprintf(w, "OS:                %s %s (%s)\n", sysInfo.OSName, sysInfo.OSVersion, sysInfo.OSFlavour)
	fmt.Fprintf(w, "Architecture:      %s (%s)\n", sysInfo.OSArch, sysInfo.Bitness)
	fmt.Fprintf(w, "Logical CPUs:      %d\n", sysInfo.NumCPUs)
	fmt.Fprintf(w, "Total RAM:         %s\n", humanize.IBytes(sysInfo.TotalRAM))
	fmt.Fprintf(w, "Poll policy:       %s\n", pollPolicy())
	fmt.Fprintf(w, "Default interval:  %s\n", interval)
	fmt.Fprintf(w, "Normalized load:   %t\n", system.LoadIsNormalized())
	return nil
}
