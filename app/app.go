package app

import (
	"fmt"
	"os"

	"github.com/fkie-cad/loadmeter/config"
	"github.com/fkie-cad/loadmeter/output"
	"github.com/fkie-cad/loadmeter/system"
	"github.com/fkie-cad/loadmeter/version"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"
)

var onExit func()

func initAppAction(c *cli.Context) error {
	lvl, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	switch c.String("log-path") {
	case "-":
		logrus.SetOutput(os.Stdout)
	case "--":
		logrus.SetOutput(os.Stderr)
	default:
		logfile, err := os.OpenFile(c.String("log-path"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Errorf("could not open logfile for writing, reason: %w", err)
		}
		logrus.SetOutput(logfile)
		logrus.StandardLogger().ExitFunc = func(code int) {
			if onExit != nil {
				onExit()
			}
			os.Exit(code)
		}
		onExit = func() {
			logfile.Close()
		}
	}
	logrus.WithField("arguments", os.Args).Debug("Program started.")
	return nil
}

// meterFlags returns the flags of the run command. The root command accepts
// them too, each command gets its own flag values.
func meterFlags() []cli.Flag {
	def := config.Default()

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a JSON config file, flags given on the command line take precedence",
		},
		&cli.IntFlag{
			Name:    "capacity",
			Aliases: []string{"n"},
			Usage:   "number of samples shown in the chart",
			Value:   def.Capacity,
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "time between two samples, the default depends on the platform",
			Value:   def.PollInterval(),
		},
		&cli.Uint64Flag{
			Name:  "ticks",
			Usage: "stop after the given number of samples, 0 means run until interrupted",
		},
		&cli.BoolFlag{
			Name:  "normalize",
			Usage: "divide the load by the number of logical CPUs",
		},
		&cli.StringFlag{
			Name:  "source-command",
			Usage: "sample the load by running the given command instead of querying the system, the first field of its output is used, e.g. \"ssh host cat /proc/loadavg\"",
		},
		&cli.StringSliceFlag{
			Name:    "sink",
			Aliases: []string{"s"},
			Usage:   "where to draw the chart, one or more of [terminal, png, web]",
			Value:   cli.NewStringSlice(def.Sinks...),
		},
		&cli.StringFlag{
			Name:  "png-path",
			Usage: "output file of the png sink",
			Value: def.PNG.Path,
		},
		&cli.IntFlag{
			Name:  "png-width",
			Usage: "width of the png chart in pixels",
			Value: output.DefaultChartWidth,
		},
		&cli.IntFlag{
			Name:  "png-height",
			Usage: "height of the png chart in pixels",
			Value: output.DefaultChartHeight,
		},
		&cli.StringFlag{
			Name:  "listen",
			Usage: "address of the web sink",
			Value: def.Web.Listen,
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored terminal output",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "loadmeter",
		HelpName:             "loadmeter",
		Usage:                "plots the CPU load average as a rolling chart",
		Description:          "Samples the 1-minute load average in a fixed interval and draws the most recent samples to the terminal, a PNG file or a web page.",
		Version:              version.LoadmeterVersion.String(),
		EnableBashCompletion: true,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "one of [trace, debug, info, warn, error, fatal, panic]",
				Value:   "panic",
			},
			&cli.StringFlag{
				Name:  "log-path",
				Usage: "path to the logfile, or \"-\" for stdout, or \"--\" for stderr",
				Value: "--",
			},
		}, meterFlags()...),
		Action: runMeter,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "samples the load and draws the chart, this is the default",
				Flags:  meterFlags(),
				Action: runMeter,
			},
			{
				Name:   "sample",
				Usage:  "prints the 1, 5 and 15 minute load averages once",
				Action: sample,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "divide the load by the number of logical CPUs",
					},
				},
			},
			{
				Name:   "info",
				Usage:  "prints information about the system and the default poll policy",
				Action: info,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the information as JSON",
					},
				},
			},
		},
	}
}

// RunApp runs the loadmeter command line interface with the given arguments.
func RunApp(args []string) {
	err := newApp().Run(args)
	if err != nil {
		fmt.Println(err)
		logrus.Error(err)
		logrus.Fatal("Aborting.")
	}
	if onExit != nil {
		onExit()
	}
}

func pollPolicy() string {
	if system.IsPollingAverse() {
		return "polling averse"
	}
	return "polling tolerant"
}
