package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fkie-cad/loadmeter"
	"github.com/fkie-cad/loadmeter/config"
	"github.com/fkie-cad/loadmeter/output"
	"github.com/fkie-cad/loadmeter/system"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"
)

func runMeter(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		return errors.Newf("expected no arguments, got %d", c.NArg())
	}

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"capacity": cfg.Capacity,
		"interval": cfg.PollInterval(),
		"source":   cfg.Source,
		"sinks":    cfg.Sinks,
	}).Info("Starting meter.")

	if !cfg.Color {
		color.NoColor = true
	}

	window, err := loadmeter.NewSampleWindow(cfg.Capacity, cfg.PollInterval())
	if err != nil {
		return err
	}
	source, err := buildSource(cfg)
	if err != nil {
		return err
	}
	sink, err := buildSinks(c, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meter := loadmeter.NewMeter(window, source, sink, loadmeter.WithMaxTicks(ticksFromContext(c)))
	err = meter.Run(ctx)

	closeErr := sink.Close()
	if closeErr != nil {
		logrus.WithError(closeErr).Error("Could not close chart.")
	}
	if err != nil {
		return errors.Errorf("meter failed, reason: %w", err)
	}
	logrus.WithField("ticks", meter.Window().Ticks()).Info("Meter stopped.")
	return nil
}

// flagContext returns the innermost context in which the flag was given
// explicitly. The meter flags are accepted both before and after the run
// command, so the flag may be set on any context of the lineage.
func flagContext(c *cli.Context, name string) (*cli.Context, bool) {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx, true
		}
	}
	return nil, false
}

func ticksFromContext(c *cli.Context) uint64 {
	if ctx, ok := flagContext(c, "ticks"); ok {
		return ctx.Uint64("ticks")
	}
	return 0
}

// configFromContext loads the config file, if any, and applies all flags
// that were given explicitly.
func configFromContext(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if ctx, ok := flagContext(c, "config"); ok {
		var err error
		cfg, err = config.Load(ctx.String("config"))
		if err != nil {
			return nil, err
		}
	}

	if ctx, ok := flagContext(c, "capacity"); ok {
		cfg.Capacity = ctx.Int("capacity")
	}
	if ctx, ok := flagContext(c, "interval"); ok {
		cfg.Interval = config.Duration(ctx.Duration("interval"))
	}
	if ctx, ok := flagContext(c, "normalize"); ok {
		cfg.Normalize = ctx.Bool("normalize")
	}
	if ctx, ok := flagContext(c, "source-command"); ok {
		cfg.Source = config.SourceCommand
		cfg.Command = ctx.String("source-command")
	}
	if ctx, ok := flagContext(c, "sink"); ok {
		cfg.Sinks = config.NormalizeSinkNames(ctx.StringSlice("sink"))
	}
	if ctx, ok := flagContext(c, "png-path"); ok {
		cfg.PNG.Path = ctx.String("png-path")
	}
	if ctx, ok := flagContext(c, "png-width"); ok {
		cfg.PNG.Width = ctx.Int("png-width")
	}
	if ctx, ok := flagContext(c, "png-height"); ok {
		cfg.PNG.Height = ctx.Int("png-height")
	}
	if ctx, ok := flagContext(c, "listen"); ok {
		cfg.Web.Listen = ctx.String("listen")
	}
	if ctx, ok := flagContext(c, "no-color"); ok {
		cfg.Color = !ctx.Bool("no-color")
	}

	err := cfg.Validate()
	if err != nil {
		return nil, errors.Errorf("invalid configuration, reason: %w", err)
	}
	return cfg, nil
}

func buildSource(cfg *config.Config) (loadmeter.Source, error) {
	if cfg.Source != config.SourceCommand {
		return system.NewLoadSource(cfg.Normalize), nil
	}
	if cfg.Normalize {
		logrus.Warn("Normalization is not supported for load commands, ignoring it.")
	}
	src, err := system.NewCommandSource(cfg.Command, system.DefaultCommandTimeout)
	if err != nil {
		return nil, errors.Errorf("invalid load command, reason: %w", err)
	}
	logrus.WithField("command", src.String()).Debug("Sampling load with command.")
	return src, nil
}

func buildSinks(c *cli.Context, cfg *config.Config) (*output.MultiSink, error) {
	multi := output.NewMultiSink()
	for _, name := range cfg.Sinks {
		var sink loadmeter.ChartSink
		switch name {
		case config.SinkTerminal:
			term := output.NewTerminalSink(c.App.Writer, output.DefaultTerminalRows, describeHost())
			if in, ok := c.App.Reader.(*os.File); ok {
				err := term.AttachKeys(in)
				if err != nil {
					logrus.WithError(err).Warn("Chart cannot be closed by key press.")
				}
			}
			sink = term
		case config.SinkPNG:
			png, err := output.NewPNGSink(cfg.PNG.Path, cfg.PNG.Width, cfg.PNG.Height)
			if err != nil {
				multi.Close()
				return nil, err
			}
			sink = png
		case config.SinkWeb:
			gin.SetMode(gin.ReleaseMode)
			web := output.NewWebSink(cfg.PNG.Width, cfg.PNG.Height, cfg.PollInterval())
			err := web.Start(cfg.Web.Listen)
			if err != nil {
				multi.Close()
				return nil, err
			}
			sink = web
		default:
			multi.Close()
			return nil, errors.Newf("unknown sink \"%s\"", name)
		}
		multi.Sinks = append(multi.Sinks, sink)
	}
	return multi, nil
}

func describeHost() string {
	info, err := system.GetInfo()
	if err != nil {
		logrus.WithError(err).Warn("Could not retrieve system info.")
		return ""
	}
	return fmt.Sprintf("%s, %s %s (%s), %d CPUs, %s RAM, %s",
		info.Hostname, info.OSName, info.OSVersion, info.OSArch,
		info.NumCPUs, humanize.IBytes(info.TotalRAM), pollPolicy())
}
