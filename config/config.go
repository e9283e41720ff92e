// Package config loads loadmeter configuration files. A configuration file
// is a JSON document which is validated against an embedded schema before
// it is decoded.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/fkie-cad/loadmeter"
	"github.com/fkie-cad/loadmeter/output"
	"github.com/fkie-cad/loadmeter/system"

	"github.com/rjNemo/underscore"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/targodan/go-errors"
)

const schemaURL = "https://github.com/fkie-cad/loadmeter/schema/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

// Names of the supported load sources.
const (
	SourceSystem  = "system"
	SourceCommand = "command"
)

// Names of the supported sinks.
const (
	SinkTerminal = "terminal"
	SinkPNG      = "png"
	SinkWeb      = "web"
)

// SinkNames lists all supported sinks.
var SinkNames = []string{SinkTerminal, SinkPNG, SinkWeb}

// DefaultListen is the default address of the web sink.
const DefaultListen = "127.0.0.1:8080"

// DefaultPNGPath is the default output file of the png sink.
const DefaultPNGPath = "loadmeter.png"

// Duration is a time.Duration which is written as a Go duration string,
// e.g. "1.5s", in configuration files.
type Duration time.Duration

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Errorf("invalid duration \"%s\", reason: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// PNG configures the png sink.
type PNG struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Web configures the web sink.
type Web struct {
	Listen string `json:"listen"`
}

// Config is the complete configuration of a meter.
type Config struct {
	Capacity  int      `json:"capacity"`
	Interval  Duration `json:"interval"`
	Normalize bool     `json:"normalize"`
	Source    string   `json:"source"`
	Command   string   `json:"command"`
	Sinks     []string `json:"sinks"`
	PNG       PNG      `json:"png"`
	Web       Web      `json:"web"`
	Color     bool     `json:"color"`
}

// Default returns the built-in configuration, which samples the local
// system and draws to the terminal using the poll interval suited for
// the platform.
func Default() *Config {
	return &Config{
		Capacity: loadmeter.DefaultCapacity,
		Interval: Duration(loadmeter.DefaultInterval(system.IsPollingAverse())),
		Source:   SourceSystem,
		Sinks:    []string{SinkTerminal},
		PNG: PNG{
			Path:   DefaultPNGPath,
			Width:  output.DefaultChartWidth,
			Height: output.DefaultChartHeight,
		},
		Web: Web{
			Listen: DefaultListen,
		},
		Color: true,
	}
}

// Load reads and validates the configuration file at path. Keys missing in
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("could not read config file \"%s\", reason: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Errorf("invalid config file \"%s\", reason: %w", path, err)
	}
	return cfg, nil
}

// Parse validates and decodes a JSON configuration on top of the defaults.
func Parse(data []byte) (*Config, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var doc interface{}
	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, errors.Errorf("could not parse JSON, reason: %w", err)
	}
	err = schema.Validate(doc)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	err = json.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Sinks = NormalizeSinkNames(cfg.Sinks)
	return cfg, cfg.Validate()
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, errors.Errorf("could not load config schema, reason: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, errors.Errorf("could not compile config schema, reason: %w", err)
	}
	return schema, nil
}

// NormalizeSinkNames lower-cases and trims sink names, splits comma
// separated lists and removes empty and duplicate entries.
func NormalizeSinkNames(names []string) []string {
	var split []string
	for _, name := range names {
		split = append(split, strings.Split(name, ",")...)
	}
	split = underscore.Map(split, func(name string) string {
		return strings.ToLower(strings.TrimSpace(name))
	})
	split = underscore.Filter(split, func(name string) bool {
		return name != ""
	})
	return underscore.Unique(split)
}

// Validate checks the parts of the configuration that depend on each other
// or are set from the command line.
func (c *Config) Validate() error {
	if c.Capacity < 1 {
		return errors.Newf("capacity must be at least 1, got %d", c.Capacity)
	}
	if c.Interval <= 0 {
		return errors.Newf("interval must be positive, got %v", time.Duration(c.Interval))
	}
	switch c.Source {
	case SourceSystem:
	case SourceCommand:
		if strings.TrimSpace(c.Command) == "" {
			return errors.New("source \"command\" requires a command")
		}
	default:
		return errors.Newf("unknown source \"%s\", must be one of [%s, %s]", c.Source, SourceSystem, SourceCommand)
	}
	if len(c.Sinks) == 0 {
		return errors.New("at least one sink is required")
	}
	for _, sink := range c.Sinks {
		if !underscore.Contains(SinkNames, sink) {
			return errors.Newf("unknown sink \"%s\", must be one of [%s]", sink, strings.Join(SinkNames, ", "))
		}
	}
	if underscore.Contains(c.Sinks, SinkPNG) && c.PNG.Path == "" {
		return errors.New("sink \"png\" requires a path")
	}
	if underscore.Contains(c.Sinks, SinkWeb) && c.Web.Listen == "" {
		return errors.New("sink \"web\" requires a listen address")
	}
	return nil
}

// PollInterval returns the interval as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interval)
}
