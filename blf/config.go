package blf

// NOTE: only the config file format lives here. Everything else in this
// package takes already-parsed values.

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
)

const (
	DefaultOutputFolder = "Content"
)

type ScreenshotConfig struct {
	Format          string `toml:"format"`
	ThumbnailWidth  int    `toml:"thumbnail_width"`
	ThumbnailHeight int    `toml:"thumbnail_height"`
	Background      string `toml:"background"`
}

// Everything the extract command can be told through a config file.
// Example:
//
//	output = "Content"
//	workers = 4
//	script = "decide.lua"
//	hex = false
//
//	[decisions]
//	screenshot = "always"
//	theaterfilm = "skip"
//
//	[screenshots]
//	format = "png"
//	thumbnail_width = 160
//	background = "#202020"
type Config struct {
	Output      string            `toml:"output"`
	Workers     int               `toml:"workers"`
	Script      string            `toml:"script"`
	HexExport   bool              `toml:"hex"`
	Decisions   map[string]string `toml:"decisions"`
	Screenshots ScreenshotConfig  `toml:"screenshots"`
}

func DefaultConfig() *Config {
	return &Config{
		Output:    DefaultOutputFolder,
		Workers:   runtime.NumCPU(),
		Decisions: make(map[string]string),
		Screenshots: ScreenshotConfig{
			Format:     DefaultScreenshotFormat,
			Background: DefaultBackground,
		},
	}
}

// Parse a toml config on top of the defaults
func ParseConfig(raw []byte) (*Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, err
	}
	config.ReasonableDefaults()
	return config, nil
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(raw)
}

func (c *Config) ReasonableDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutputFolder
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Screenshots.Format == "" {
		c.Screenshots.Format = DefaultScreenshotFormat
	}
	if c.Screenshots.Background == "" {
		c.Screenshots.Background = DefaultBackground
	}
	if c.Decisions == nil {
		c.Decisions = make(map[string]string)
	}
}

// The standing decisions from the [decisions] table. Keys are kind names
// or header tags.
func (c *Config) DecisionMap() (DecisionMap, error) {
	result := make(DecisionMap)
	for key, value := range c.Decisions {
		kind, err := ParseContentKind(key)
		if err != nil {
			return nil, err
		}
		decision, err := ParseDecision(value)
		if err != nil {
			return nil, err
		}
		result[kind] = decision
	}
	return result, nil
}

func (c *Config) ScreenshotOptions() (ScreenshotOptions, error) {
	result := ScreenshotOptions{
		Format:          c.Screenshots.Format,
		ThumbnailWidth:  c.Screenshots.ThumbnailWidth,
		ThumbnailHeight: c.Screenshots.ThumbnailHeight,
	}
	if _, err := result.OutputFormat(); err != nil {
		return result, err
	}
	bg, err := ParseBackground(c.Screenshots.Background)
	if err != nil {
		return result, err
	}
	result.Background = bg
	return result, nil
}
