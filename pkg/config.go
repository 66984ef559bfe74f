package minipas

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings of the minipas command.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type OutputConfig struct {
	Format    string `toml:"format"`
	Color     bool   `toml:"color"`
	MaxErrors int    `toml:"max_errors"`
}

const (
	FormatText   = "text"
	FormatYAML   = "yaml"
	FormatPascal = "pascal"
)

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseConfig decodes TOML from a string on top of the defaults.
func ParseConfig(data string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	switch c.Output.Format {
	case FormatText, FormatYAML, FormatPascal:
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}

	if c.Output.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.Output.MaxErrors)
	}

	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return level, nil
}
