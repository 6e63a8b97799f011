package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/todoci/pkg/scanner"
)

// Default values for configuration.
const (
	DefaultDisplayMode    = "default"
	DefaultOutput         = "text"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// DefaultFileNames are the config files looked up in the scan root when no
// explicit path is given, in order.
var DefaultFileNames = []string{".todoci.yaml", ".todoci.yml", ".todoci.toml"}

// Environment variable names.
const (
	EnvTimezoneOffset = "TODOCI_TIMEZONE_OFFSET"
	EnvDisplayMode    = "TODOCI_DISPLAY_MODE"
	EnvPattern        = "TODOCI_PATTERN"
	EnvNoError        = "TODOCI_NO_ERROR"
	EnvNoColor        = "NO_COLOR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pattern:        scanner.DefaultPattern,
		TimezoneOffset: scanner.DefaultOffset,
		DisplayMode:    DefaultDisplayMode,
		Output:         DefaultOutput,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if offset := os.Getenv(EnvTimezoneOffset); offset != "" {
		c.TimezoneOffset = offset
	}
	if mode := os.Getenv(EnvDisplayMode); mode != "" {
		c.DisplayMode = mode
	}
	if pattern := os.Getenv(EnvPattern); pattern != "" {
		c.Pattern = pattern
	}
	if v := os.Getenv(EnvNoError); v != "" {
		noError, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvNoError, v)
		}
		c.NoError = noError
	}
	// Any non-empty value disables color, see https://no-color.org.
	if os.Getenv(EnvNoColor) != "" {
		c.NoColor = true
	}
	return nil
}
