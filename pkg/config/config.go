package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/todoci/pkg/output"
	"github.com/ccollicutt/todoci/pkg/scanner"
)

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Read parses a configuration file over the defaults and applies environment
// overrides, without validating. Callers layering command-line flags on top
// validate the merged result themselves.
func Read(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve returns the unvalidated configuration for a scan of root. An
// explicit path must exist; otherwise the default file names are tried in
// root and, when none exists, the defaults are used. The returned path is
// the file that was read, or "" for none.
func Resolve(ctx context.Context, explicit, root string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = Discover(root)
	}

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnvironmentOverrides(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Discover returns the first default config file present in root, or "".
func Discover(root string) string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return ""
	}

	for _, name := range DefaultFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		} else if !errors.Is(err, fs.ErrNotExist) {
			// Let Read surface the actual problem.
			return path
		}
	}
	return ""
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Validate checks a configuration for errors and fills in webhook defaults.
func Validate(cfg *Config) error {
	if _, err := scanner.ParseOffset(cfg.TimezoneOffset); err != nil {
		return fmt.Errorf("timezone_offset: %w", err)
	}

	if _, err := scanner.NewNameFilter(cfg.Pattern); err != nil {
		return fmt.Errorf("pattern: %w", err)
	}

	if _, err := output.ParseDisplayMode(cfg.DisplayMode); err != nil {
		return fmt.Errorf("display_mode: %w", err)
	}

	if _, err := output.ParseFormat(cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err)
		}
	}

	return nil
}

func validateLog(lc *LogConfig) error {
	if lc.Level == "" {
		lc.Level = DefaultLogLevel
	}
	if _, err := log.ParseLevel(lc.Level); err != nil {
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	switch lc.Format {
	case "":
		lc.Format = DefaultLogFormat
	case "text", "json", "logfmt":
		// Valid
	default:
		return fmt.Errorf("invalid format %q (must be text, json, or logfmt)", lc.Format)
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnOverdue, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_overdue, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnOverdue
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
