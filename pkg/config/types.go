// Package config provides configuration loading and validation for todo-ci.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// NoIgnore disables hidden-file and standard ignore-file handling.
	// The .tdignore file is honored regardless.
	NoIgnore bool `yaml:"no_ignore" toml:"no_ignore"`

	// NoError keeps the exit status at zero when overdue todos are found.
	NoError bool `yaml:"no_error" toml:"no_error"`

	// Strict makes files that could not be scanned fail the run.
	Strict bool `yaml:"strict" toml:"strict"`

	// Pattern is the filename glob restricting which files are scanned.
	Pattern string `yaml:"pattern" toml:"pattern"`

	// TimezoneOffset is the fixed UTC offset ([+|-]HH:MM) defining "today".
	TimezoneOffset string `yaml:"timezone_offset" toml:"timezone_offset"`

	// DisplayMode is one of concise, overdue-only or default.
	DisplayMode string `yaml:"display_mode" toml:"display_mode"`

	// Output is the report format: text, json or csv.
	Output string `yaml:"output" toml:"output"`

	// NoColor disables colorized text output.
	NoColor bool `yaml:"no_color" toml:"no_color"`

	Log      LogConfig       `yaml:"log" toml:"log"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks,omitempty"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" toml:"level"`

	// Format is one of text, json or logfmt.
	Format string `yaml:"format" toml:"format"`

	// File, when set, additionally writes log records to a rotated file.
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnOverdue fires only when overdue todos are found (default).
	WebhookTriggerOnOverdue WebhookTrigger = "on_overdue"
	// WebhookTriggerAlways fires after every scan.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending scan reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_overdue" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// DisplayName returns the webhook's name, or its URL when unnamed.
func (w *WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
