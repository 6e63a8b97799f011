package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// StarterYAML is the commented config written by "todo-ci init". Every
// value matches DefaultConfig.
const StarterYAML = `# todo-ci configuration
# Generated by: todo-ci init
#
# Command-line flags override these values, and TODOCI_* environment
# variables override the file.

# Skip hidden files and .gitignore/.ignore rules unless true.
# .tdignore is always honored.
no_ignore: false

# Exit 0 even when overdue todos are found.
no_error: false

# Fail the run (exit 2) when a file cannot be scanned.
strict: false

# Only scan files whose path or name matches this glob.
pattern: "*"

# Fixed UTC offset used to decide what "today" is.
timezone_offset: "+00:00"

# concise, overdue-only or default
display_mode: default

# text, json or csv
output: text

log:
  level: warn
  format: text
  # file: todo-ci.log

# webhooks:
#   - name: ci-notify
#     url: "https://example.com/hooks/todo-ci"
#     token: "${TODOCI_WEBHOOK_TOKEN}"
#     trigger: on_overdue
#     timeout: 10s
`

// ErrExists is returned when a starter config would overwrite a file.
var ErrExists = errors.New("config file already exists")

// WriteStarter writes StarterYAML to path. It never overwrites an existing file.
func WriteStarter(path string) error {
	// #nosec G302 G304 -- config file doesn't need restrictive permissions
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s (will not overwrite)", ErrExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if _, err := f.WriteString(StarterYAML); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return f.Close()
}
