package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/todoci/pkg/config"
)

// execute runs cmd with args, capturing its output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate [config-file]", cmd.Use)
	assert.Contains(t, cmd.Long, "Validate")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	assert.Equal(t, "version", cmd.Use)

	out, err := execute(t, cmd)
	require.NoError(t, err)
	assert.Equal(t, "todo-ci "+Version+"\n", out)
}

func TestRunValidate_Success(t *testing.T) {
	clearScanEnv(t)
	configPath := filepath.Join(t.TempDir(), "todoci.yaml")
	content := `pattern: "*.go"
timezone_offset: "+05:30"
display_mode: overdue-only
webhooks:
  - name: ci
    url: https://example.com/hook
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	out, err := execute(t, NewValidateCommand(), configPath)

	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "Pattern:         *.go")
	assert.Contains(t, out, "Timezone offset: +05:30")
	assert.Contains(t, out, "Display mode:    overdue-only")
	assert.Contains(t, out, "1. ci (trigger: on_overdue, timeout: 10s)")
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	clearScanEnv(t)
	configPath := filepath.Join(t.TempDir(), "todoci.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: xml\n"), 0644))

	_, err := execute(t, NewValidateCommand(), configPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "output")
}

func TestRunValidate_MissingFile(t *testing.T) {
	clearScanEnv(t)

	_, err := execute(t, NewValidateCommand(), filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
}

func TestRunValidate_Discovered(t *testing.T) {
	clearScanEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".todoci.toml"), []byte("strict = true\n"), 0644))
	chdir(t, dir)

	out, err := execute(t, NewValidateCommand())

	require.NoError(t, err)
	assert.Contains(t, out, "Validating .todoci.toml")
	assert.Contains(t, out, "Strict:          true")
}

func TestRunValidate_NothingToValidate(t *testing.T) {
	clearScanEnv(t)
	chdir(t, t.TempDir())

	_, err := execute(t, NewValidateCommand())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file")
}

func TestRunInit(t *testing.T) {
	clearScanEnv(t)
	dir := t.TempDir()

	out, err := execute(t, NewInitCommand(), dir)
	require.NoError(t, err)

	path := filepath.Join(dir, ".todoci.yaml")
	assert.Contains(t, out, "Wrote starter config to: "+path)

	// The starter config loads and matches the defaults.
	cfg, err := config.Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().TimezoneOffset, cfg.TimezoneOffset)
	assert.Equal(t, config.DefaultConfig().Pattern, cfg.Pattern)

	// A second run refuses to overwrite.
	_, err = execute(t, NewInitCommand(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrExists)
}

func TestRunInit_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := execute(t, NewInitCommand(), file)

	require.Error(t, err)
	assert.True(t, strings.HasSuffix(err.Error(), "is not a directory"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+): change the working directory
// for the duration of the test and restore it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
