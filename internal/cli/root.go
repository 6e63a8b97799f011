// Package cli provides the command-line interface for todo-ci.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/todoci/internal/cli/commands"
	"github.com/ccollicutt/todoci/internal/cli/plugins"
)

// Execute runs the root command against the process arguments and returns
// the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs the CLI with the given arguments and returns the exit code.
//
// Exit codes:
//
//	0 - no overdue todos (or no_error is set)
//	1 - overdue todos found
//	2 - configuration or runtime error
func Run(args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// The first argument may be a plugin command, unless it names a path.
	candidate := pluginCandidate(rootCmd, args)
	if candidate != "" {
		if pluginPath, err := plugins.FindPlugin(candidate); err == nil {
			return plugins.Execute(pluginPath, args[1:], stdout, stderr)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if candidate != "" {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(candidate))
			return 2
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it could name a plugin:
// not a flag, not a built-in command and not an existing path.
func pluginCandidate(rootCmd *cobra.Command, args []string) string {
	if len(args) == 0 {
		return ""
	}
	name := args[0]
	if name == "" || name[0] == '-' {
		return ""
	}
	if isBuiltinCommand(rootCmd, name) {
		return ""
	}
	if _, err := os.Stat(name); err == nil {
		return ""
	}
	return name
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command. Invoked without a
// subcommand it scans ROOT, so "todo-ci ./src" equals "todo-ci scan ./src".
func NewRootCommand() *cobra.Command {
	opts := &commands.ScanOptions{}

	rootCmd := &cobra.Command{
		Use:   "todo-ci [ROOT]",
		Short: "Fail CI when dated todos are overdue",
		Long: `todo-ci scans a source tree for dated todo markers and reports which are
overdue.

A marker looks like:

  // @todo(2025-03-01): remove the legacy endpoint

Markers whose date is before today are overdue. Markers whose date cannot be
parsed are reported as malformed. Overdue todos make the run exit 1 so that a
CI pipeline fails.

PLUGINS:
  todo-ci supports plugins for extended functionality. Plugins are standalone
  binaries named todo-ci-<command> that are automatically discovered and
  invoked.

  Plugin locations (searched in order):
    1. Same directory as the todo-ci binary
    2. $TODOCI_PLUGIN_DIR
    3. ~/.todo-ci/plugins/
    4. Anywhere in PATH`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunScan(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddScanFlags(rootCmd, opts)

	// Add subcommands
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
