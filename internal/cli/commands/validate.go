package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/todoci/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a todo-ci configuration file without scanning.

Without an argument, .todoci.yaml, .todoci.yml or .todoci.toml in the
current directory is validated.

Checks:
  - YAML or TOML syntax
  - Timezone offset format
  - Filename pattern syntax
  - Display mode, output format and log settings
  - Webhook URLs and triggers`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	configPath := ""
	if len(args) > 0 {
		configPath = args[0]
	} else {
		configPath = config.Discover(".")
	}
	if configPath == "" {
		return errors.New("no config file given and none of .todoci.yaml, .todoci.yml, .todoci.toml found")
	}

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Pattern:         %s\n", cfg.Pattern)
	fmt.Fprintf(out, "  Timezone offset: %s\n", cfg.TimezoneOffset)
	fmt.Fprintf(out, "  No ignore:       %t\n", cfg.NoIgnore)
	fmt.Fprintf(out, "  No error:        %t\n", cfg.NoError)
	fmt.Fprintf(out, "  Strict:          %t\n", cfg.Strict)
	fmt.Fprintf(out, "  Display mode:    %s\n", cfg.DisplayMode)
	fmt.Fprintf(out, "  Output:          %s\n", cfg.Output)
	fmt.Fprintf(out, "  Log:             level=%s format=%s\n", cfg.Log.Level, cfg.Log.Format)

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			fmt.Fprintf(out, "  %d. %s (trigger: %s, timeout: %s)\n", i+1, wh.DisplayName(), wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
