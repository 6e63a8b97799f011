package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/todoci/internal/logging"
	"github.com/ccollicutt/todoci/pkg/config"
	"github.com/ccollicutt/todoci/pkg/output"
	"github.com/ccollicutt/todoci/pkg/scanner"
	"github.com/ccollicutt/todoci/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// DefaultRoot is scanned when no ROOT argument is given.
const DefaultRoot = "./"

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	ConfigFile     string
	NoIgnore       bool
	NoError        bool
	Strict         bool
	DisplayMode    string
	Pattern        string
	TimezoneOffset string
	Output         string
	NoColor        bool
	LogLevel       string
	LogFormat      string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string

	// Now returns the reference instant. Defaults to time.Now.
	Now func() time.Time
}

const scanLong = `Scan a directory tree for @todo(YYYY-MM-DD): markers and report which are
overdue.

Hidden files and paths matched by .gitignore, .ignore and .git/info/exclude
are skipped unless --no-ignore is given. Paths matched by .tdignore files are
always skipped.

Exit codes:
  0 - No overdue todos (or --no-error)
  1 - Overdue todos found
  2 - Configuration or runtime error`

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [ROOT]",
		Short: "Scan a directory for overdue todos",
		Long:  scanLong,
		Example: `  todo-ci scan
  todo-ci scan ./src --pattern '*.go' --display-mode overdue-only
  todo-ci scan -t -05:00 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunScan(cmd, args, opts)
		},
	}

	AddScanFlags(cmd, opts)
	return cmd
}

// AddScanFlags registers the scan flags on cmd. The root command shares them
// so that "todo-ci [ROOT]" behaves like "todo-ci scan [ROOT]".
func AddScanFlags(cmd *cobra.Command, opts *ScanOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (default: .todoci.yaml, .todoci.yml or .todoci.toml in ROOT)")
	flags.BoolVarP(&opts.NoIgnore, "no-ignore", "n", false, "Don't skip hidden files or honor .gitignore/.ignore (.tdignore still applies)")
	flags.BoolVarP(&opts.NoError, "no-error", "e", false, "Exit 0 even when overdue todos are found")
	flags.BoolVar(&opts.Strict, "strict", false, "Exit 2 when a file cannot be scanned")
	flags.StringVarP(&opts.DisplayMode, "display-mode", "d", config.DefaultDisplayMode, "Detail level (concise|overdue-only|default)")
	flags.StringVarP(&opts.Pattern, "pattern", "p", scanner.DefaultPattern, "Only scan files whose path or name matches this glob")
	flags.StringVarP(&opts.TimezoneOffset, "timezone-offset", "t", scanner.DefaultOffset, "UTC offset defining today, as [+|-]HH:MM")
	flags.StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (text|json|csv)")
	flags.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "Diagnostic log level (debug|info|warn|error)")
	flags.StringVar(&opts.LogFormat, "log-format", config.DefaultLogFormat, "Diagnostic log format (text|json|logfmt)")

	// Webhook flags
	flags.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	flags.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	flags.StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnOverdue), "When to fire webhook (on_overdue|always|never)")
}

// RunScan scans the tree and writes the report to the command's output.
func RunScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	ExitCode = 0

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root := DefaultRoot
	if len(args) > 0 {
		root = args[0]
	}

	cfg, configPath, err := config.Resolve(ctx, opts.ConfigFile, root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyScanFlags(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Validated above.
	loc, _ := scanner.ParseOffset(cfg.TimezoneOffset)
	mode, _ := output.ParseDisplayMode(cfg.DisplayMode)
	format, _ := output.ParseFormat(cfg.Output)

	logger, closer := logging.New(cmd.ErrOrStderr(), cfg.Log)
	defer closer.Close()
	if configPath != "" {
		logger.Debug("using config file", "path", configPath)
	}

	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()
	start := time.Now()

	s := scanner.New(scanner.WithNow(now), scanner.WithLogger(logger))
	result, err := s.Scan(ctx, scanner.Options{
		Root:     root,
		NoIgnore: cfg.NoIgnore,
		Pattern:  cfg.Pattern,
		Location: loc,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	report := output.NewReport(result, output.Metadata{
		Root:           root,
		ConfigFile:     configPath,
		Pattern:        cfg.Pattern,
		TimezoneOffset: cfg.TimezoneOffset,
		NoIgnore:       cfg.NoIgnore,
		ReferenceTime:  now.In(loc),
		StartedAt:      start,
		Duration:       time.Since(start),
	})
	logger.Info("scan complete",
		"run_id", report.Metadata.RunID,
		"files", report.Summary.FilesSearched,
		"overdue", report.Summary.OverdueCount,
		"errors", report.Summary.ErrorCount,
	)

	out := cmd.OutOrStdout()
	formatter, err := output.NewFormatter(format, output.FormatOptions{
		Mode:  mode,
		Color: useColor(out, cfg.NoColor),
		Width: terminalWidth(out),
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, out); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the scan)
	if len(cfg.Webhooks) > 0 {
		webhook.NewClient().Notify(ctx, cfg.Webhooks, report, logger)
	}

	if cfg.Strict && report.HasErrors() {
		return fmt.Errorf("%d file(s) could not be scanned", report.Summary.ErrorCount)
	}

	if report.HasOverdue() && !cfg.NoError {
		ExitCode = 1
	}

	return nil
}

// applyScanFlags overrides cfg with every flag set on the command line, and
// appends the --webhook-url hook, if any.
func applyScanFlags(cmd *cobra.Command, opts *ScanOptions, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("no-ignore") {
		cfg.NoIgnore = opts.NoIgnore
	}
	if flags.Changed("no-error") {
		cfg.NoError = opts.NoError
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.Strict
	}
	if flags.Changed("display-mode") {
		cfg.DisplayMode = opts.DisplayMode
	}
	if flags.Changed("pattern") {
		cfg.Pattern = opts.Pattern
	}
	if flags.Changed("timezone-offset") {
		cfg.TimezoneOffset = opts.TimezoneOffset
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.NoColor
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.LogFormat
	}

	if opts.WebhookURL != "" {
		cfg.Webhooks = append(cfg.Webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
			Timeout: config.DefaultWebhookTimeout,
		})
	}
}

// useColor enables color only for terminals.
func useColor(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return output.TerminalWidth(f)
	}
	return output.DefaultWidth
}
