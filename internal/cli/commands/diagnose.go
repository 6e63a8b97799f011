package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/todoci/pkg/config"
	"github.com/ccollicutt/todoci/pkg/scanner"
	"github.com/ccollicutt/todoci/pkg/webhook"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigFile string
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// reachTimeout bounds the verbose webhook reachability check.
const reachTimeout = 5 * time.Second

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [ROOT]",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks the setup a scan of ROOT would use:
- Config file presence and syntax
- Root directory accessibility
- Timezone offset and filename pattern
- Ignore files present under ROOT
- Webhook configuration (and reachability with -v)

Example:
  todo-ci diagnose
  todo-ci diagnose -v ./src  # verbose output`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := DefaultRoot
			if len(args) > 0 {
				root = args[0]
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (default: discovered in ROOT)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, root string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Locate the config file
	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = config.Discover(root)
	}
	result := checkConfigExists(configPath, opts.ConfigFile != "")
	results = append(results, result)

	// 2. Parse config file
	cfg := config.DefaultConfig()
	var rawHooks []config.WebhookConfig
	if configPath == "" {
		// Defaults plus environment overrides.
		resolved, _, err := config.Resolve(ctx, "", root)
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:   "Environment",
				Status:  "error",
				Message: err.Error(),
			})
			return finishDiagnostics(w, results, opts)
		}
		cfg = resolved
	} else if result.Status != "error" {
		var parsed *config.Config
		parsed, rawHooks, result = checkConfigParseable(ctx, configPath)
		results = append(results, result)
		if parsed == nil {
			// Point at the offending webhook entries when the file parsed
			// but failed validation.
			results = append(results, checkWebhooks(ctx, rawHooks, nil, opts)...)
			return finishDiagnostics(w, results, opts)
		}
		cfg = parsed
	}

	// 3. Check the root
	results = append(results, checkRoot(root))

	// 4. Check timezone offset and pattern
	results = append(results, checkOffset(cfg.TimezoneOffset))
	results = append(results, checkPattern(cfg.Pattern))

	// 5. Check ignore files
	results = append(results, checkIgnoreFiles(root, cfg.NoIgnore))

	// 6. Check webhooks configuration
	results = append(results, checkWebhooks(ctx, rawHooks, cfg.Webhooks, opts)...)

	return finishDiagnostics(w, results, opts)
}

func checkConfigExists(path string, explicit bool) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	if path == "" {
		result.Status = "ok"
		result.Message = "No config file found, using defaults"
		result.Suggests = []string{"Use 'todo-ci init' to generate a starter config"}
		return result
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'todo-ci init' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Config file is empty, defaults apply"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	if !explicit {
		result.Details = []string{"Discovered in the scan root"}
	}
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, []config.WebhookConfig, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Read(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.HasSuffix(path, ".toml") {
			result.Suggests = []string{"Check TOML syntax - strings must be quoted"}
		} else {
			result.Suggests = []string{"Check YAML syntax - ensure proper indentation (use spaces, not tabs)"}
		}
		return nil, nil, result
	}

	// Validate expands tokens in place, so keep the hooks as written.
	raw := append([]config.WebhookConfig(nil), cfg.Webhooks...)
	if err := config.Validate(cfg); err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Invalid configuration: %v", err)
		return nil, raw, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Display mode: %s", cfg.DisplayMode),
		fmt.Sprintf("Output: %s", cfg.Output),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, raw, result
}

func checkRoot(root string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Scan Root: %s", root),
	}

	info, err := os.Stat(root)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access root: %v", err)
		result.Suggests = []string{"Pass an existing directory as ROOT"}
		return result
	}

	if !info.IsDir() {
		result.Status = "ok"
		result.Message = "Root is a single file"
		return result
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read directory: %v", err)
		result.Suggests = []string{"Check directory permissions"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Readable directory (%d entries)", len(entries))
	return result
}

func checkOffset(offset string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Timezone Offset",
	}

	loc, err := scanner.ParseOffset(offset)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		result.Suggests = []string{"Use [+|-]HH:MM, for example +00:00 or -05:00"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%s (today is %s)", offset, time.Now().In(loc).Format(scanner.DateLayout))
	return result
}

func checkPattern(pattern string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Filename Pattern",
	}

	filter, err := scanner.NewNameFilter(pattern)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		result.Suggests = []string{"Check for unbalanced [ ] or { } in the glob"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Pattern: %s", filter.Pattern())
	return result
}

func checkIgnoreFiles(root string, noIgnore bool) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Ignore Files",
	}

	names := append([]string{}, scanner.StandardIgnoreFiles...)
	names = append(names, filepath.Join(".git", "info", "exclude"), scanner.IgnoreFileName)

	var found []string
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			found = append(found, name)
		}
	}

	result.Status = "ok"
	if len(found) == 0 {
		result.Message = "No ignore files in root"
	} else {
		result.Message = fmt.Sprintf("Found: %s", strings.Join(found, ", "))
	}

	if noIgnore {
		result.Details = []string{fmt.Sprintf("no_ignore is set: only %s files apply", scanner.IgnoreFileName)}
		for _, name := range found {
			if name != scanner.IgnoreFileName {
				result.Status = "warning"
				result.Suggests = []string{"Standard ignore files are present but disabled by no_ignore"}
				break
			}
		}
	}

	return result
}

func finishDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) error {
	if errCount := printDiagnostics(w, results, opts); errCount > 0 {
		return fmt.Errorf("%d diagnostic check(s) failed", errCount)
	}
	return nil
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	fmt.Fprintln(w, "=== todo-ci Configuration Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before scanning.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}

	return errCount
}

// checkWebhooks inspects the hooks as written (raw) alongside their
// validated form, whose tokens have been expanded.
func checkWebhooks(ctx context.Context, raw, validated []config.WebhookConfig, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(raw) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for i, wh := range raw {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", wh.DisplayName()),
		}

		issues := []string{}
		warnings := []string{}

		if wh.URL == "" {
			issues = append(issues, "Missing url")
		} else {
			u, err := url.Parse(wh.URL)
			if err != nil {
				issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
			} else if u.Scheme != "http" && u.Scheme != "https" {
				issues = append(issues, fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme))
			} else if u.Host == "" {
				issues = append(issues, "URL must have a host")
			}
		}

		if wh.Trigger != "" {
			switch wh.Trigger {
			case config.WebhookTriggerOnOverdue, config.WebhookTriggerAlways, config.WebhookTriggerNever:
				// Valid
			default:
				issues = append(issues, fmt.Sprintf("Invalid trigger %q (use on_overdue, always, or never)", wh.Trigger))
			}
		}

		// A token naming an unset env var expands to nothing.
		if strings.HasPrefix(wh.Token, "$") && i < len(validated) && validated[i].Token == "" {
			warnings = append(warnings, fmt.Sprintf("Token references an unset env var: %s", wh.Token))
		}

		if len(issues) > 0 {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		} else if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			trigger := wh.Trigger
			if trigger == "" {
				trigger = config.WebhookTriggerOnOverdue
			}
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", trigger)
			if opts.Verbose {
				result.Details = []string{fmt.Sprintf("URL: %s", wh.URL)}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		client := webhook.NewClient()
		for _, wh := range raw {
			if wh.URL == "" {
				continue
			}

			result := DiagnosticResult{
				Check: fmt.Sprintf("Webhook Connectivity: %s", wh.DisplayName()),
			}
			if err := client.CheckReachable(ctx, wh.URL, reachTimeout); err != nil {
				result.Status = "warning"
				result.Message = fmt.Sprintf("Cannot connect: %v", err)
				result.Suggests = []string{
					"Check if the webhook URL is correct",
					"Verify network connectivity",
				}
			} else {
				result.Status = "ok"
				result.Message = "Reachable"
			}
			results = append(results, result)
		}
	}

	return results
}
