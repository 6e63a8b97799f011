package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/todoci/pkg/config"
	"github.com/ccollicutt/todoci/pkg/scanner"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand()

	if cmd.Use != "diagnose [ROOT]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	for _, flag := range []string{"verbose", "config"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestCheckConfigExists_NoConfig(t *testing.T) {
	result := checkConfigExists("", false)

	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "using defaults") {
		t.Errorf("Expected defaults message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_NotFound(t *testing.T) {
	result := checkConfigExists("/nonexistent/.todoci.yaml", true)

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "not found") {
		t.Errorf("Expected 'not found' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Empty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".todoci.yaml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	result := checkConfigExists(configPath, true)

	if result.Status != "warning" {
		t.Errorf("Expected warning status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "empty") {
		t.Errorf("Expected 'empty' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Directory(t *testing.T) {
	result := checkConfigExists(t.TempDir(), true)

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "directory") {
		t.Errorf("Expected 'directory' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Success(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".todoci.yaml")
	if err := os.WriteFile(configPath, []byte("strict: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	result := checkConfigExists(configPath, false)

	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "Found") {
		t.Errorf("Expected 'Found' in message, got: %s", result.Message)
	}
}

func TestCheckConfigParseable_InvalidYAML(t *testing.T) {
	clearScanEnv(t)
	configPath := filepath.Join(t.TempDir(), ".todoci.yaml")
	if err := os.WriteFile(configPath, []byte("strict: [unclosed\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	cfg, _, result := checkConfigParseable(context.Background(), configPath)

	if cfg != nil {
		t.Error("Expected nil config for invalid YAML")
	}
	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if len(result.Suggests) == 0 || !strings.Contains(result.Suggests[0], "YAML") {
		t.Errorf("Expected a YAML hint, got %v", result.Suggests)
	}
}

func TestCheckConfigParseable_InvalidTOML(t *testing.T) {
	clearScanEnv(t)
	configPath := filepath.Join(t.TempDir(), ".todoci.toml")
	if err := os.WriteFile(configPath, []byte("strict = \n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	_, _, result := checkConfigParseable(context.Background(), configPath)

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if len(result.Suggests) == 0 || !strings.Contains(result.Suggests[0], "TOML") {
		t.Errorf("Expected a TOML hint, got %v", result.Suggests)
	}
}

func TestCheckConfigParseable_InvalidValue(t *testing.T) {
	clearScanEnv(t)
	configPath := filepath.Join(t.TempDir(), ".todoci.yaml")
	if err := os.WriteFile(configPath, []byte("timezone_offset: \"5:00\"\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	cfg, _, result := checkConfigParseable(context.Background(), configPath)

	if cfg != nil {
		t.Error("Expected nil config for invalid value")
	}
	if !strings.Contains(result.Message, "timezone_offset") {
		t.Errorf("Expected timezone_offset in message, got: %s", result.Message)
	}
}

func TestCheckConfigParseable_KeepsRawTokens(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("TODOCI_TEST_TOKEN", "secret")
	configPath := filepath.Join(t.TempDir(), ".todoci.yaml")
	content := `webhooks:
  - name: ci
    url: https://example.com/hook
    token: ${TODOCI_TEST_TOKEN}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	cfg, raw, result := checkConfigParseable(context.Background(), configPath)

	if result.Status != "ok" {
		t.Fatalf("Expected ok status, got %s: %s", result.Status, result.Message)
	}
	if raw[0].Token != "${TODOCI_TEST_TOKEN}" {
		t.Errorf("Expected raw token, got %q", raw[0].Token)
	}
	if cfg.Webhooks[0].Token != "secret" {
		t.Errorf("Expected expanded token, got %q", cfg.Webhooks[0].Token)
	}
}

func TestCheckRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	if err := os.WriteFile(file, []byte("package main\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	tests := []struct {
		name   string
		root   string
		status string
		want   string
	}{
		{"directory", dir, "ok", "1 entries"},
		{"single file", file, "ok", "single file"},
		{"missing", filepath.Join(dir, "missing"), "error", "Cannot access root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkRoot(tt.root)
			if result.Status != tt.status {
				t.Errorf("Expected %s status, got %s", tt.status, result.Status)
			}
			if !strings.Contains(result.Message, tt.want) {
				t.Errorf("Expected %q in message, got: %s", tt.want, result.Message)
			}
		})
	}
}

func TestCheckOffset(t *testing.T) {
	if result := checkOffset("-05:00"); result.Status != "ok" {
		t.Errorf("Expected ok for -05:00, got %s: %s", result.Status, result.Message)
	}

	result := checkOffset("0500")
	if result.Status != "error" {
		t.Errorf("Expected error for 0500, got %s", result.Status)
	}
	if len(result.Suggests) == 0 {
		t.Error("Expected a format hint")
	}
}

func TestCheckPattern(t *testing.T) {
	if result := checkPattern("*.{go,rs}"); result.Status != "ok" {
		t.Errorf("Expected ok, got %s: %s", result.Status, result.Message)
	}
	if result := checkPattern("[abc"); result.Status != "error" {
		t.Errorf("Expected error for unbalanced pattern, got %s", result.Status)
	}
}

func TestCheckIgnoreFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".gitignore", scanner.IgnoreFileName} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("vendor/\n"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	result := checkIgnoreFiles(dir, false)
	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, ".gitignore") || !strings.Contains(result.Message, ".tdignore") {
		t.Errorf("Expected both ignore files listed, got: %s", result.Message)
	}

	result = checkIgnoreFiles(dir, true)
	if result.Status != "warning" {
		t.Errorf("Expected warning when no_ignore disables .gitignore, got %s", result.Status)
	}

	result = checkIgnoreFiles(t.TempDir(), true)
	if result.Status != "ok" {
		t.Errorf("Expected ok for a root without ignore files, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "No ignore files") {
		t.Errorf("Unexpected message: %s", result.Message)
	}
}

// Webhook diagnose tests

func TestCheckWebhooks_NoWebhooks(t *testing.T) {
	ctx := context.Background()
	opts := &DiagnoseOptions{Verbose: false}

	// Without verbose, should return empty
	if results := checkWebhooks(ctx, nil, nil, opts); len(results) != 0 {
		t.Errorf("Expected 0 results without verbose, got %d", len(results))
	}

	// With verbose, should return 1 result
	opts.Verbose = true
	if results := checkWebhooks(ctx, nil, nil, opts); len(results) != 1 {
		t.Errorf("Expected 1 result with verbose, got %d", len(results))
	}
}

func TestCheckWebhooks_Cases(t *testing.T) {
	tests := []struct {
		name   string
		hook   config.WebhookConfig
		status string
		detail string
	}{
		{
			name:   "valid",
			hook:   config.WebhookConfig{Name: "ok", URL: "https://example.com/hook", Trigger: config.WebhookTriggerAlways},
			status: "ok",
		},
		{
			name:   "missing url",
			hook:   config.WebhookConfig{Name: "nourl"},
			status: "error",
			detail: "Missing url",
		},
		{
			name:   "bad scheme",
			hook:   config.WebhookConfig{Name: "ftp", URL: "ftp://example.com"},
			status: "error",
			detail: "scheme",
		},
		{
			name:   "bad trigger",
			hook:   config.WebhookConfig{Name: "trig", URL: "https://example.com", Trigger: "sometimes"},
			status: "error",
			detail: "Invalid trigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := []config.WebhookConfig{tt.hook}
			results := checkWebhooks(context.Background(), hooks, hooks, &DiagnoseOptions{})
			if len(results) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(results))
			}
			r := results[0]
			if r.Status != tt.status {
				t.Errorf("Expected %s status, got %s: %s", tt.status, r.Status, r.Message)
			}
			if tt.detail != "" && !strings.Contains(strings.Join(r.Details, "\n"), tt.detail) {
				t.Errorf("Expected %q in details, got %v", tt.detail, r.Details)
			}
		})
	}
}

func TestCheckWebhooks_UnsetTokenVar(t *testing.T) {
	raw := []config.WebhookConfig{{Name: "ci", URL: "https://example.com", Token: "${TODOCI_UNSET_TOKEN}"}}
	validated := []config.WebhookConfig{{Name: "ci", URL: "https://example.com", Token: ""}}

	results := checkWebhooks(context.Background(), raw, validated, &DiagnoseOptions{})

	if len(results) != 1 || results[0].Status != "warning" {
		t.Fatalf("Expected a single warning, got %+v", results)
	}
	if !strings.Contains(results[0].Details[0], "TODOCI_UNSET_TOKEN") {
		t.Errorf("Expected env var name in details, got %v", results[0].Details)
	}
}

func TestCheckWebhooks_VerboseConnectivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hooks := []config.WebhookConfig{
		{Name: "up", URL: server.URL, Token: "t"},
		{Name: "down", URL: "http://127.0.0.1:1/hook"},
	}

	results := checkWebhooks(context.Background(), hooks, hooks, &DiagnoseOptions{Verbose: true})

	// Two config checks and two connectivity checks
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	if len(results[0].Details) == 0 {
		t.Error("Expected details in verbose mode")
	}
	if results[2].Status != "ok" {
		t.Errorf("Expected reachable server to pass, got %s: %s", results[2].Status, results[2].Message)
	}
	if results[3].Status != "warning" {
		t.Errorf("Expected unreachable server to warn, got %s", results[3].Status)
	}
}

func TestPrintDiagnostics(t *testing.T) {
	results := []DiagnosticResult{
		{Check: "Test1", Status: "ok", Message: "All good", Details: []string{"hidden"}},
		{Check: "Test2", Status: "warning", Message: "Hmm", Details: []string{"detail1"}},
		{Check: "Test3", Status: "error", Message: "Bad", Suggests: []string{"Fix it"}},
	}

	var buf bytes.Buffer
	errCount := printDiagnostics(&buf, results, &DiagnoseOptions{})
	out := buf.String()

	if errCount != 1 {
		t.Errorf("Expected 1 error, got %d", errCount)
	}
	for _, want := range []string{"[PASS] Test1", "[WARN] Test2", "[FAIL] Test3", "- detail1", "Hint: Fix it", "Summary: 1 passed, 1 warnings, 1 errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("Details of passing checks should only show in verbose mode")
	}
}

func TestRunDiagnose_NoConfig(t *testing.T) {
	clearScanEnv(t)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, root, &DiagnoseOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v\n%s", err, buf.String())
	}

	out := buf.String()
	for _, want := range []string{"Configuration Diagnostics", "Config File", "Scan Root", "Timezone Offset", "Filename Pattern", "Ignore Files", "Configuration looks good!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRunDiagnose_DiscoveredConfig(t *testing.T) {
	clearScanEnv(t)
	root := t.TempDir()
	content := "display_mode: concise\npattern: \"*.go\"\n"
	if err := os.WriteFile(filepath.Join(root, ".todoci.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), &buf, root, &DiagnoseOptions{Verbose: true}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Config Syntax") {
		t.Error("Missing config syntax check")
	}
	if !strings.Contains(out, "Pattern: *.go") {
		t.Errorf("Expected config pattern in output:\n%s", out)
	}
	if !strings.Contains(out, "Display mode: concise") {
		t.Errorf("Expected verbose details in output:\n%s", out)
	}
}

func TestRunDiagnose_InvalidConfig(t *testing.T) {
	clearScanEnv(t)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".todoci.yaml"), []byte("display_mode: loud\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, root, &DiagnoseOptions{})
	if err == nil {
		t.Fatal("Expected an error for an invalid config")
	}
	if !strings.Contains(buf.String(), "[FAIL] Config Syntax") {
		t.Errorf("Expected failed syntax check:\n%s", buf.String())
	}
}

func TestRunDiagnose_InvalidWebhookReported(t *testing.T) {
	clearScanEnv(t)
	root := t.TempDir()
	content := `webhooks:
  - name: ci
    url: https://example.com/hook
    trigger: sometimes
  - name: chat
    url: ftp://example.com/hook
`
	if err := os.WriteFile(filepath.Join(root, ".todoci.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, root, &DiagnoseOptions{})
	if err == nil {
		t.Fatal("Expected an error for an invalid webhook")
	}

	out := buf.String()
	for _, want := range []string{
		"[FAIL] Config Syntax",
		"[FAIL] Webhook: ci",
		`Invalid trigger "sometimes"`,
		"[FAIL] Webhook: chat",
		`URL scheme must be http or https, got "ftp"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRunDiagnose_MissingRoot(t *testing.T) {
	clearScanEnv(t)
	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, filepath.Join(t.TempDir(), "missing"), &DiagnoseOptions{})
	if err == nil {
		t.Fatal("Expected an error for a missing root")
	}
	if !strings.Contains(buf.String(), "Cannot access root") {
		t.Errorf("Expected root failure in output:\n%s", buf.String())
	}
}

func TestRunDiagnose_ExplicitMissingConfig(t *testing.T) {
	clearScanEnv(t)
	var buf bytes.Buffer
	opts := &DiagnoseOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}

	if err := runDiagnose(context.Background(), &buf, t.TempDir(), opts); err == nil {
		t.Fatal("Expected an error for a missing explicit config")
	}
	if strings.Contains(buf.String(), "Config Syntax") {
		t.Error("Syntax check should not run without a config file")
	}
}
