package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const apacheLine = `192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 2326`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	if cmd.Use != "analyze <log-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"output", "format", "severity", "category", "max-lines",
		"rules-file", "verbose", "quiet", "webhook-url"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunAnalyze_CleanFile(t *testing.T) {
	ExitCode = 0
	logPath := writeFile(t, t.TempDir(), "clean.log", apacheLine+"\n")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunAnalyze_ThreatsSetExitCode(t *testing.T) {
	ExitCode = 0
	logPath := writeFile(t, t.TempDir(), "bad.log",
		"POST /login HTTP/1.1' OR 1=1--\n")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	ExitCode = 0
}

func TestRunAnalyze_JSONToFile(t *testing.T) {
	ExitCode = 0
	dir := t.TempDir()
	logPath := writeFile(t, dir, "in.log", "failed login for admin\n")
	outPath := filepath.Join(dir, "out.json")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--format", "json", "--output", outPath, "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["total_lines"] != float64(1) {
		t.Errorf("total_lines = %v", decoded["total_lines"])
	}
	ExitCode = 0
}

func TestRunAnalyze_SeverityFilter(t *testing.T) {
	ExitCode = 0
	// failed_login_attempt is medium; filtering at critical removes it.
	logPath := writeFile(t, t.TempDir(), "in.log", "failed login for admin\n")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--severity", "critical", "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 after filtering", ExitCode)
	}
}

func TestRunAnalyze_InvalidSeverity(t *testing.T) {
	logPath := writeFile(t, t.TempDir(), "in.log", apacheLine+"\n")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--severity", "urgent"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for invalid severity")
	}
}

func TestRunAnalyze_CustomRulesFile(t *testing.T) {
	ExitCode = 0
	dir := t.TempDir()
	logPath := writeFile(t, dir, "in.log", "WIDGET_OVERFLOW in allocator\n")
	rulesPath := writeFile(t, dir, "rules.yaml", `
rules:
  - name: widget_overflow
    description: Allocator overflow marker
    severity: critical
    pattern: 'WIDGET_OVERFLOW'
    category: application
`)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--rules-file", rulesPath, "--format", "json",
		"--output", filepath.Join(dir, "out.json"), "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 for custom rule hit", ExitCode)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "out.json"))
	if !strings.Contains(string(data), "widget_overflow") {
		t.Error("output missing custom rule detection")
	}
	ExitCode = 0
}

func TestNewScanCommand(t *testing.T) {
	cmd := NewScanCommand()
	if cmd.Use != "scan <directory>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"pattern", "output", "severity", "max-lines"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunScan_MergedOutput(t *testing.T) {
	ExitCode = 0
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "failed login for admin\n")
	writeFile(t, dir, "b.log", apacheLine+"\n")
	outPath := filepath.Join(dir, "merged.json")

	cmd := NewScanCommand()
	cmd.SetArgs([]string{dir, "--output", outPath, "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Files analyzed: 2") {
		t.Errorf("summary missing file count:\n%s", buf.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading merged output: %v", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		t.Fatalf("merged output is not JSON: %v", err)
	}
	if merged["total_files"] != float64(2) {
		t.Errorf("total_files = %v", merged["total_files"])
	}
	ExitCode = 0
}

func TestRunScan_EmptyDirectory(t *testing.T) {
	cmd := NewScanCommand()
	cmd.SetArgs([]string{t.TempDir(), "--quiet"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No log files") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunDetect(t *testing.T) {
	logPath := writeFile(t, t.TempDir(), "in.log", apacheLine+"\n"+apacheLine+"\n")

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{logPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(buf.String(), "apache_access") {
		t.Errorf("output missing format:\n%s", buf.String())
	}
}

func TestRulesList(t *testing.T) {
	cmd := NewRulesCommand()
	cmd.SetArgs([]string{"list"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rules list failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"sql_injection", "reverse_shell", "rules total"} {
		if !strings.Contains(out, want) {
			t.Errorf("rules list missing %q", want)
		}
	}
}

func TestRulesTest(t *testing.T) {
	ExitCode = 0
	cmd := NewRulesCommand()
	cmd.SetArgs([]string{"test", "POST /login HTTP/1.1' OR 1=1--"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rules test failed: %v", err)
	}
	if !strings.Contains(buf.String(), "sql_injection") {
		t.Errorf("output missing detection:\n%s", buf.String())
	}
	ExitCode = 0
}

func TestRulesTest_Clean(t *testing.T) {
	cmd := NewRulesCommand()
	cmd.SetArgs([]string{"test", "hello world"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rules test failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No threats detected") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRulesSample(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "sample.log")

	cmd := NewRulesCommand()
	cmd.SetArgs([]string{"sample", "--output", outPath, "--count", "25", "--seed", "42"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rules sample failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading sample: %v", err)
	}
	lines := strings.Count(string(data), "\n")
	if lines != 25 {
		t.Errorf("sample lines = %d, want 25", lines)
	}
}

func TestGenerateSampleLogs_Deterministic(t *testing.T) {
	a := GenerateSampleLogs(50, true, 7)
	b := GenerateSampleLogs(50, true, 7)
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different output")
	}
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", `
rules:
  - name: r1
    description: test
    severity: low
    pattern: 'x'
    category: misc
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{rulesPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "is valid") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunValidate_Invalid(t *testing.T) {
	rulesPath := writeFile(t, t.TempDir(), "rules.yaml", `
rules:
  - name: r1
    pattern: '([broken'
    severity: low
    category: misc
`)

	cmd := NewValidateCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{rulesPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for broken pattern")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(buf.String(), "logsieve") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
