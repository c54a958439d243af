package detector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	apacheLine = `192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 2326`
	syslogLine = `Oct 10 13:55:36 myhost sshd[1234]: Accepted password for user`
	jsonLine   = `{"timestamp": "2023-10-10T13:55:36Z", "message": "user login", "ip": "10.0.0.1"}`
)

func TestDetectFromLines_MixedFormats(t *testing.T) {
	lines := []string{apacheLine, apacheLine, syslogLine, jsonLine}

	result := New().DetectFromLines(lines)
	if result.SampledLines != 4 {
		t.Errorf("sampled = %d, want 4", result.SampledLines)
	}
	if result.ParsedLines != 4 {
		t.Errorf("parsed = %d, want 4", result.ParsedLines)
	}
	if !result.HasMatch() {
		t.Fatal("expected matches")
	}

	best := result.BestMatch()
	if best.Format != "apache_access" {
		t.Errorf("best = %s, want apache_access", best.Format)
	}
	if best.MatchCount != 2 {
		t.Errorf("best count = %d, want 2", best.MatchCount)
	}
	if best.Confidence != 0.5 {
		t.Errorf("best confidence = %f, want 0.5", best.Confidence)
	}
	if best.SampleLine != apacheLine {
		t.Errorf("sample = %q", best.SampleLine)
	}
}

func TestDetectFromLines_Empty(t *testing.T) {
	result := New().DetectFromLines(nil)
	if result.HasMatch() {
		t.Error("expected no matches")
	}
	if result.BestMatch() != nil {
		t.Error("BestMatch should be nil")
	}
}

func TestDetectFromLines_FallbackFormat(t *testing.T) {
	result := New().DetectFromLines([]string{"completely freeform line"})
	best := result.BestMatch()
	if best == nil {
		t.Fatal("generic parser should accept anything")
	}
	if best.Format != "generic" {
		t.Errorf("best = %s, want generic", best.Format)
	}
}

func TestDetectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.log")
	content := strings.Join([]string{apacheLine, syslogLine, "", apacheLine}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile: %v", err)
	}
	if result.SampledLines != 3 {
		t.Errorf("sampled = %d, want 3 (blank line skipped)", result.SampledLines)
	}
	if result.BestMatch().Format != "apache_access" {
		t.Errorf("best = %s", result.BestMatch().Format)
	}
}

func TestDetectFromFile_SampleSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.log")
	content := strings.Repeat(apacheLine+"\n", 50)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New(WithSampleSize(10)).DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile: %v", err)
	}
	if result.SampledLines != 10 {
		t.Errorf("sampled = %d, want 10", result.SampledLines)
	}
}

func TestDetectFromFile_OversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.log")
	content := strings.Repeat("A", 256*1024) + "\n" + apacheLine + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile: %v", err)
	}
	if result.SampledLines != 2 {
		t.Errorf("sampled = %d, want 2", result.SampledLines)
	}
	if !result.HasMatch() || result.BestMatch().Format != "apache_access" {
		t.Errorf("best = %+v, want apache_access", result.BestMatch())
	}
}

func TestDetectFromFile_Missing(t *testing.T) {
	if _, err := New().DetectFromFile(context.Background(), "/no/such/file.log"); err == nil {
		t.Fatal("expected error")
	}
}
