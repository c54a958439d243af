package parser

import (
	"testing"
)

func TestChain_Order(t *testing.T) {
	c := NewChain()

	want := []string{"apache_access", "syslog", "windows_event", "firewall", "json", "generic"}
	parsers := c.Parsers()
	if len(parsers) != len(want) {
		t.Fatalf("chain has %d parsers, want %d", len(parsers), len(want))
	}
	for i, p := range parsers {
		if p.Name() != want[i] {
			t.Errorf("parser[%d] = %s, want %s", i, p.Name(), want[i])
		}
	}
}

func TestChain_FirstAcceptingParserWins(t *testing.T) {
	c := NewChain()

	tests := []struct {
		line     string
		wantType string
	}{
		{`192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 2326`, "apache_access"},
		{`Jun 14 15:16:01 combo sshd[19939]: session opened`, "syslog"},
		{`2023-10-10 13:55:36 Information 4624 12544 logon event`, "windows_event"},
		{`Oct 10 13:55:36 gw kernel: IN=eth0 OUT= SRC=1.2.3.4 DST=5.6.7.8 PROTO=TCP SPT=1 DPT=2`, "firewall"},
		{`{"message": "hello"}`, "json"},
		{`completely unstructured line`, "generic"},
	}

	for _, tt := range tests {
		entry := c.ParseLine(tt.line, 1)
		if entry == nil {
			t.Errorf("ParseLine(%q) = nil", tt.line)
			continue
		}
		if entry.LogType != tt.wantType {
			t.Errorf("ParseLine(%q) type = %s, want %s", tt.line, entry.LogType, tt.wantType)
		}
	}
}

func TestChain_CommittedParserFailureDropsLine(t *testing.T) {
	c := NewChain()

	// The JSON parser accepts brace-delimited lines, but this one is not
	// valid JSON. The line is dropped, not retried against the fallback.
	entry := c.ParseLine(`{not valid json}`, 1)
	if entry != nil {
		t.Errorf("expected dropped line, got %+v", entry)
	}
}

func TestChain_ParseLines(t *testing.T) {
	c := NewChain()

	lines := []string{
		`192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET / HTTP/1.1" 200 100`,
		``,
		`some generic line`,
	}
	entries := c.ParseLines(lines, 10)

	// Empty line yields no entry; numbering still advances.
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].LineNumber != 10 {
		t.Errorf("first LineNumber = %d, want 10", entries[0].LineNumber)
	}
	if entries[1].LineNumber != 12 {
		t.Errorf("second LineNumber = %d, want 12", entries[1].LineNumber)
	}
}

// stubParser is a custom format parser used to test registration.
type stubParser struct{ prefix string }

func (s *stubParser) Name() string              { return "stub" }
func (s *stubParser) CanParse(line string) bool { return len(line) > 0 && line[0] == '#' }
func (s *stubParser) Parse(line string, n int) *LogEntry {
	return &LogEntry{RawLine: line, Message: line[1:], LogType: s.Name(), LineNumber: n, Fields: map[string]any{}}
}

func TestChain_RegisterKeepsFallbackLast(t *testing.T) {
	c := NewChain()
	c.Register(&stubParser{})

	parsers := c.Parsers()
	if parsers[len(parsers)-1].Name() != "generic" {
		t.Error("generic fallback must stay last after Register")
	}
	if parsers[len(parsers)-2].Name() != "stub" {
		t.Error("custom parser should sit immediately before the fallback")
	}

	entry := c.ParseLine("#custom format line", 1)
	if entry == nil || entry.LogType != "stub" {
		t.Errorf("custom parser not dispatched: %+v", entry)
	}
}

func TestStats(t *testing.T) {
	c := NewChain()
	entries := c.ParseLines([]string{
		`192.168.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET / HTTP/1.1" 200 100`,
		`192.168.1.2 - - [10/Oct/2023:13:55:37 +0000] "GET / HTTP/1.1" 200 100`,
		`free text`,
	}, 1)

	stats := Stats(entries)
	if stats["apache_access"] != 2 {
		t.Errorf("apache_access = %d, want 2", stats["apache_access"])
	}
	if stats["generic"] != 1 {
		t.Errorf("generic = %d, want 1", stats["generic"])
	}
}
