package parser

import (
	"regexp"

	"github.com/logsieve/logsieve/pkg/iputil"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// genericTimestampPatterns are the timestamp shapes scanned from the start
// of unstructured lines.
var genericTimestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`),
}

// GenericParser is the fallback for unstructured lines. It accepts any
// line and produces an entry unless the line is empty after cleaning. It
// must remain last in the chain.
type GenericParser struct{}

// NewGenericParser creates the fallback parser.
func NewGenericParser() *GenericParser { return &GenericParser{} }

func (p *GenericParser) Name() string { return "generic" }

func (p *GenericParser) CanParse(line string) bool { return true }

func (p *GenericParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)
	if line == "" {
		return nil
	}

	entry := &LogEntry{
		RawLine:    line,
		Message:    line,
		Fields:     map[string]any{},
		LogType:    p.Name(),
		LineNumber: lineNumber,
	}

	// Timestamps sit near the front of a line; scan only the first 50
	// characters.
	head := line
	if len(head) > 50 {
		head = head[:50]
	}
	for _, pattern := range genericTimestampPatterns {
		if m := pattern.FindString(head); m != "" {
			entry.Timestamp = NormalizeTimestamp(m, "")
			break
		}
	}

	if ips := iputil.ExtractIPv4s(line); len(ips) > 0 {
		entry.SourceIP = ips[0]
	}

	return entry
}
