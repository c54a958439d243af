package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/logsieve/logsieve/pkg/textutil"
)

// Candidate field names probed in order; the first present key wins.
var (
	jsonTimestampFields = []string{"timestamp", "time", "@timestamp", "datetime", "date"}
	jsonIPFields        = []string{"src_ip", "source_ip", "client_ip", "remote_addr", "ip"}
	jsonMessageFields   = []string{"message", "msg", "log", "event", "description"}
)

// JSONParser handles single-line JSON objects (structured logging output).
type JSONParser struct{}

// NewJSONParser creates a parser for JSON-formatted log lines.
func NewJSONParser() *JSONParser { return &JSONParser{} }

func (p *JSONParser) Name() string { return "json" }

func (p *JSONParser) CanParse(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}

func (p *JSONParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return nil
	}

	entry := &LogEntry{
		RawLine:    line,
		Fields:     data,
		LogType:    p.Name(),
		LineNumber: lineNumber,
	}

	for _, field := range jsonTimestampFields {
		if v, ok := data[field]; ok {
			entry.Timestamp = NormalizeTimestamp(stringify(v), "")
			break
		}
	}

	for _, field := range jsonIPFields {
		if v, ok := data[field]; ok {
			entry.SourceIP = stringify(v)
			break
		}
	}

	for _, field := range jsonMessageFields {
		if v, ok := data[field]; ok {
			entry.Message = stringify(v)
			break
		}
	}
	if entry.Message == "" {
		entry.Message = truncate(line, 200)
	}

	return entry
}

// stringify renders a JSON value the way it appeared, without float
// formatting artifacts for plain strings.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
