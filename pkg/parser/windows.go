package parser

import (
	"regexp"
	"strconv"

	"github.com/logsieve/logsieve/pkg/iputil"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// WindowsEventParser handles exported Windows Event Log lines of the form
// "2023-10-10 13:55:36 Information 4624 12544 An account was logged on".
type WindowsEventParser struct {
	pattern *regexp.Regexp
}

// NewWindowsEventParser creates a parser for Windows Event Log exports.
func NewWindowsEventParser() *WindowsEventParser {
	return &WindowsEventParser{
		pattern: regexp.MustCompile(
			`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})\s+(\w+)\s+(\d+)\s+(\d+)\s+(.*)`),
	}
}

func (p *WindowsEventParser) Name() string { return "windows_event" }

func (p *WindowsEventParser) CanParse(line string) bool {
	return p.pattern.MatchString(line)
}

func (p *WindowsEventParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)

	m := p.pattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	eventID, _ := strconv.Atoi(m[3])
	taskCategory, _ := strconv.Atoi(m[4])
	message := m[5]

	fields := map[string]any{
		"level":         m[2],
		"event_id":      eventID,
		"task_category": taskCategory,
	}

	timestamp := NormalizeTimestamp(m[1], "")

	var sourceIP string
	if ips := iputil.ExtractIPv4s(message); len(ips) > 0 {
		sourceIP = ips[0]
	}

	return &LogEntry{
		RawLine:    line,
		Timestamp:  timestamp,
		SourceIP:   sourceIP,
		Message:    message,
		Fields:     fields,
		LogType:    p.Name(),
		LineNumber: lineNumber,
	}
}
