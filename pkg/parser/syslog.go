package parser

import (
	"regexp"
	"strconv"

	"github.com/logsieve/logsieve/pkg/iputil"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// syslogTimeLayout matches RFC3164 timestamps, e.g. "Oct 10 13:55:36".
// The _2 handles space-padded single-digit days.
const syslogTimeLayout = "Jan _2 15:04:05"

// SyslogParser handles RFC3164 syslog lines, with or without the leading
// <priority> tag.
type SyslogParser struct {
	withPri *regexp.Regexp
	noPri   *regexp.Regexp
}

// NewSyslogParser creates a parser for RFC3164 syslog lines.
func NewSyslogParser() *SyslogParser {
	return &SyslogParser{
		withPri: regexp.MustCompile(
			`^<(\d+)>([A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+([^:]+):\s*(.*)`),
		noPri: regexp.MustCompile(
			`^([A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+([^:]+):\s*(.*)`),
	}
}

func (p *SyslogParser) Name() string { return "syslog" }

func (p *SyslogParser) CanParse(line string) bool {
	return p.withPri.MatchString(line) || p.noPri.MatchString(line)
}

func (p *SyslogParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)

	var timestampStr, message string
	fields := make(map[string]any)

	if m := p.withPri.FindStringSubmatch(line); m != nil {
		priority, _ := strconv.Atoi(m[1])
		timestampStr, message = m[2], m[5]
		fields["priority"] = priority
		fields["hostname"] = m[3]
		fields["process"] = m[4]
		// RFC3164 packs facility and severity into the priority value.
		fields["facility"] = priority >> 3
		fields["severity"] = priority & 7
	} else if m := p.noPri.FindStringSubmatch(line); m != nil {
		timestampStr, message = m[1], m[4]
		fields["hostname"] = m[2]
		fields["process"] = m[3]
	} else {
		return nil
	}

	timestamp := NormalizeTimestamp(timestampStr, syslogTimeLayout)

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
