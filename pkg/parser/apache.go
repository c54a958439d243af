package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/logsieve/logsieve/pkg/textutil"
)

// apacheTimeLayout is the CLF timestamp layout, e.g. 10/Oct/2023:13:55:36 +0000.
const apacheTimeLayout = "02/Jan/2006:15:04:05 -0700"

// ApacheParser handles Apache/Nginx access logs in Common and Combined Log
// Format.
type ApacheParser struct {
	clf      *regexp.Regexp
	combined *regexp.Regexp
}

// NewApacheParser creates a parser for Apache/Nginx access logs.
func NewApacheParser() *ApacheParser {
	return &ApacheParser{
		clf: regexp.MustCompile(
			`^(\S+)\s+\S+\s+\S+\s+\[([^\]]+)\]\s+"([^"]+)"\s+(\d+)\s+(\d+|-)`),
		combined: regexp.MustCompile(
			`^(\S+)\s+\S+\s+\S+\s+\[([^\]]+)\]\s+"([^"]+)"\s+(\d+)\s+(\d+|-)\s+"([^"]*)"\s+"([^"]*)"`),
	}
}

func (p *ApacheParser) Name() string { return "apache_access" }

func (p *ApacheParser) CanParse(line string) bool {
	return p.clf.MatchString(line) || p.combined.MatchString(line)
}

func (p *ApacheParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)

	var ip, timestampStr, request string
	fields := make(map[string]any)

	// Combined format carries referer and user agent; try it first.
	if m := p.combined.FindStringSubmatch(line); m != nil {
		ip, timestampStr, request = m[1], m[2], m[3]
		fields["request"] = request
		fields["status_code"] = atoiOrZero(m[4])
		fields["response_size"] = atoiOrZero(m[5])
		fields["referer"] = m[6]
		fields["user_agent"] = m[7]
		if textutil.SuspiciousUserAgent(m[7]) {
			fields["suspicious_user_agent"] = true
		}
	} else if m := p.clf.FindStringSubmatch(line); m != nil {
		ip, timestampStr, request = m[1], m[2], m[3]
		fields["request"] = request
		fields["status_code"] = atoiOrZero(m[4])
		fields["response_size"] = atoiOrZero(m[5])
	} else {
		return nil
	}

	timestamp := NormalizeTimestamp(timestampStr, apacheTimeLayout)

	if parts := strings.Split(request, " "); len(parts) >= 2 {
		fields["method"] = parts[0]
		fields["url"] = parts[1]
		if len(parts) >= 3 {
			fields["protocol"] = parts[2]
		}
	}

	return &LogEntry{
		RawLine:    line,
		Timestamp:  timestamp,
		SourceIP:   ip,
		Message:    request,
		Fields:     fields,
		LogType:    p.Name(),
		LineNumber: lineNumber,
	}
}

// atoiOrZero converts a numeric field, treating "-" (no value) as zero.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
