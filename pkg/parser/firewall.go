package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/logsieve/logsieve/pkg/textutil"
)

// FirewallParser handles iptables-style kernel firewall lines carrying
// SRC=/DST= packet metadata.
type FirewallParser struct {
	iptables   *regexp.Regexp
	syslogTime *regexp.Regexp
}

// NewFirewallParser creates a parser for iptables/netfilter log lines.
func NewFirewallParser() *FirewallParser {
	return &FirewallParser{
		iptables: regexp.MustCompile(
			`kernel:.*IN=(\S*)\s+OUT=(\S*)\s+.*SRC=(\S+)\s+DST=(\S+).*PROTO=(\S+).*SPT=(\d+).*DPT=(\d+)`),
		syslogTime: regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`),
	}
}

func (p *FirewallParser) Name() string { return "firewall" }

func (p *FirewallParser) CanParse(line string) bool {
	return strings.Contains(line, "kernel:") &&
		(strings.Contains(line, "SRC=") || strings.Contains(line, "DST="))
}

func (p *FirewallParser) Parse(line string, lineNumber int) *LogEntry {
	line = textutil.CleanLine(line)

	m := p.iptables.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	srcPort, _ := strconv.Atoi(m[6])
	dstPort, _ := strconv.Atoi(m[7])

	fields := map[string]any{
		"in_interface":     m[1],
		"out_interface":    m[2],
		"destination_ip":   m[4],
		"protocol":         m[5],
		"source_port":      srcPort,
		"destination_port": dstPort,
	}

	// The packet fields carry no date; scan the syslog-style prefix.
	var timestamp time.Time
	if ts := p.syslogTime.FindString(line); ts != "" {
		timestamp = NormalizeTimestamp(ts, syslogTimeLayout)
	}

	return &LogEntry{
		RawLine:    line,
		Timestamp:  timestamp,
		SourceIP:   m[3],
		Message:    line,
		Fields:     fields,
		LogType:    p.Name(),
		LineNumber: lineNumber,
	}
}
