package parser

// Chain dispatches lines to an ordered list of parsers. The first parser
// whose CanParse accepts a line is committed to: if its Parse then fails,
// the line is dropped rather than retried against later parsers. The
// generic fallback always sits last, so dispatch order decides ties
// between overlapping formats.
type Chain struct {
	parsers []LineParser
}

// NewChain creates a chain with the built-in parsers in their fixed
// priority order: Apache/Nginx, syslog, Windows Event, firewall, JSON,
// then the generic fallback.
func NewChain() *Chain {
	return &Chain{
		parsers: []LineParser{
			NewApacheParser(),
			NewSyslogParser(),
			NewWindowsEventParser(),
			NewFirewallParser(),
			NewJSONParser(),
			NewGenericParser(), // must remain last
		},
	}
}

// Register inserts a custom parser immediately before the generic
// fallback, preserving its terminal position.
func (c *Chain) Register(p LineParser) {
	last := len(c.parsers) - 1
	c.parsers = append(c.parsers[:last], p, c.parsers[last])
}

// Parsers returns the chain's parsers in dispatch order.
func (c *Chain) Parsers() []LineParser {
	return c.parsers
}

// ParseLine parses one raw line with the first accepting parser. Returns
// nil when no parser accepts the line or the committed parser fails.
func (c *Chain) ParseLine(line string, lineNumber int) *LogEntry {
	for _, p := range c.parsers {
		if p.CanParse(line) {
			return p.Parse(line, lineNumber)
		}
	}
	return nil
}

// ParseLines parses a batch of raw lines, numbering them from startLine.
// Lines that fail to parse are skipped.
func (c *Chain) ParseLines(lines []string, startLine int) []*LogEntry {
	var entries []*LogEntry
	for i, line := range lines {
		if entry := c.ParseLine(line, startLine+i); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Stats counts entries by log type, reporting the format distribution of a
// parsed batch.
func Stats(entries []*LogEntry) map[string]int {
	stats := make(map[string]int)
	for _, e := range entries {
		stats[e.LogType]++
	}
	return stats
}
