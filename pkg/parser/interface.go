package parser

// LineParser recognizes and parses one log format.
//
// CanParse must be a fast structural check; it is called for every line
// during format dispatch. Parse may still fail after CanParse accepted the
// line, in which case it returns nil and the chain drops the line without
// retrying later parsers.
type LineParser interface {
	// Name returns the parser's unique log type tag.
	Name() string

	// CanParse reports whether this parser recognizes the line's format.
	CanParse(line string) bool

	// Parse extracts a structured entry from the line, or returns nil if
	// extraction fails.
	Parse(line string, lineNumber int) *LogEntry
}
