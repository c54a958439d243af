package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/logsieve/logsieve/pkg/parser"
	"github.com/logsieve/logsieve/pkg/rules"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// DefaultChunkSize is how many lines are read and analyzed per batch.
const DefaultChunkSize = 10000

// maxLineSize bounds how much of a single line is analyzed; the remainder
// of an oversized line is read and counted but discarded.
const maxLineSize = 1024 * 1024

// Analyzer runs the full analysis pipeline over log input.
type Analyzer struct {
	chunkSize int
	engine    *rules.Engine
	chain     *parser.Chain
	log       *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithChunkSize sets the streaming batch size. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithCustomRules adds rules on top of the built-in catalog.
func WithCustomRules(custom []rules.DetectionRule) Option {
	return func(a *Analyzer) {
		for _, r := range custom {
			a.engine.AddRule(r)
		}
	}
}

// WithDisabledRules removes named rules from the catalog. Unknown names
// are ignored.
func WithDisabledRules(names []string) Option {
	return func(a *Analyzer) {
		for _, name := range names {
			a.engine.RemoveRule(name)
		}
	}
}

// New builds an Analyzer with the default parser chain and rule engine.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		chunkSize: DefaultChunkSize,
		chain:     parser.NewChain(),
		log:       zap.NewNop(),
	}
	a.engine = rules.NewEngine(nil, nil)
	for _, opt := range opts {
		opt(a)
	}
	a.engine.SetLogger(a.log)
	return a
}

// Engine exposes the analyzer's rule engine for inspection.
func (a *Analyzer) Engine() *rules.Engine { return a.engine }

// AnalyzeFile streams path through the pipeline in chunks. Plain text,
// gzip (.gz) and zstd (.zst) inputs are supported. maxLines caps the
// number of processed lines; zero or negative means unlimited.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, maxLines int) (*AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	reader, closer, err := decompress(f, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if closer != nil {
		defer closer()
	}

	return a.analyze(ctx, reader, path, maxLines)
}

// AnalyzeText runs the pipeline over in-memory text. The source label
// identifies the input in the result.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, source string) (*AnalysisResult, error) {
	if source == "" {
		source = "text-input"
	}
	return a.analyze(ctx, strings.NewReader(text), source, 0)
}

// AnalyzeReader runs the pipeline over an arbitrary stream.
func (a *Analyzer) AnalyzeReader(ctx context.Context, r io.Reader, source string, maxLines int) (*AnalysisResult, error) {
	return a.analyze(ctx, r, source, maxLines)
}

func (a *Analyzer) analyze(ctx context.Context, r io.Reader, source string, maxLines int) (*AnalysisResult, error) {
	start := time.Now()

	result := &AnalysisResult{
		ID:       uuid.NewString(),
		Source:   source,
		LogTypes: make(map[string]int),
	}

	br := bufio.NewReaderSize(r, 64*1024)

	tracker := newIPTracker()
	chunk := make([]string, 0, a.chunkSize)
	lineNumber := 0

	flush := func() {
		if len(chunk) == 0 {
			return
		}
		startLine := lineNumber - len(chunk) + 1
		a.analyzeChunk(chunk, startLine, result, tracker)
		chunk = chunk[:0]
	}

	for {
		line, size, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNumber++
		result.BytesProcessed += int64(size) + 1
		if size > maxLineSize {
			a.log.Warn("oversized line truncated",
				zap.String("source", source),
				zap.Int("line", lineNumber),
				zap.Int("bytes", size))
		}
		chunk = append(chunk, string(line))
		if len(chunk) >= a.chunkSize {
			flush()
		}
		if maxLines > 0 && lineNumber >= maxLines {
			a.log.Info("line cap reached", zap.String("source", source), zap.Int("max_lines", maxLines))
			break
		}
	}
	flush()

	result.TotalLines = lineNumber
	result.IPAnalysis = tracker.report()
	result.Timeline = buildTimeline(result.Detections)
	result.Summary = a.summarize(result)
	result.AnalysisTime = time.Since(start)

	a.log.Debug("analysis complete",
		zap.String("source", source),
		zap.Int("lines", result.TotalLines),
		zap.Int("detections", len(result.Detections)),
		zap.Duration("elapsed", result.AnalysisTime))

	return result, nil
}

// analyzeChunk parses one batch of lines and matches rules against them.
// Detected timestamps flow from parsed entries into their detections so
// the timeline can bucket them.
func (a *Analyzer) analyzeChunk(lines []string, startLine int, result *AnalysisResult, tracker *ipTracker) {
	for i, raw := range lines {
		lineNumber := startLine + i
		line := textutil.CleanLine(raw)
		if line == "" {
			continue
		}

		var timestamp time.Time
		entry := a.chain.ParseLine(line, lineNumber)
		if entry != nil {
			result.ParsedLines++
			result.LogTypes[entry.LogType]++
			timestamp = entry.Timestamp
			// Only the parsed source IP counts as a sighting. Addresses
			// elsewhere on the line surface through detection association.
			if entry.SourceIP != "" {
				tracker.observe(entry.SourceIP, timestamp)
			}
		}

		detections := a.engine.AnalyzeLine(line, lineNumber, timestamp)
		for _, d := range detections {
			tracker.associate(d)
			// Matched text may carry credentials; log a hash, not the text.
			a.log.Debug("detection",
				zap.String("rule", d.RuleName),
				zap.Int("line", d.LineNumber),
				zap.String("matched_hash", textutil.HashSensitive(d.MatchedText)))
		}
		result.Detections = append(result.Detections, detections...)
	}
}

func (a *Analyzer) summarize(result *AnalysisResult) Summary {
	s := Summary{
		Summary:          rules.Summarize(result.Detections),
		LogEntriesParsed: result.ParsedLines,
		UniqueIPs:        result.IPAnalysis.TotalUniqueIPs,
		PrivateIPs:       result.IPAnalysis.PrivateIPs,
		PublicIPs:        result.IPAnalysis.PublicIPs,
		SuspiciousIPs:    len(result.IPAnalysis.SuspiciousIPs),
		TopThreats:       topThreats(result.Detections, 10),
		RiskScore: computeRiskScore(result.Detections,
			len(result.IPAnalysis.SuspiciousIPs), result.IPAnalysis.PublicIPs),
	}
	return s
}

// readLine returns the next line with its newline stripped, truncated to
// maxLineSize bytes, plus the line's full length on the wire. Input ends
// with io.EOF; a final line without a trailing newline is still returned.
func readLine(br *bufio.Reader) ([]byte, int, error) {
	var line []byte
	size := 0
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return line, size, nil
			}
			return nil, size, err
		}
		size += len(frag)
		if room := maxLineSize - len(line); room > 0 {
			if room > len(frag) {
				room = len(frag)
			}
			line = append(line, frag[:room]...)
		}
		if !isPrefix {
			return line, size, nil
		}
	}
}

// decompress wraps f according to the file extension. The returned closer,
// when non-nil, must be called after reading.
func decompress(f *os.File, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return f, nil, nil
	}
}
