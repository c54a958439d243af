// Package detector identifies which log formats a file contains by
// sampling lines through the parser chain.
package detector

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/logsieve/logsieve/pkg/parser"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// DetectionResult holds the result of sampling a log input.
type DetectionResult struct {
	Matches      []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines int           // Number of lines sampled
	ParsedLines  int           // Number of lines any parser accepted
}

// FormatMatch is one format with its share of the sample.
type FormatMatch struct {
	Format     string  // Parser name (apache_access, syslog, ...)
	Confidence float64 // 0.0 to 1.0 (share of sampled lines)
	MatchCount int     // Number of lines attributed to this format
	SampleLine string  // Example line attributed to this format
}

// Detector samples log input to identify its formats.
type Detector struct {
	chain      *parser.Chain
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector over the default parser chain.
func New(opts ...Option) *Detector {
	d := &Detector{
		chain:      parser.NewChain(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns its format distribution.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}
	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		matchCount int
		sampleLine string
	}
	stats := make(map[string]*formatStats)

	for i, raw := range lines {
		line := textutil.CleanLine(raw)
		if line == "" {
			continue
		}
		entry := d.chain.ParseLine(line, i+1)
		if entry == nil {
			continue
		}
		result.ParsedLines++
		s := stats[entry.LogType]
		if s == nil {
			s = &formatStats{sampleLine: line}
			stats[entry.LogType] = s
		}
		s.matchCount++
	}

	for name, s := range stats {
		result.Matches = append(result.Matches, FormatMatch{
			Format:     name,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
		})
	}

	// Confidence descending; name ascending keeps equal shares stable.
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return result.Matches[i].Format < result.Matches[j].Format
	})
	return result
}

// sampleFile reads up to sampleSize non-empty lines from the head of a file.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Format cues sit at the head of a line, so the overflow of a line
	// longer than the read buffer is drained and ignored rather than
	// failing the sample.
	var lines []string
	br := bufio.NewReaderSize(file, 64*1024)
	for len(lines) < d.sampleSize {
		frag, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line := string(frag)
		for isPrefix {
			frag, isPrefix, err = br.ReadLine()
			if err != nil {
				break
			}
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
