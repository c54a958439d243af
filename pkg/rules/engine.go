package rules

import (
	"regexp"
	"time"

	"go.uber.org/zap"
)

// Engine evaluates a rule catalog against log lines. Patterns are compiled
// once and cached by rule name; a rule whose pattern fails to compile is
// logged and skipped for the engine's lifetime rather than aborting the
// batch. After mutating the catalog, Recompile must be called before the
// next analyze call.
//
// Engines are safe for concurrent matching only while the catalog is not
// being mutated; mutation is a configuration-time operation.
type Engine struct {
	catalog  *Catalog
	compiled map[string]*regexp.Regexp
	log      *zap.Logger
}

// NewEngine creates an engine over the given catalog and compiles all
// patterns. A nil catalog uses the built-in rule set; a nil logger
// discards warnings.
func NewEngine(catalog *Catalog, logger *zap.Logger) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		catalog: catalog,
		log:     logger,
	}
	e.Recompile()
	return e
}

// Catalog returns the engine's rule catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// SetLogger replaces the engine's logger. A nil logger discards warnings.
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.log = logger
}

// AddRule adds a rule to the catalog and recompiles the pattern cache.
func (e *Engine) AddRule(rule DetectionRule) {
	e.catalog.Add(rule)
	e.Recompile()
}

// RemoveRule removes a rule by name and recompiles the pattern cache.
func (e *Engine) RemoveRule(name string) {
	e.catalog.Remove(name)
	e.Recompile()
}

// Recompile rebuilds the entire pattern cache from the catalog. There is no
// incremental path: any catalog mutation invalidates the whole cache.
func (e *Engine) Recompile() {
	e.compiled = make(map[string]*regexp.Regexp, e.catalog.Len())
	for _, rule := range e.catalog.Rules() {
		re, err := regexp.Compile("(?i)(?:" + rule.Pattern + ")")
		if err != nil {
			e.log.Warn("failed to compile rule pattern; rule disabled",
				zap.String("rule", rule.Name),
				zap.Error(err))
			continue
		}
		e.compiled[rule.Name] = re
	}
}

// AnalyzeLine evaluates every compiled rule against a line and returns one
// detection per matching rule. MatchedText is the first match on the line;
// lineNumber and timestamp are recorded as given (a zero timestamp means
// the caller had none).
func (e *Engine) AnalyzeLine(line string, lineNumber int, timestamp time.Time) []Detection {
	var detections []Detection

	for _, rule := range e.catalog.Rules() {
		pattern, ok := e.compiled[rule.Name]
		if !ok {
			continue
		}

		matches := pattern.FindAllString(line, -1)
		if len(matches) == 0 {
			continue
		}

		detections = append(detections, Detection{
			RuleName:    rule.Name,
			Severity:    rule.Severity,
			Description: rule.Description,
			MatchedText: matches[0],
			LineNumber:  lineNumber,
			Timestamp:   timestamp,
			Category:    rule.Category,
			Tags:        rule.Tags,
			Confidence:  confidence(rule, matches),
		})
	}

	return detections
}

// AnalyzeChunk applies AnalyzeLine across a slice of raw lines. Line
// numbers start at startLine. Detections are concatenated in line order
// with no cross-line deduplication.
func (e *Engine) AnalyzeChunk(lines []string, startLine int) []Detection {
	var all []Detection
	for i, line := range lines {
		all = append(all, e.AnalyzeLine(line, startLine+i, time.Time{})...)
	}
	return all
}

// confidence scores a detection: base 0.7, plus a severity bonus, plus 0.1
// for multiple matches on the line, minus 0.1 for a first match shorter
// than 5 characters, clamped to [0.1, 1.0].
func confidence(rule DetectionRule, matches []string) float64 {
	score := 0.7 + rule.Severity.confidenceBonus()

	if len(matches) > 1 {
		score += 0.1
	}
	if len(matches) > 0 && len(matches[0]) < 5 {
		score -= 0.1
	}

	if score > 1.0 {
		return 1.0
	}
	if score < 0.1 {
		return 0.1
	}
	return score
}

// Summarize aggregates detections into summary statistics. An empty input
// yields a zeroed summary, not an error.
func Summarize(detections []Detection) Summary {
	summary := Summary{
		Total:      len(detections),
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
		ByRule:     make(map[string]int),
	}

	if len(detections) == 0 {
		return summary
	}

	var confidenceSum float64
	for _, d := range detections {
		summary.BySeverity[string(d.Severity)]++
		summary.ByCategory[d.Category]++
		summary.ByRule[d.RuleName]++
		confidenceSum += d.Confidence
	}
	summary.ConfidenceAvg = confidenceSum / float64(len(detections))

	return summary
}

// FilterBySeverity returns the detections whose severity ranks at or above
// min.
func FilterBySeverity(detections []Detection, min Severity) []Detection {
	var out []Detection
	for _, d := range detections {
		if d.Severity.AtLeast(min) {
			out = append(out, d)
		}
	}
	return out
}

// FilterByCategory returns the detections in the given category.
func FilterByCategory(detections []Detection, category string) []Detection {
	var out []Detection
	for _, d := range detections {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}
