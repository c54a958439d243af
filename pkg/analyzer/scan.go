package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultScanPattern selects which files a directory scan picks up.
const DefaultScanPattern = "*.log"

// AnalyzeDirectory analyzes every file under dir matching pattern. Patterns
// support doublestar globs, so "**/*.log" walks subdirectories. A file that
// fails to analyze is logged and skipped; the scan always completes. An
// empty pattern uses DefaultScanPattern.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir, pattern string, maxLines int) ([]*AnalysisResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning directory: %s is not a directory", dir)
	}
	if pattern == "" {
		pattern = DefaultScanPattern
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad scan pattern %q: %w", pattern, err)
	}

	var results []*AnalysisResult
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		result, err := a.AnalyzeFile(ctx, path, maxLines)
		if err != nil {
			a.log.Warn("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		results = append(results, result)
	}

	a.log.Info("directory scan complete",
		zap.String("dir", dir),
		zap.String("pattern", pattern),
		zap.Int("analyzed", len(results)))
	return results, nil
}
