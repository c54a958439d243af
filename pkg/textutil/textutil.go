// Package textutil provides text processing helpers for log analysis:
// line cleaning, entropy measurement, and encoding/obfuscation detection.
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	base64Pattern  = regexp.MustCompile(`[A-Za-z0-9+/]{20,}={0,2}`)
	hexPattern     = regexp.MustCompile(`[0-9a-fA-F]{20,}`)
	urlEncPattern  = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
	unicodePattern = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

	suspiciousUAPatterns = []*regexp.Regexp{
		regexp.MustCompile(`bot|crawler|spider|scraper`),
		regexp.MustCompile(`python|curl|wget|powershell`),
		regexp.MustCompile(`nmap|sqlmap|nikto|burp`),
		regexp.MustCompile(`masscan|zmap`),
	}
)

// CleanLine normalizes a raw log line: strips null bytes and carriage
// returns, trims surrounding whitespace, and replaces invalid UTF-8
// sequences so a bad byte never aborts analysis.
func CleanLine(line string) string {
	line = strings.ReplaceAll(line, "\x00", "")
	line = strings.ReplaceAll(line, "\r", "")
	line = strings.TrimSpace(line)
	return strings.ToValidUTF8(line, "�")
}

// Entropy computes the Shannon entropy of data in bits per byte.
// High values suggest encoded, compressed, or random content.
func Entropy(data string) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for i := 0; i < len(data); i++ {
		counts[data[i]]++
	}

	entropy := 0.0
	total := float64(len(data))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// DetectEncodings reports which encoding/obfuscation schemes appear to be
// present in text. Possible values: base64, hex, url_encoding, unicode.
func DetectEncodings(text string) []string {
	var found []string
	if base64Pattern.MatchString(text) {
		found = append(found, "base64")
	}
	if hexPattern.MatchString(text) {
		found = append(found, "hex")
	}
	if urlEncPattern.MatchString(text) {
		found = append(found, "url_encoding")
	}
	if unicodePattern.MatchString(text) {
		found = append(found, "unicode")
	}
	return found
}

// SuspiciousUserAgent reports whether a user agent string matches known
// automation or attack tooling.
func SuspiciousUserAgent(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, p := range suspiciousUAPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// FormatBytes renders a byte count in human readable form.
func FormatBytes(count int64) string {
	value := float64(count)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", value)
}

// HashSensitive returns a short stable hash of sensitive data for
// anonymized reporting. Only the first 8 hex characters are returned.
func HashSensitive(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:8]
}
