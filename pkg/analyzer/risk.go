package analyzer

import (
	"fmt"
	"sort"

	"github.com/logsieve/logsieve/pkg/rules"
)

// computeRiskScore folds detections and IP indicators into a 0-100 score.
// Each detection contributes its severity weight times its confidence;
// suspicious addresses add 2 each and a large external footprint adds a
// flat 5. The sum is normalized by detection count so a handful of
// critical hits outweighs a flood of low-severity noise.
func computeRiskScore(detections []rules.Detection, suspiciousIPs, publicIPs int) RiskScore {
	if len(detections) == 0 {
		return RiskScore{Score: 0, Level: "low", Factors: []string{}}
	}

	base := 0.0
	factors := []string{}

	for _, d := range detections {
		base += float64(d.Severity.RiskWeight()) * d.Confidence
	}

	if suspiciousIPs > 0 {
		base += float64(suspiciousIPs) * 2
		factors = append(factors, fmt.Sprintf("%d suspicious IP(s) detected", suspiciousIPs))
	}
	if publicIPs > 50 {
		base += 5
		factors = append(factors, "High number of external IPs")
	}

	score := int(base / float64(max(1, len(detections))) * 10)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return RiskScore{
		Score:   score,
		Level:   riskLevel(score),
		Factors: factors,
	}
}

func riskLevel(score int) string {
	switch {
	case score >= 80:
		return "critical"
	case score >= 60:
		return "high"
	case score >= 30:
		return "medium"
	default:
		return "low"
	}
}

// topThreats ranks rules by detection count descending, name ascending on
// ties, truncated to limit.
func topThreats(detections []rules.Detection, limit int) []ThreatCount {
	counts := make(map[string]*ThreatCount)
	for _, d := range detections {
		tc := counts[d.RuleName]
		if tc == nil {
			tc = &ThreatCount{Rule: d.RuleName, Severity: d.Severity}
			counts[d.RuleName] = tc
		}
		tc.Count++
	}

	threats := make([]ThreatCount, 0, len(counts))
	for _, tc := range counts {
		threats = append(threats, *tc)
	}
	sort.Slice(threats, func(i, j int) bool {
		if threats[i].Count != threats[j].Count {
			return threats[i].Count > threats[j].Count
		}
		return threats[i].Rule < threats[j].Rule
	})
	if len(threats) > limit {
		threats = threats[:limit]
	}
	return threats
}
