package ocr

import (
	"regexp"
	"strings"
)

var (
	reScoreLine   = regexp.MustCompile(`your score|minimum passing score`)
	reLevelLine   = regexp.MustCompile(`level\s+(i{1,3}|\d)\b`)
	rePercentile  = regexp.MustCompile(`percentile range`)
	reCandidateID = regexp.MustCompile(`institute id:?\s*\d+`)
)

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// boost for score-report artifacts; each adds 0.15-0.2
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reScoreLine.MatchString(txtL) {
		score += 0.2
	}
	if reLevelLine.MatchString(txtL) {
		score += 0.15
	}
	if rePercentile.MatchString(txtL) {
		score += 0.15
	}
	if reCandidateID.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
