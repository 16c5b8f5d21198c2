package parse

import (
	"fmt"
	"regexp"
	"strconv"
)

// Mastery bands for FRM percentile ranges.
const (
	MasteryExcellent = "Excellent"
	MasteryGood      = "Good"
	MasteryFair      = "Fair"
	MasteryPoor      = "Poor"
	MasteryUnknown   = "N/A"
)

var reFirstNumber = regexp.MustCompile(`(\d+)`)

// Mastery classifies a percentile band by its first number.
func Mastery(band *string) string {
	if band == nil {
		return MasteryUnknown
	}
	m := reFirstNumber.FindStringSubmatch(*band)
	if m == nil {
		return MasteryUnknown
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return MasteryUnknown
	}
	switch {
	case value >= 76:
		return MasteryExcellent
	case value >= 51:
		return MasteryGood
	case value >= 26:
		return MasteryFair
	default:
		return MasteryPoor
	}
}

// MasteryComment is the one-line remark shown next to a topic, "" when unknown.
func MasteryComment(mastery string) string {
	if mastery == MasteryUnknown || mastery == "" {
		return ""
	}
	return fmt.Sprintf("You have shown %s understanding of the subject area.", mastery)
}

// Mastery returns the band classification for every topic in m.
func (m TopicScoreMap) Mastery() map[string]string {
	out := make(map[string]string, len(m))
	for topic, band := range m {
		out[topic] = Mastery(band)
	}
	return out
}
