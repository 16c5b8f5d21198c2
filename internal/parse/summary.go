package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Result strings as printed on the report.
const (
	ResultPassed     = "Passed"
	ResultDidNotPass = "Did Not Pass"
)

// ExamSummary is the identity/result block of a CFA-style report.
// Every field is independently nil when it was not found.
type ExamSummary struct {
	Name                *string `json:"name"`
	ExternalID          *string `json:"externalId"`
	ExamDetails         *string `json:"examDetails"`
	Level               *int    `json:"level"`
	Score               *int    `json:"score"`
	MinimumPassingScore *int    `json:"minimumPassingScore"`
	Result              *string `json:"result"`
}

// Passed is the explicit result when printed, else score >= MPS when both are known, else nil.
func (s ExamSummary) Passed() *bool {
	if s.Result != nil {
		v := *s.Result == ResultPassed
		return &v
	}
	if s.Score != nil && s.MinimumPassingScore != nil {
		v := *s.Score >= *s.MinimumPassingScore
		return &v
	}
	return nil
}

// Empty reports whether nothing at all was found.
func (s ExamSummary) Empty() bool {
	return s.Name == nil && s.ExternalID == nil && s.ExamDetails == nil &&
		s.Level == nil && s.Score == nil && s.MinimumPassingScore == nil && s.Result == nil
}

var (
	nameRules = []rule[string]{
		{regexp.MustCompile(`(?i)Name:\s+([^\n]+)`), group1Trimmed},
	}
	externalIDRules = []rule[string]{
		{regexp.MustCompile(`(?i)CFA Institute ID:\s+(\d+)`), group1Raw},
	}
	// The numeral class also takes "|" (a common misread of "I"); levelFromDetails keeps I/II/III only.
	examDetailsRules = []rule[string]{
		{regexp.MustCompile(`(?i)Exam:\s+(\d{4}\s+[A-Za-z]+\s+Level\s+[I|]+\s+CFA\s+Exam)`), group1Raw},
	}
	scoreRules = []rule[int]{
		{regexp.MustCompile(`(?i)Your Score:\s+(\d+)`), group1Int},
	}
	mpsRules = []rule[int]{
		{regexp.MustCompile(`(?i)Minimum Passing Score \(MPS\)[:\s]*(\d+)`), group1Int},
	}
	resultRules = []rule[string]{
		{regexp.MustCompile(`(?i)Result[:\s]*(Passed|Did Not Pass)`), canonicalResult},
	}
	levelRules = []rule[int]{
		{regexp.MustCompile(`(?i)Level\s+(I{1,3}|\d)\b`), levelToken},
	}
)

var romanToNumber = map[string]int{"I": 1, "II": 2, "III": 3}

// ParseSummary extracts an ExamSummary from page text. It never fails; misses are nil.
func ParseSummary(text string) ExamSummary {
	details := firstOf(text, examDetailsRules)
	return ExamSummary{
		Name:                firstOf(text, nameRules),
		ExternalID:          firstOf(text, externalIDRules),
		ExamDetails:         details,
		Level:               levelFromDetails(details),
		Score:               firstOf(text, scoreRules),
		MinimumPassingScore: firstOf(text, mpsRules),
		Result:              firstOf(text, resultRules),
	}
}

// levelFromDetails only looks inside the exam-details match; no details, no level.
func levelFromDetails(details *string) *int {
	if details == nil {
		return nil
	}
	return firstOf(*details, levelRules)
}

func levelToken(m []string) (int, bool) {
	token := strings.ToUpper(m[1])
	if n, ok := romanToNumber[token]; ok {
		return n, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > 3 {
		return 0, false
	}
	return n, true
}

func canonicalResult(m []string) (string, bool) {
	if strings.EqualFold(m[1], ResultPassed) {
		return ResultPassed, true
	}
	return ResultDidNotPass, true
}
