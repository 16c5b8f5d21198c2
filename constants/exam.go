package constants

import (
	"strings"
)

// ExamFormat selects the extraction strategy for an upload.
type ExamFormat string

const (
	// FormatCFA is the identity/result report: page-1 fields plus a chart page.
	FormatCFA ExamFormat = "CFA"
	// FormatFRM is the four-topic percentile-range report.
	FormatFRM ExamFormat = "FRM"
)

var allFormats = []ExamFormat{FormatCFA, FormatFRM}

// Topics of the FRM report, in report order.
const (
	TopicFoundations = "Foundations of Risk Management"
	TopicQuant       = "Quantitative Analysis"
	TopicMarkets     = "Financial Markets and Products"
	TopicValuation   = "Valuation and Risk Models"
)

var frmTopics = []string{
	TopicFoundations,
	TopicQuant,
	TopicMarkets,
	TopicValuation,
}

// FRMTopics returns a fresh copy of the fixed topic list.
func FRMTopics() []string {
	out := make([]string, len(frmTopics))
	copy(out, frmTopics)
	return out
}

// CanonicalizeFormat resolves user input ("cfa", "Format A", "frm", "b") to a format.
func CanonicalizeFormat(input string) (ExamFormat, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]ExamFormat{
		"a":        FormatCFA,
		"format a": FormatCFA,
		"b":        FormatFRM,
		"format b": FormatFRM,
	}
	if f, ok := synonyms[normalized]; ok {
		return f, true
	}

	for _, f := range allFormats {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}
	return "", false
}
