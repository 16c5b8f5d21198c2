package parse

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// TopicScoreMap maps each fixed FRM topic to "<low> - <high>", or nil when not found.
// It always holds exactly the fixed topic keys.
type TopicScoreMap map[string]*string

type topicRule struct {
	topic   string
	pattern *regexp.Regexp
}

var topicRules = buildTopicRules(constants.FRMTopics())

func buildTopicRules(topics []string) []topicRule {
	out := make([]topicRule, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicRule{
			topic: t,
			pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t) +
				`.*?You scored in the (\d{1,3})\s*-\s*(\d{1,3}) percentile range`),
		})
	}
	return out
}

// ParseTopicScores finds the percentile band of every fixed topic. Whitespace is
// collapsed first so line breaks inside a topic name or the prose still match.
func ParseTopicScores(text string) TopicScoreMap {
	normalized := ocr.CollapseWhitespace(text)
	scores := make(TopicScoreMap, len(topicRules))
	for _, r := range topicRules {
		m := r.pattern.FindStringSubmatch(normalized)
		if m == nil || m[1] == "" || m[2] == "" {
			scores[r.topic] = nil
			continue
		}
		band := fmt.Sprintf("%s - %s", m[1], m[2])
		scores[r.topic] = &band
	}
	return scores
}

// Found counts topics with a band.
func (m TopicScoreMap) Found() int {
	n := 0
	for _, v := range m {
		if v != nil {
			n++
		}
	}
	return n
}
