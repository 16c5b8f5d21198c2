package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/exam-report-intake/constants"
)

func TestMastery(t *testing.T) {
	band := func(s string) *string { return &s }
	tests := []struct {
		in   *string
		want string
	}{
		{band("76 - 100"), MasteryExcellent},
		{band("51 - 75"), MasteryGood},
		{band("26 - 50"), MasteryFair},
		{band("0 - 25"), MasteryPoor},
		{band("garbage"), MasteryUnknown},
		{nil, MasteryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mastery(tt.in))
	}
}

func TestMasteryComment(t *testing.T) {
	assert.Equal(t, "You have shown Good understanding of the subject area.", MasteryComment(MasteryGood))
	assert.Empty(t, MasteryComment(MasteryUnknown))
}

func TestTopicScoreMap_Mastery(t *testing.T) {
	m := ParseTopicScores("Valuation and Risk Models You scored in the 76 - 100 percentile range")
	got := m.Mastery()
	assert.Len(t, got, 4)
	assert.Equal(t, MasteryExcellent, got[constants.TopicValuation])
	assert.Equal(t, MasteryUnknown, got[constants.TopicFoundations])
}
