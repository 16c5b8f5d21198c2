package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSummary = "Name: Jane Doe\nCFA Institute ID: 123456\nExam: 2024 June Level I CFA Exam\nYour Score: 72\nMinimum Passing Score (MPS): 65"

func TestParseSummary_AllFields(t *testing.T) {
	s := ParseSummary(sampleSummary)

	require.NotNil(t, s.Name)
	assert.Equal(t, "Jane Doe", *s.Name)
	require.NotNil(t, s.ExternalID)
	assert.Equal(t, "123456", *s.ExternalID)
	require.NotNil(t, s.ExamDetails)
	assert.Equal(t, "2024 June Level I CFA Exam", *s.ExamDetails)
	require.NotNil(t, s.Level)
	assert.Equal(t, 1, *s.Level)
	require.NotNil(t, s.Score)
	assert.Equal(t, 72, *s.Score)
	require.NotNil(t, s.MinimumPassingScore)
	assert.Equal(t, 65, *s.MinimumPassingScore)
	assert.Nil(t, s.Result)
}

func TestParseSummary_NoExamDetailsMeansNoLevel(t *testing.T) {
	s := ParseSummary("Name: Jane Doe\nLevel II candidate\nYour Score: 310")

	assert.Nil(t, s.ExamDetails)
	assert.Nil(t, s.Level)
	require.NotNil(t, s.Score)
	assert.Equal(t, 310, *s.Score)
}

func TestParseSummary_Levels(t *testing.T) {
	tests := []struct {
		details string
		want    *int
	}{
		{"Exam: 2023 August Level I CFA Exam", intPtr(1)},
		{"Exam: 2023 August Level II CFA Exam", intPtr(2)},
		{"Exam: 2023 February Level III CFA Exam", intPtr(3)},
		{"exam: 2023 february level iii cfa exam", intPtr(3)},
		{"Exam: 2023 August Level IIII CFA Exam", nil},
		{"Exam: 2023 August Level || CFA Exam", nil},
	}
	for _, tt := range tests {
		t.Run(tt.details, func(t *testing.T) {
			s := ParseSummary(tt.details)
			require.NotNil(t, s.ExamDetails)
			if tt.want == nil {
				assert.Nil(t, s.Level)
				return
			}
			require.NotNil(t, s.Level)
			assert.Equal(t, *tt.want, *s.Level)
		})
	}
}

func TestParseSummary_EmptyText(t *testing.T) {
	s := ParseSummary("")
	assert.True(t, s.Empty())
	assert.Nil(t, s.Passed())
}

func TestParseSummary_ResultLine(t *testing.T) {
	s := ParseSummary("Result: PASSED\nYour Score: 10\nMinimum Passing Score (MPS): 65")
	require.NotNil(t, s.Result)
	assert.Equal(t, ResultPassed, *s.Result)
	require.NotNil(t, s.Passed())
	assert.True(t, *s.Passed())

	s = ParseSummary("Result Did Not Pass")
	require.NotNil(t, s.Result)
	assert.Equal(t, ResultDidNotPass, *s.Result)
	assert.False(t, *s.Passed())
}

func TestExamSummary_PassedFromScores(t *testing.T) {
	s := ParseSummary(sampleSummary)
	require.NotNil(t, s.Passed())
	assert.True(t, *s.Passed())

	s = ParseSummary("Your Score: 60\nMinimum Passing Score (MPS) 65")
	require.NotNil(t, s.Passed())
	assert.False(t, *s.Passed())

	s = ParseSummary("Your Score: 60")
	assert.Nil(t, s.Passed())
}

func TestParseSummary_Idempotent(t *testing.T) {
	a, err := json.Marshal(ParseSummary(sampleSummary))
	require.NoError(t, err)
	b, err := json.Marshal(ParseSummary(sampleSummary))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.JSONEq(t, `{"name":"Jane Doe","externalId":"123456","examDetails":"2024 June Level I CFA Exam","level":1,"score":72,"minimumPassingScore":65,"result":null}`, string(a))
}

func intPtr(n int) *int { return &n }
