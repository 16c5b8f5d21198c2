package report

import (
	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/parse"
)

// BuildRecordJSONSchema returns the JSON-Schema (draft 2020-12 subset) every Record must satisfy.
func BuildRecordJSONSchema() map[string]any {
	topics := constants.FRMTopics()

	topicProps := map[string]any{}
	masteryProps := map[string]any{}
	for _, t := range topics {
		topicProps[t] = map[string]any{
			"type":    []any{"string", "null"},
			"pattern": `^\d{1,3} - \d{1,3}$`,
		}
		masteryProps[t] = map[string]any{
			"enum": []any{parse.MasteryExcellent, parse.MasteryGood, parse.MasteryFair, parse.MasteryPoor, parse.MasteryUnknown},
		}
	}

	summary := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":                nullableString(),
			"externalId":          map[string]any{"type": []any{"string", "null"}, "pattern": `^\d+$`},
			"examDetails":         nullableString(),
			"level":               map[string]any{"type": []any{"integer", "null"}, "minimum": 1, "maximum": 3},
			"score":               map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
			"minimumPassingScore": map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
			"result":              map[string]any{"enum": []any{parse.ResultPassed, parse.ResultDidNotPass, nil}},
		},
		"required": []any{"name", "externalId", "examDetails", "level", "score", "minimumPassingScore", "result"},
	}

	page := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"page":      map[string]any{"type": "integer", "minimum": 1},
			"width":     map[string]any{"type": "integer", "minimum": 1},
			"height":    map[string]any{"type": "integer", "minimum": 1},
			"mediaType": map[string]any{"enum": []any{constants.MediaTypePNG, constants.MediaTypeJPEG}},
			"file":      map[string]any{"type": "string"},
		},
		"required": []any{"page", "width", "height", "mediaType"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"intakeId":    map[string]any{"type": "string", "minLength": 1},
			"format":      map[string]any{"enum": []any{string(constants.FormatCFA), string(constants.FormatFRM)}},
			"mediaType":   map[string]any{"enum": []any{constants.MediaTypePDF, constants.MediaTypePNG, constants.MediaTypeJPEG}},
			"name":        map[string]any{"type": "string"},
			"contentHash": map[string]any{"type": "string", "pattern": `^[0-9a-f]{64}$`},
			"summary":     summary,
			"passed":      map[string]any{"type": []any{"boolean", "null"}},
			"topics": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           topicProps,
				"required":             toAny(topics),
			},
			"mastery": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           masteryProps,
				"required":             toAny(topics),
			},
			"pages":    map[string]any{"type": "array", "items": page},
			"warnings": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"intakeId", "format", "mediaType", "name", "pages"},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
