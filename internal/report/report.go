package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
	"github.com/joseph-ayodele/exam-report-intake/internal/parse"
)

// Page describes a page image without its bytes.
type Page struct {
	Page      int    `json:"page"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MediaType string `json:"mediaType"`
	File      string `json:"file,omitempty"`
}

// Record is the canonical JSON form of a completed intake.
type Record struct {
	IntakeID    string              `json:"intakeId"`
	Format      string              `json:"format"`
	MediaType   string              `json:"mediaType"`
	Name        string              `json:"name"`
	ContentHash string              `json:"contentHash,omitempty"`
	Summary     *parse.ExamSummary  `json:"summary,omitempty"`
	Passed      *bool               `json:"passed,omitempty"`
	Topics      parse.TopicScoreMap `json:"topics,omitempty"`
	Mastery     map[string]string   `json:"mastery,omitempty"`
	Pages       []Page              `json:"pages"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// FromResult builds the record for res.
func FromResult(res *intake.Result) *Record {
	rec := &Record{
		IntakeID:    res.IntakeID,
		Format:      string(res.Format),
		MediaType:   res.MediaType,
		Name:        res.ArtifactName,
		ContentHash: res.ContentHash,
		Summary:     res.Summary,
		Topics:      res.Topics,
		Pages:       make([]Page, 0, len(res.Pages)),
		Warnings:    res.Warnings,
	}
	if res.Summary != nil {
		rec.Passed = res.Summary.Passed()
	}
	if res.Topics != nil {
		rec.Mastery = res.Topics.Mastery()
	}
	for _, p := range res.Pages {
		rec.Pages = append(rec.Pages, Page{Page: p.Page, Width: p.Width, Height: p.Height, MediaType: p.MediaType})
	}
	return rec
}

// Encode marshals res and validates the JSON before returning it.
func Encode(res *intake.Result) ([]byte, error) {
	return EncodeRecord(FromResult(res))
}

// EncodeRecord marshals rec with indentation and validates it against the record schema.
func EncodeRecord(rec *Record) ([]byte, error) {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := ValidateRecordJSON(b); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.IntakeID, err)
	}
	return b, nil
}

// WritePages writes each page image of res under dir and records the file names on rec.
func WritePages(dir string, res *intake.Result, rec *Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pages dir: %w", err)
	}
	for i, p := range res.Pages {
		ext := ".png"
		if p.MediaType == "image/jpeg" {
			ext = ".jpg"
		}
		name := fmt.Sprintf("%s-page-%d%s", res.IntakeID, p.Page, ext)
		if err := os.WriteFile(filepath.Join(dir, name), p.Data, 0o644); err != nil {
			return fmt.Errorf("write page %d: %w", p.Page, err)
		}
		if i < len(rec.Pages) {
			rec.Pages[i].File = name
		}
	}
	return nil
}
