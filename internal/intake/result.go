package intake

import (
	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/document"
	"github.com/joseph-ayodele/exam-report-intake/internal/parse"
)

// Result is the canonical output of one completed intake.
// CFA results carry Summary and up to two Pages; FRM results carry Topics.
type Result struct {
	IntakeID     string
	Generation   uint64
	Format       constants.ExamFormat
	ArtifactName string
	MediaType    string
	ContentHash  string

	Summary  *parse.ExamSummary
	Topics   parse.TopicScoreMap
	Pages    []document.PageImage
	Warnings []string
}

// Page returns the page image with the given 1-based index.
func (r *Result) Page(n int) (document.PageImage, bool) {
	for _, p := range r.Pages {
		if p.Page == n {
			return p, true
		}
	}
	return document.PageImage{}, false
}

// ChartPage is the image a chart analyzer should read: page 2 of a PDF, or the uploaded image.
func (r *Result) ChartPage() (document.PageImage, bool) {
	if constants.IsImageMediaType(r.MediaType) {
		return r.Page(1)
	}
	return r.Page(2)
}

// LevelHint is the exam level from the summary, when known.
func (r *Result) LevelHint() *int {
	if r.Summary == nil {
		return nil
	}
	return r.Summary.Level
}
