package document

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// PageText is the text layer of one page.
type PageText struct {
	Page int
	Text string
}

// ExtractedText is page text in document order. Within a line fragments are
// single-space joined; lines and pages are newline joined.
type ExtractedText struct {
	Pages []PageText
}

func (t ExtractedText) String() string {
	parts := make([]string, len(t.Pages))
	for i, p := range t.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// Blank reports whether no page produced any text (e.g. a scanned PDF).
func (t ExtractedText) Blank() bool {
	for _, p := range t.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// TextExtractor pulls the embedded text layer with pdftotext. No OCR.
type TextExtractor struct {
	cfg    Config
	runner ocr.Runner
	logger *slog.Logger
}

func NewTextExtractor(cfg Config, runner ocr.Runner, logger *slog.Logger) *TextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.NewExecRunner(logger)
	}
	return &TextExtractor{cfg: cfg.withDefaults(), runner: runner, logger: logger}
}

// ExtractText extracts the requested existing pages in request order.
func (x *TextExtractor) ExtractText(ctx context.Context, doc *Document, pages []int) (ExtractedText, error) {
	var out ExtractedText
	for _, page := range existingPages(doc, pages) {
		if err := ctx.Err(); err != nil {
			return ExtractedText{}, err
		}
		n := strconv.Itoa(page)
		// pdftotext -f N -l N -enc UTF-8 -eol unix <path> -
		stdout, errb, err := x.runner.Run(ctx, x.cfg.Pdftotext,
			"-f", n, "-l", n, "-enc", "UTF-8", "-eol", "unix", doc.Path(), "-")
		if err != nil {
			if ctx.Err() != nil {
				return ExtractedText{}, ctx.Err()
			}
			return ExtractedText{}, toolFailure(fmt.Sprintf("extract text page %d", page), x.cfg.Pdftotext, errb, err)
		}
		out.Pages = append(out.Pages, PageText{Page: page, Text: joinLines(string(stdout))})
	}
	x.logger.Debug("text extracted", "pages", len(out.Pages), "bytes", len(out.String()))
	return out, nil
}

// joinLines drops form feeds and blank lines and single-spaces each line.
func joinLines(raw string) string {
	raw = strings.ReplaceAll(raw, "\f", "\n")
	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n")
}
