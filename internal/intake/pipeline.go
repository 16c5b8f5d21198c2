package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/document"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
	"github.com/joseph-ayodele/exam-report-intake/internal/parse"
)

// PageRasterizer renders selected PDF pages to images.
type PageRasterizer interface {
	Rasterize(ctx context.Context, doc *document.Document, pages []int) ([]document.PageImage, error)
}

// TextSource reads the embedded text layer of selected PDF pages.
type TextSource interface {
	ExtractText(ctx context.Context, doc *document.Document, pages []int) (document.ExtractedText, error)
}

// Recognizer reads text from a page image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (ocr.Result, error)
}

// PipelineConfig holds per-stage limits.
type PipelineConfig struct {
	StageTimeout time.Duration
	TempDir      string
}

// Pipeline runs one artifact through validation, rendering, extraction and parsing.
type Pipeline struct {
	cfg        PipelineConfig
	rasterizer PageRasterizer
	text       TextSource
	recognizer Recognizer // nil disables OCR fallback
	logger     *slog.Logger
}

func NewPipeline(cfg PipelineConfig, rasterizer PageRasterizer, text TextSource, recognizer Recognizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		rasterizer: rasterizer,
		text:       text,
		recognizer: recognizer,
		logger:     logger,
	}
}

// cfaPages are the pages a CFA report needs: page 1 for fields, page 2 for the chart.
var cfaPages = []int{1, 2}

// Process runs a single intake to completion. observe may be nil.
// Errors are always *common.AppError.
func (p *Pipeline) Process(ctx context.Context, art Artifact, format constants.ExamFormat, observe Observer) (*Result, error) {
	intakeID := common.IntakeIDFromContext(ctx)
	if intakeID == "" {
		intakeID = uuid.NewString()
		ctx = common.WithIntakeID(ctx, intakeID)
	}
	gen := common.GenerationFromContext(ctx)
	ctx = common.WithContentHash(ctx, art.HashHex)
	logger := common.LoggerFromContext(ctx, p.logger).With(
		"intake_id", intakeID,
		"generation", gen,
		"format", format,
		"media_type", art.MediaType,
	)

	m := newMachine(gen, intakeID, observe)
	start := time.Now()

	res, err := p.run(ctx, m, logger, art, format)
	if err != nil {
		err = p.classify(ctx, err)
		m.fail()
		logger.Warn("intake.failed", "kind", common.KindOf(err), "err", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	res.IntakeID = intakeID
	res.Generation = gen
	res.Format = format
	res.ArtifactName = art.Name
	res.MediaType = art.MediaType
	res.ContentHash = art.HashHex

	if err := m.to(constants.StateComplete); err != nil {
		return nil, p.classify(ctx, err)
	}
	logger.Info("intake.complete", "pages", len(res.Pages), "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, m *machine, logger *slog.Logger, art Artifact, format constants.ExamFormat) (*Result, error) {
	if err := m.to(constants.StateValidating); err != nil {
		return nil, err
	}
	if format != constants.FormatCFA && format != constants.FormatFRM {
		return nil, common.InvalidArtifact(fmt.Errorf("%w: unknown exam format %q", common.ErrInvalidInput, format))
	}

	switch constants.MapMediaTypeToKind(art.MediaType) {
	case constants.IMAGE:
		return p.runImage(ctx, m, logger, art, format)
	case constants.PDF:
		doc, err := document.Load(art.Data, p.cfg.TempDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := doc.Close(); cerr != nil {
				logger.Warn("intake.cleanup.failed", "err", cerr)
			}
		}()
		logger.Debug("intake.pdf.loaded", "page_count", doc.PageCount)

		if format == constants.FormatFRM {
			return p.runFRM(ctx, m, logger, doc)
		}
		return p.runCFA(ctx, m, logger, doc)
	default:
		return nil, common.UnsupportedMediaType(fmt.Sprintf("media type %q is not accepted; upload a PDF, JPEG or PNG", art.MediaType))
	}
}

func (p *Pipeline) runImage(ctx context.Context, m *machine, logger *slog.Logger, art Artifact, format constants.ExamFormat) (*Result, error) {
	if format == constants.FormatFRM {
		return nil, common.UnsupportedMediaType("FRM reports are only accepted as PDF")
	}

	img, err := document.DecodeImage(art.Data, 1)
	if err != nil {
		appErr := common.UnsupportedMediaType("image could not be decoded")
		appErr.Cause = err
		return nil, appErr
	}

	verdict := document.Validate(float64(img.Width), float64(img.Height))
	if !verdict.OK {
		logger.Info("intake.image.rejected", "width", img.Width, "height", img.Height)
		appErr := common.NewAppError(common.KindDimensionMismatch, verdict.Message(), nil)
		appErr.Detail = verdict
		return nil, appErr
	}

	res := &Result{Pages: []document.PageImage{img}}
	if p.recognizer == nil {
		return res, nil
	}

	// Optional OCR pass over the accepted image.
	if err := m.to(constants.StateExtracting); err != nil {
		return nil, err
	}
	text, warn := p.recognize(ctx, logger, img)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.to(constants.StateParsing); err != nil {
		return nil, err
	}
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
		return res, nil
	}
	summary := parse.ParseSummary(text)
	res.Summary = &summary
	return res, nil
}

func (p *Pipeline) runCFA(ctx context.Context, m *machine, logger *slog.Logger, doc *document.Document) (*Result, error) {
	if err := m.to(constants.StateRasterizing); err != nil {
		return nil, err
	}
	sctx, cancel := common.WithTimeout(ctx, p.cfg.StageTimeout)
	pages, err := p.rasterizer.Rasterize(sctx, doc, cfaPages)
	cancel()
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, common.RenderFailure("no pages rendered", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.to(constants.StateExtracting); err != nil {
		return nil, err
	}
	sctx, cancel = common.WithTimeout(ctx, p.cfg.StageTimeout)
	extracted, err := p.text.ExtractText(sctx, doc, []int{1})
	cancel()
	if err != nil {
		return nil, err
	}

	res := &Result{Pages: pages}
	text := extracted.String()
	ocrFailed := false
	if extracted.Blank() && p.recognizer != nil {
		logger.Info("intake.text.blank", "fallback", "ocr")
		var warn string
		text, warn = p.recognize(ctx, logger, pages[0])
		if warn != "" {
			res.Warnings = append(res.Warnings, warn)
			ocrFailed = true
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.to(constants.StateParsing); err != nil {
		return nil, err
	}
	if !ocrFailed {
		summary := parse.ParseSummary(text)
		res.Summary = &summary
	}
	return res, nil
}

func (p *Pipeline) runFRM(ctx context.Context, m *machine, logger *slog.Logger, doc *document.Document) (*Result, error) {
	if err := m.to(constants.StateExtracting); err != nil {
		return nil, err
	}
	sctx, cancel := common.WithTimeout(ctx, p.cfg.StageTimeout)
	extracted, err := p.text.ExtractText(sctx, doc, doc.AllPages())
	cancel()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.to(constants.StateParsing); err != nil {
		return nil, err
	}
	topics := parse.ParseTopicScores(extracted.String())
	logger.Debug("intake.frm.parsed", "topics_found", topics.Found())
	return &Result{Topics: topics}, nil
}

// recognize runs OCR on one page. A failure is reported as a warning, never as an error.
func (p *Pipeline) recognize(ctx context.Context, logger *slog.Logger, img document.PageImage) (string, string) {
	sctx, cancel := common.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()
	out, err := p.recognizer.Recognize(sctx, img.Data)
	if err != nil {
		logger.Warn("intake.ocr.failed", "page", img.Page, "err", err)
		return "", fmt.Sprintf("ocr failed on page %d", img.Page)
	}
	logger.Info("intake.ocr.ok", "page", img.Page, "confidence", out.Confidence, "duration_ms", out.Duration.Milliseconds())
	if out.Confidence < ocr.ConfidenceThreshold {
		logger.Warn("intake.ocr.low_confidence", "page", img.Page, "confidence", out.Confidence)
	}
	return out.Text, ""
}

// classify folds any error into an AppError. Cancellation of the intake wins over stage errors.
func (p *Pipeline) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return common.NewAppError(common.KindCanceled, "intake canceled", ctxErr)
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.RenderFailure("stage timed out", err)
	}
	return common.RenderFailure("intake failed", err)
}
