package intake

import (
	"log/slog"

	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/document"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// NewPipelineFromConfig wires the poppler tools and, when enabled, tesseract behind one exec runner.
func NewPipelineFromConfig(cfg *common.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	runner := ocr.NewExecRunner(logger)

	docCfg := document.Config{
		Pdftoppm:  cfg.Render.Pdftoppm,
		Pdftotext: cfg.Render.Pdftotext,
		DPI:       cfg.Render.DPI,
	}

	var recognizer Recognizer
	if cfg.OCR.Enabled {
		recognizer = ocr.NewRecognizer(ocr.Config{
			Tesseract:           cfg.OCR.Tesseract,
			Lang:                cfg.OCR.Lang,
			TessdataDir:         cfg.OCR.TessdataDir,
			TempDir:             cfg.Render.TempDir,
			PSM:                 cfg.OCR.PSM,
			OEM:                 cfg.OCR.OEM,
			EnableTSVConfidence: true,
		}, runner, logger)
	}

	return NewPipeline(
		PipelineConfig{StageTimeout: cfg.Render.StageTimeout, TempDir: cfg.Render.TempDir},
		document.NewRasterizer(docCfg, runner, logger),
		document.NewTextExtractor(docCfg, runner, logger),
		recognizer,
		logger,
	)
}
