package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ConfidenceThreshold is the blended confidence under which OCR text is flagged as weak.
const ConfidenceThreshold = 0.6

type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	TempDir     string // where page images are spooled for tesseract; "" = os.TempDir()

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	EnableTSVConfidence bool
}

type Result struct {
	Text       string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Recognizer turns a page image into text with tesseract.
type Recognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRecognizer(cfg Config, runner Runner, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &Recognizer{cfg: cfg, runner: runner, logger: logger}
}

// Recognize runs OCR over encoded image bytes (PNG or JPEG).
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (Result, error) {
	start := time.Now()
	if len(image) == 0 {
		return Result{}, fmt.Errorf("ocr: empty image")
	}

	tmpDir, err := os.MkdirTemp(r.cfg.TempDir, "exr-ocr-*")
	if err != nil {
		return Result{}, fmt.Errorf("ocr: temp dir: %w", err)
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("failed to remove temp dir", "path", path, "error", err)
		}
	}(tmpDir)

	path := filepath.Join(tmpDir, "page"+imageExt(image))
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return Result{}, fmt.Errorf("ocr: spool image: %w", err)
	}

	txt, warn, err := r.tesseractOCR(ctx, path)
	if err != nil {
		return Result{Language: r.cfg.Lang, Warnings: warn}, err
	}
	txt = Normalize(txt)

	var ocrConf float32
	if r.cfg.EnableTSVConfidence {
		if c, err2 := r.tesseractTSVConfidence(ctx, path); err2 == nil {
			ocrConf = c
		} else {
			warn = append(warn, err2.Error())
		}
	}
	heurConf := heuristicConfidence(txt)

	// blend: weight OCR higher if present
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < ConfidenceThreshold {
		r.logger.Warn("ocr confidence low", "confidence", conf, "bytes", len(txt))
	}

	return Result{
		Text:       txt,
		Language:   r.cfg.Lang,
		Duration:   time.Since(start),
		Warnings:   warn,
		Confidence: conf,
	}, nil
}

func (r *Recognizer) baseArgs(path string) []string {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", r.cfg.Lang}
	if r.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(r.cfg.PSM))
	}
	if r.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(r.cfg.OEM))
	}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}
	return args
}

func (r *Recognizer) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, r.baseArgs(path)...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	// minor cleanup of obvious line noise
	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (r *Recognizer) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	args := append(r.baseArgs(path), "tsv")
	out, _, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	var sum, n float64
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		} // skip header
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10] // level..height, conf, text
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float32(sum / n / 100.0), nil
}

func imageExt(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	default:
		return ".png"
	}
}
