package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// Rasterizer renders PDF pages to PNG with pdftoppm.
type Rasterizer struct {
	cfg    Config
	runner ocr.Runner
	logger *slog.Logger
}

func NewRasterizer(cfg Config, runner ocr.Runner, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.NewExecRunner(logger)
	}
	return &Rasterizer{cfg: cfg.withDefaults(), runner: runner, logger: logger}
}

// Rasterize renders the requested pages that exist, in request order. Pages past
// the end of the document are skipped; a page that exists but fails to render
// aborts the whole call with RENDER_FAILURE.
func (r *Rasterizer) Rasterize(ctx context.Context, doc *Document, pages []int) ([]PageImage, error) {
	want := existingPages(doc, pages)
	out := make([]PageImage, len(want))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range want {
		g.Go(func() error {
			img, err := r.RenderPage(gctx, doc, page)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderPage renders a single existing page.
func (r *Rasterizer) RenderPage(ctx context.Context, doc *Document, page int) (PageImage, error) {
	if !doc.HasPage(page) {
		return PageImage{}, common.RenderFailure(fmt.Sprintf("page %d does not exist (document has %d)", page, doc.PageCount), nil)
	}
	start := time.Now()
	prefix := filepath.Join(doc.dir, "page-"+strconv.Itoa(page))
	n := strconv.Itoa(page)

	// pdftoppm -f N -l N -r 72 -png -singlefile <in.pdf> <dir/page-N>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-f", n, "-l", n, "-r", strconv.Itoa(r.cfg.DPI), "-png", "-singlefile", doc.Path(), prefix)
	if err != nil {
		return PageImage{}, toolFailure(fmt.Sprintf("render page %d", page), r.cfg.Pdftoppm, errb, err)
	}

	out := prefix + ".png"
	data, err := os.ReadFile(out)
	if err != nil {
		return PageImage{}, common.RenderFailure(fmt.Sprintf("render page %d produced no image", page), err)
	}
	_ = os.Remove(out)

	img, err := DecodeImage(data, page)
	if err != nil {
		return PageImage{}, common.RenderFailure(fmt.Sprintf("render page %d produced an unreadable image", page), err)
	}
	r.logger.Debug("page rendered", "page", page, "width", img.Width, "height", img.Height,
		"duration_ms", time.Since(start).Milliseconds())
	return img, nil
}

// toolFailure builds the RENDER_FAILURE for a failed poppler invocation.
func toolFailure(action, tool string, stderr []byte, err error) *common.AppError {
	if ocr.MissingTool(err) {
		return common.RenderFailure(fmt.Sprintf("%s: %s is not installed", action, tool), err)
	}
	return common.RenderFailure(fmt.Sprintf("%s: %s", action, ocr.Truncate(strings.TrimSpace(string(stderr)), 512)), err)
}
