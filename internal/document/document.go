package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/exam-report-intake/internal/common"
)

// Document is a validated PDF spooled to a private temp dir for the poppler tools.
// Close releases the spool; it is safe to call more than once.
type Document struct {
	PageCount int

	dir  string
	path string
	once sync.Once
}

// Load validates data as a PDF, counts its pages, and spools it under tempDir ("" = os.TempDir()).
// Bytes that are not a readable PDF yield an UNSUPPORTED_MEDIA_TYPE error.
func Load(data []byte, tempDir string) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &common.AppError{
			Kind:    common.KindUnsupportedMediaType,
			Message: "artifact is not a readable PDF document",
			Cause:   err,
		}
	}
	if pages < 1 {
		return nil, common.UnsupportedMediaType("PDF document has no pages")
	}

	dir, err := os.MkdirTemp(tempDir, "exr-doc-*")
	if err != nil {
		return nil, common.RenderFailure("create spool dir", err)
	}
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, common.RenderFailure("spool document", err)
	}
	return &Document{PageCount: pages, dir: dir, path: path}, nil
}

// Path is the spooled PDF file.
func (d *Document) Path() string { return d.path }

// HasPage reports whether the 1-based page n exists.
func (d *Document) HasPage(n int) bool {
	return n >= 1 && n <= d.PageCount
}

// AllPages returns 1..PageCount.
func (d *Document) AllPages() []int {
	out := make([]int, d.PageCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (d *Document) Close() error {
	var err error
	d.once.Do(func() {
		if d.dir != "" {
			err = os.RemoveAll(d.dir)
		}
	})
	if err != nil {
		return fmt.Errorf("remove spool: %w", err)
	}
	return nil
}

// existingPages keeps the requested pages that exist, deduplicated, in request order.
func existingPages(doc *Document, pages []int) []int {
	seen := make(map[int]struct{}, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if !doc.HasPage(p) {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
