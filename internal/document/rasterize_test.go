package document

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
	"github.com/joseph-ayodele/exam-report-intake/internal/testutil"
)

func loadDoc(t *testing.T, pages ...string) *Document {
	t.Helper()
	doc, err := Load(testutil.BuildPDF(pages...), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func TestRasterize_RendersRequestedPagesInOrder(t *testing.T) {
	doc := loadDoc(t, "p1", "p2", "p3")
	runner := &testutil.FakeRunner{PageWidth: 120, PageHeight: 80}
	r := NewRasterizer(Config{DPI: 150}, runner, nil)

	pages, err := r.Rasterize(context.Background(), doc, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, 2, pages[1].Page)
	for _, p := range pages {
		assert.Equal(t, 120, p.Width)
		assert.Equal(t, 80, p.Height)
		assert.Equal(t, "image/png", p.MediaType)
		assert.NotEmpty(t, p.Data)
	}

	assert.Equal(t, 2, runner.CallsTo("pdftoppm"))
	for _, c := range runner.Calls() {
		assert.Contains(t, c, "-singlefile")
		assert.Contains(t, c, "150")
		assert.Contains(t, c, doc.Path())
	}
}

func TestRasterize_OnePageDocumentYieldsOneImage(t *testing.T) {
	doc := loadDoc(t, "only")
	r := NewRasterizer(Config{}, &testutil.FakeRunner{}, nil)

	pages, err := r.Rasterize(context.Background(), doc, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Page)
}

func TestRasterize_ToolFailureIsRenderFailure(t *testing.T) {
	doc := loadDoc(t, "p1", "p2")
	runner := &testutil.FakeRunner{Errors: map[string]error{"pdftoppm": errors.New("exit status 99")}}
	r := NewRasterizer(Config{}, runner, nil)

	_, err := r.Rasterize(context.Background(), doc, []int{1, 2})
	require.Error(t, err)
	assert.Equal(t, common.KindRenderFailure, common.KindOf(err))
}

func TestRenderPage_MissingPage(t *testing.T) {
	doc := loadDoc(t, "p1")
	r := NewRasterizer(Config{}, &testutil.FakeRunner{}, nil)

	_, err := r.RenderPage(context.Background(), doc, 2)
	assert.Equal(t, common.KindRenderFailure, common.KindOf(err))
}

func TestRasterize_MissingToolIsNamed(t *testing.T) {
	doc := loadDoc(t, "p1")
	runner := &testutil.FakeRunner{Errors: map[string]error{
		"pdftoppm": &ocr.ExecError{Name: "pdftoppm", ExitCode: -1, Err: exec.ErrNotFound},
	}}
	r := NewRasterizer(Config{}, runner, nil)

	_, err := r.Rasterize(context.Background(), doc, []int{1})
	require.Error(t, err)
	assert.Equal(t, common.KindRenderFailure, common.KindOf(err))
	assert.Contains(t, err.Error(), "pdftoppm is not installed")
}
