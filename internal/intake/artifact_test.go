package intake_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
	"github.com/joseph-ayodele/exam-report-intake/internal/testutil"
)

func TestNewArtifact_SniffsMediaType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", testutil.BuildPDF("x"), constants.MediaTypePDF},
		{"png", testutil.PNG(4, 4), constants.MediaTypePNG},
		{"jpeg", testutil.JPEG(4, 4), constants.MediaTypeJPEG},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := intake.NewArtifact("upload", tt.data, constants.MediaTypePDF, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, art.MediaType)
			assert.Equal(t, constants.MediaTypePDF, art.DeclaredType)
			assert.Len(t, art.HashHex, 64)
		})
	}
}

func TestNewArtifact_BoundaryChecks(t *testing.T) {
	_, err := intake.NewArtifact("empty.pdf", nil, "", 0)
	assert.Equal(t, common.KindInvalidArtifact, common.KindOf(err))
	assert.ErrorIs(t, err, common.ErrEmptyArtifact)

	_, err = intake.NewArtifact("big.pdf", make([]byte, 11), "", 10)
	assert.Equal(t, common.KindInvalidArtifact, common.KindOf(err))
	assert.ErrorIs(t, err, common.ErrFileTooLarge)
}

func TestReadArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Score.PNG")
	require.NoError(t, os.WriteFile(path, testutil.PNG(8, 8), 0o600))

	art, err := intake.ReadArtifact(path, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "Score.PNG", art.Name)
	assert.Equal(t, constants.MediaTypePNG, art.MediaType)
	assert.Equal(t, constants.MediaTypePNG, art.DeclaredType)

	_, err = intake.ReadArtifact(path, 10)
	assert.ErrorIs(t, err, common.ErrFileTooLarge)

	_, err = intake.ReadArtifact(dir, 0)
	assert.Equal(t, common.KindInvalidArtifact, common.KindOf(err))

	_, err = intake.ReadArtifact(filepath.Join(dir, "missing.pdf"), 0)
	assert.Error(t, err)
}

func TestSinglePath(t *testing.T) {
	p, err := intake.SinglePath([]string{"a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", p)

	for _, paths := range [][]string{nil, {"a.pdf", "b.pdf"}} {
		_, err := intake.SinglePath(paths)
		assert.ErrorIs(t, err, common.ErrMultipleArtifacts)
		assert.Equal(t, common.KindInvalidArtifact, common.KindOf(err))
	}
}
