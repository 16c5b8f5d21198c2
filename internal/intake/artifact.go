package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
)

// Artifact is one uploaded file. Treat it as immutable once built.
type Artifact struct {
	Name         string
	MediaType    string // sniffed from the leading bytes
	DeclaredType string // from the extension or the uploader, informational
	Data         []byte
	HashHex      string
}

// NewArtifact checks the boundary limits and sniffs the media type from magic bytes.
// Unsupported types are not rejected here: the orchestrator fails them during validation.
func NewArtifact(name string, data []byte, declaredType string, maxBytes int64) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, common.InvalidArtifact(common.ErrEmptyArtifact)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Artifact{}, common.InvalidArtifact(fmt.Errorf("%w: %d bytes > %d", common.ErrFileTooLarge, len(data), maxBytes))
	}

	// Read first 512 bytes for magic-byte content type detection
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	sum := sha256.Sum256(data)

	return Artifact{
		Name:         name,
		MediaType:    http.DetectContentType(head),
		DeclaredType: declaredType,
		Data:         data,
		HashHex:      hex.EncodeToString(sum[:]),
	}, nil
}

// ReadArtifact loads a file from disk, declaring its type from the extension.
func ReadArtifact(path string, maxBytes int64) (Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Artifact{}, common.WrapError(err, "abs path")
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Artifact{}, common.WrapError(err, "stat")
	}
	if info.IsDir() {
		return Artifact{}, common.InvalidArtifact(fmt.Errorf("%s is a directory", abs))
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Artifact{}, common.InvalidArtifact(fmt.Errorf("%w: %d bytes > %d", common.ErrFileTooLarge, info.Size(), maxBytes))
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Artifact{}, common.WrapError(err, "read")
	}
	declared := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(abs))]
	return NewArtifact(filepath.Base(abs), data, declared, maxBytes)
}

// SinglePath enforces one artifact per intake.
func SinglePath(paths []string) (string, error) {
	if len(paths) != 1 {
		return "", common.InvalidArtifact(fmt.Errorf("%w: got %d", common.ErrMultipleArtifacts, len(paths)))
	}
	return paths[0], nil
}
