package constants

import "strings"

// Media types accepted at the intake boundary.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
)

// Coarse artifact kinds.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions maps the file extensions accepted for upload to their media type.
var AllowedExtensions = map[string]string{
	"pdf":  MediaTypePDF,
	"jpg":  MediaTypeJPEG,
	"jpeg": MediaTypeJPEG,
	"png":  MediaTypePNG,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapMediaTypeToKind returns PDF, IMAGE or "" for anything else.
func MapMediaTypeToKind(mediaType string) string {
	switch mediaType {
	case MediaTypePDF:
		return PDF
	case MediaTypeJPEG, MediaTypePNG:
		return IMAGE
	default:
		return ""
	}
}

// IsImageMediaType reports whether mediaType is one of the accepted raster types.
func IsImageMediaType(mediaType string) bool {
	return MapMediaTypeToKind(mediaType) == IMAGE
}
