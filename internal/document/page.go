package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
)

// PageImage is one rendered page (or an uploaded raster) with its 1-based source page.
type PageImage struct {
	Page      int    `json:"page"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MediaType string `json:"mediaType"`
	Data      []byte `json:"-"`
}

// Clone returns a deep copy so a consumer can't reach the original bytes.
func (p PageImage) Clone() PageImage {
	c := p
	c.Data = append([]byte(nil), p.Data...)
	return c
}

// DecodeImage reads the header of a PNG or JPEG and wraps it as a PageImage.
func DecodeImage(data []byte, page int) (PageImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return PageImage{}, fmt.Errorf("decode image header: %w", err)
	}
	mediaType := http.DetectContentType(data)
	if format != "png" && format != "jpeg" {
		return PageImage{}, fmt.Errorf("unsupported image format %q", format)
	}
	return PageImage{
		Page:      page,
		Width:     cfg.Width,
		Height:    cfg.Height,
		MediaType: mediaType,
		Data:      data,
	}, nil
}
