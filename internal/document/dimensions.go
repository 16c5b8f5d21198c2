package document

import (
	"fmt"
	"math"
	"strings"
)

// Reference score-report raster size and the re-export scales accepted around it.
const (
	BaseWidth        = 5100
	BaseHeight       = 3300
	TolerancePercent = 5
)

var scaleFactors = []float64{0.25, 0.5, 1, 1.5, 2}

// Size is an acceptable target raster size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%d×%d", s.Width, s.Height)
}

// Verdict is the outcome of a dimension check. Acceptable is only set on failure.
type Verdict struct {
	OK         bool    `json:"ok"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Acceptable []Size  `json:"acceptable,omitempty"`
}

// Message is the human-readable rejection text; empty when OK.
func (v Verdict) Message() string {
	if v.OK {
		return ""
	}
	return fmt.Sprintf("image dimensions don't match any acceptable sizes: image is %g×%g pixels; acceptable dimensions (with %d%% tolerance): %s",
		v.Width, v.Height, TolerancePercent, joinSizes(v.Acceptable))
}

// Validate accepts width×height when both fall inside ±5% of the same scaled target.
// Window bounds are inclusive.
func Validate(width, height float64) Verdict {
	tolerance := float64(TolerancePercent) / 100
	for _, scale := range scaleFactors {
		targetWidth := BaseWidth * scale
		targetHeight := BaseHeight * scale

		minWidth := targetWidth * (1 - tolerance)
		maxWidth := targetWidth * (1 + tolerance)
		minHeight := targetHeight * (1 - tolerance)
		maxHeight := targetHeight * (1 + tolerance)

		if width >= minWidth && width <= maxWidth &&
			height >= minHeight && height <= maxHeight {
			return Verdict{OK: true, Width: width, Height: height}
		}
	}
	return Verdict{Width: width, Height: height, Acceptable: AcceptableSizes()}
}

// AcceptableSizes lists every scaled target rounded to the nearest pixel, in scale order.
func AcceptableSizes() []Size {
	out := make([]Size, 0, len(scaleFactors))
	for _, scale := range scaleFactors {
		out = append(out, Size{
			Width:  int(math.Round(BaseWidth * scale)),
			Height: int(math.Round(BaseHeight * scale)),
		})
	}
	return out
}

// ScaleFactors returns a copy of the accepted scale factors.
func ScaleFactors() []float64 {
	out := make([]float64, len(scaleFactors))
	copy(out, scaleFactors)
	return out
}

func joinSizes(sizes []Size) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
