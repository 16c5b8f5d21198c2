package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsEveryScale(t *testing.T) {
	for _, s := range AcceptableSizes() {
		v := Validate(float64(s.Width), float64(s.Height))
		assert.True(t, v.OK, "size %s", s)
		assert.Empty(t, v.Acceptable)
		assert.Empty(t, v.Message())
	}
}

func TestValidate_ToleranceWindow(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		height float64
		ok     bool
	}{
		{"just inside upper width", 5354.9, 3300, true},
		{"just inside lower width", 4845.1, 3300, true},
		{"just inside upper height", 5100, 3464.9, true},
		{"above +5%", 5100 * 1.050001, 3300, false},
		{"below -5%", 4844.9, 3300, false},
		{"height above +5%", 5100, 3300 * 1.050001, false},
		{"quarter scale", 1275, 825, true},
		{"quarter scale drifted", 1300, 840, true},
		{"width and height from different scales", 5100, 1650, false},
		{"portrait", 3300, 5100, false},
		{"tiny", 100, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.width, tt.height)
			assert.Equal(t, tt.ok, v.OK)
			assert.Equal(t, tt.width, v.Width)
			assert.Equal(t, tt.height, v.Height)
		})
	}
}

func TestValidate_RejectionListsAllTargets(t *testing.T) {
	v := Validate(800, 600)
	require.False(t, v.OK)
	require.Len(t, v.Acceptable, 5)

	msg := v.Message()
	assert.Contains(t, msg, "800×600")
	assert.Contains(t, msg, "5%")
	for _, want := range []string{"1275×825", "2550×1650", "5100×3300", "7650×4950", "10200×6600"} {
		assert.Contains(t, msg, want)
	}
}

func TestAcceptableSizes_ScaleOrder(t *testing.T) {
	sizes := AcceptableSizes()
	require.Len(t, sizes, len(ScaleFactors()))
	assert.Equal(t, Size{Width: 1275, Height: 825}, sizes[0])
	assert.Equal(t, Size{Width: 10200, Height: 6600}, sizes[len(sizes)-1])
}

func TestScaleFactors_ReturnsCopy(t *testing.T) {
	f := ScaleFactors()
	f[0] = 99
	assert.Equal(t, 0.25, ScaleFactors()[0])
}
