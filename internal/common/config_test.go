package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, int64(25), cfg.Intake.MaxFileSizeMB)
	assert.Equal(t, int64(25*1024*1024), cfg.Intake.MaxBytes())
	assert.Equal(t, "pdftoppm", cfg.Render.Pdftoppm)
	assert.Equal(t, "pdftotext", cfg.Render.Pdftotext)
	assert.Equal(t, 72, cfg.Render.DPI)
	assert.Equal(t, 60*time.Second, cfg.Render.StageTimeout)
	assert.False(t, cfg.OCR.Enabled)
	assert.Equal(t, "eng", cfg.OCR.Lang)
	assert.Empty(t, cfg.Chart.Command)
	assert.Equal(t, 30*time.Second, cfg.Chart.Timeout)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 64, cfg.Batch.QueueSize)
	assert.Equal(t, 3*time.Minute, cfg.Batch.ProcessTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Batch.WatchDebounce)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXAMREPORT_LOG_LEVEL", "DEBUG")
	t.Setenv("EXAMREPORT_RENDER_DPI", "150")
	t.Setenv("EXAMREPORT_RENDER_STAGE_TIMEOUT", "5s")
	t.Setenv("EXAMREPORT_OCR_ENABLED", "true")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")
	t.Setenv("EXAMREPORT_BATCH_WORKERS", "8")
	t.Setenv("EXAMREPORT_CHART_COMMAND", "chart-scores")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 150, cfg.Render.DPI)
	assert.Equal(t, 5*time.Second, cfg.Render.StageTimeout)
	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataDir)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "chart-scores", cfg.Chart.Command)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero max size", func(c *Config) { c.Intake.MaxFileSizeMB = 0 }, "intake.max_file_size_mb"},
		{"negative dpi", func(c *Config) { c.Render.DPI = -1 }, "render.dpi"},
		{"dpi too high", func(c *Config) { c.Render.DPI = 1200 }, "render.dpi"},
		{"psm out of range", func(c *Config) { c.OCR.Enabled = true; c.OCR.PSM = 14 }, "ocr.psm"},
		{"zero stage timeout", func(c *Config) { c.Render.StageTimeout = 0 }, "render.stage_timeout"},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, "batch.workers"},
		{"blank pdftoppm", func(c *Config) { c.Render.Pdftoppm = " " }, "render.pdftoppm"},
		{"ocr without lang", func(c *Config) { c.OCR.Enabled = true; c.OCR.Lang = "" }, "ocr.lang"},
		{"chart without timeout", func(c *Config) { c.Chart.Command = "x"; c.Chart.Timeout = 0 }, "chart.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, KindConfig, KindOf(err))
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	v := NewValidator().
		Field("a", "", Required).
		Field("b", 0, Positive).
		Field("c", "ok", Required)

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors(), 2)
	assert.Equal(t, "a", v.Errors()[0].Field)
	assert.Equal(t, "b", v.Errors()[1].Field)
	assert.Contains(t, v.ErrorMessage(), "; ")
}

func TestBetween(t *testing.T) {
	rule := Between(0, 13)
	_, ok := rule(13)
	assert.True(t, ok)
	msg, ok := rule(14)
	assert.False(t, ok)
	assert.Equal(t, "must be between 0 and 13", msg)
	_, ok = rule("6")
	assert.False(t, ok)
}
