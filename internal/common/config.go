package common

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Log    LogConfig
	Intake IntakeConfig
	Render RenderConfig
	OCR    OCRConfig
	Chart  ChartConfig
	Batch  BatchConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IntakeConfig holds boundary limits for uploaded artifacts.
type IntakeConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the size limit in bytes.
func (c IntakeConfig) MaxBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// RenderConfig holds poppler settings for rasterization and text extraction.
type RenderConfig struct {
	Pdftoppm     string        `mapstructure:"pdftoppm"`
	Pdftotext    string        `mapstructure:"pdftotext"`
	DPI          int           `mapstructure:"dpi"`
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
	TempDir      string        `mapstructure:"temp_dir"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Tesseract   string `mapstructure:"tesseract"`
	Lang        string `mapstructure:"lang"`
	TessdataDir string `mapstructure:"tessdata_dir"`
	PSM         int    `mapstructure:"psm"`
	OEM         int    `mapstructure:"oem"`
}

// ChartConfig configures the external chart analyzer command.
type ChartConfig struct {
	Command string        `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig holds worker queue settings for directory runs.
type BatchConfig struct {
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
}

// LoadConfig reads configuration from environment variables with the EXAMREPORT_ prefix.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EXAMREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("intake.max_file_size_mb", 25)

	v.SetDefault("render.pdftoppm", "pdftoppm")
	v.SetDefault("render.pdftotext", "pdftotext")
	v.SetDefault("render.dpi", 72)
	v.SetDefault("render.stage_timeout", "60s")
	v.SetDefault("render.temp_dir", "")

	v.SetDefault("ocr.enabled", false)
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.oem", 0)

	v.SetDefault("chart.command", "")
	v.SetDefault("chart.timeout", "30s")

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.queue_size", 64)
	v.SetDefault("batch.process_timeout", "3m")
	v.SetDefault("batch.watch_debounce", "500ms")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"log.level":               "EXAMREPORT_LOG_LEVEL",
		"log.format":              "EXAMREPORT_LOG_FORMAT",
		"intake.max_file_size_mb": "EXAMREPORT_INTAKE_MAX_FILE_SIZE_MB",
		"render.pdftoppm":         "EXAMREPORT_RENDER_PDFTOPPM",
		"render.pdftotext":        "EXAMREPORT_RENDER_PDFTOTEXT",
		"render.dpi":              "EXAMREPORT_RENDER_DPI",
		"render.stage_timeout":    "EXAMREPORT_RENDER_STAGE_TIMEOUT",
		"render.temp_dir":         "EXAMREPORT_RENDER_TEMP_DIR",
		"ocr.enabled":             "EXAMREPORT_OCR_ENABLED",
		"ocr.tesseract":           "EXAMREPORT_OCR_TESSERACT",
		"ocr.lang":                "EXAMREPORT_OCR_LANG",
		"ocr.tessdata_dir":        "TESSDATA_PREFIX",
		"ocr.psm":                 "EXAMREPORT_OCR_PSM",
		"ocr.oem":                 "EXAMREPORT_OCR_OEM",
		"chart.command":           "EXAMREPORT_CHART_COMMAND",
		"chart.timeout":           "EXAMREPORT_CHART_TIMEOUT",
		"batch.workers":           "EXAMREPORT_BATCH_WORKERS",
		"batch.queue_size":        "EXAMREPORT_BATCH_QUEUE_SIZE",
		"batch.process_timeout":   "EXAMREPORT_BATCH_PROCESS_TIMEOUT",
		"batch.watch_debounce":    "EXAMREPORT_BATCH_WATCH_DEBOUNCE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Intake: IntakeConfig{
			MaxFileSizeMB: v.GetInt64("intake.max_file_size_mb"),
		},
		Render: RenderConfig{
			Pdftoppm:     v.GetString("render.pdftoppm"),
			Pdftotext:    v.GetString("render.pdftotext"),
			DPI:          v.GetInt("render.dpi"),
			StageTimeout: v.GetDuration("render.stage_timeout"),
			TempDir:      v.GetString("render.temp_dir"),
		},
		OCR: OCRConfig{
			Enabled:     v.GetBool("ocr.enabled"),
			Tesseract:   v.GetString("ocr.tesseract"),
			Lang:        v.GetString("ocr.lang"),
			TessdataDir: v.GetString("ocr.tessdata_dir"),
			PSM:         v.GetInt("ocr.psm"),
			OEM:         v.GetInt("ocr.oem"),
		},
		Chart: ChartConfig{
			Command: v.GetString("chart.command"),
			Timeout: v.GetDuration("chart.timeout"),
		},
		Batch: BatchConfig{
			Workers:        v.GetInt("batch.workers"),
			QueueSize:      v.GetInt("batch.queue_size"),
			ProcessTimeout: v.GetDuration("batch.process_timeout"),
			WatchDebounce:  v.GetDuration("batch.watch_debounce"),
		},
	}
	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("json", "text")).
		Field("intake.max_file_size_mb", c.Intake.MaxFileSizeMB, Positive).
		Field("render.pdftoppm", c.Render.Pdftoppm, Required).
		Field("render.pdftotext", c.Render.Pdftotext, Required).
		Field("render.dpi", c.Render.DPI, Between(36, 600)).
		Field("render.stage_timeout", c.Render.StageTimeout, Positive).
		Field("batch.workers", c.Batch.Workers, Positive).
		Field("batch.queue_size", c.Batch.QueueSize, Positive).
		Field("batch.process_timeout", c.Batch.ProcessTimeout, Positive)
	if c.OCR.Enabled {
		v.Field("ocr.tesseract", c.OCR.Tesseract, Required).
			Field("ocr.lang", c.OCR.Lang, Required).
			Field("ocr.psm", c.OCR.PSM, Between(0, 13)).
			Field("ocr.oem", c.OCR.OEM, Between(0, 3))
	}
	if c.Chart.Command != "" {
		v.Field("chart.timeout", c.Chart.Timeout, Positive)
	}
	if v.HasErrors() {
		return NewAppError(KindConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
