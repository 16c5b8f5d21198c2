package document

// Config names the poppler binaries and the render scale.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	DPI       int    // 72 renders one PDF point per pixel (scale 1.0)
}

func (c Config) withDefaults() Config {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.DPI <= 0 {
		c.DPI = 72
	}
	return c
}
