package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// FakeRunner stands in for pdftoppm, pdftotext, tesseract and any other command.
// pdftoppm writes a PNG of PageWidth×PageHeight to "<prefix>.png";
// pdftotext prints PageText[page]; tesseract prints OCRText (or a TSV table).
type FakeRunner struct {
	PageWidth  int
	PageHeight int
	PageText   map[int]string
	OCRText    string
	OCRConf    string
	// Stdout answers any other command by base name.
	Stdout map[string]string
	// Errors makes the named command (base name) fail.
	Errors map[string]error
	// Block, when set, holds every call until it is closed or the context ends.
	Block chan struct{}

	mu    sync.Mutex
	calls [][]string
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, []byte("killed"), ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	base := filepath.Base(name)
	if err, ok := f.Errors[base]; ok {
		return nil, []byte(base + " failed"), err
	}

	switch base {
	case "pdftoppm":
		if len(args) == 0 {
			return nil, nil, errors.New("pdftoppm: missing args")
		}
		w, h := f.PageWidth, f.PageHeight
		if w == 0 || h == 0 {
			w, h = 792, 612
		}
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+".png", PNG(w, h), 0o600); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "pdftotext":
		page, _ := strconv.Atoi(flagValue(args, "-f"))
		return []byte(f.PageText[page]), nil, nil
	case "tesseract":
		if args[len(args)-1] == "tsv" {
			conf := f.OCRConf
			if conf == "" {
				conf = "90"
			}
			tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
				"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t" + conf + "\tword\n"
			return []byte(tsv), nil, nil
		}
		return []byte(f.OCRText), nil, nil
	default:
		return []byte(f.Stdout[base]), nil, nil
	}
}

// Calls returns the recorded invocations, command name first.
func (f *FakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo counts invocations of the command with the given base name.
func (f *FakeRunner) CallsTo(base string) int {
	n := 0
	for _, c := range f.Calls() {
		if filepath.Base(c[0]) == base {
			n++
		}
	}
	return n
}

// Joined returns each call as a single space-separated string.
func (f *FakeRunner) Joined() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

func flagValue(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
