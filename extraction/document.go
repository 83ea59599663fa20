package extraction

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Runner executes an external tool and returns its stdout/stderr. It is an
// interface so tests can stub the poppler/tesseract binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return []byte(out.String()), []byte(errb.String()), err
}

// AcquireConfig carries the external tool settings. Zero values fall back
// to the binaries on PATH and a 2x upscale (144 dpi) for scanned vendors.
type AcquireConfig struct {
	Pdftotext string
	Pdftoppm  string
	Tesseract string
	DPI       int
}

// TextAcquirer turns a PDF into a flat string: the native text layer for
// vendors that have one, a raster + OCR pass for vendors known to ship
// scanned images. Failures are logged and produce an empty string; the
// extractor treats empty text as "no fields matched", never as fatal.
type TextAcquirer struct {
	cfg    AcquireConfig
	runner Runner
}

func NewTextAcquirer(cfg AcquireConfig) *TextAcquirer {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 144
	}
	return &TextAcquirer{cfg: cfg, runner: execRunner{}}
}

// WithRunner swaps the tool runner; used by tests.
func (a *TextAcquirer) WithRunner(r Runner) *TextAcquirer {
	a.runner = r
	return a
}

// AcquireText extracts the full plain-text content of the document for the
// given vendor.
func (a *TextAcquirer) AcquireText(ctx context.Context, path string, vendor Vendor) string {
	if vendor.Scanned() {
		return a.ocrText(ctx, path)
	}
	return a.layerText(ctx, path)
}

// layerText pulls the native text layer page by page via pdftotext.
func (a *TextAcquirer) layerText(ctx context.Context, path string) string {
	out, errb, err := a.runner.Run(ctx, a.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		log.Printf("pdftotext failed for %s: %v (%s)", path, err, strings.TrimSpace(string(errb)))
		return ""
	}
	// pdftotext separates pages with form feeds; callers expect plain
	// newline separators.
	return strings.ReplaceAll(string(out), "\f", "\n")
}

// ocrText rasterizes each page and runs an OCR pass, concatenating the
// recognized text in page order.
func (a *TextAcquirer) ocrText(ctx context.Context, path string) string {
	tmpDir, err := os.MkdirTemp("", "tb-ocr-*")
	if err != nil {
		log.Printf("failed to create OCR temp dir: %v", err)
		return ""
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("failed to remove OCR temp dir %s: %v", tmpDir, err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := a.runner.Run(ctx, a.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", a.cfg.DPI), "-png", path, prefix)
	if err != nil {
		log.Printf("pdftoppm failed for %s: %v (%s)", path, err, strings.TrimSpace(string(errb)))
		return ""
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		log.Printf("pdftoppm produced no pages for %s", path)
		return ""
	}

	var b strings.Builder
	for _, page := range pages {
		out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, page, "stdout")
		if err != nil {
			log.Printf("tesseract failed for %s: %v (%s)", page, err, strings.TrimSpace(string(errb)))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(out))
	}
	return b.String()
}
