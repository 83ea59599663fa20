package extraction

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts tool invocations. For pdftoppm it writes page files
// so the glob in the OCR path has something to find.
type fakeRunner struct {
	calls     [][]string
	layerText string
	pageCount int
	ocrText   string
	failTool  string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == f.failTool {
		return nil, []byte("boom"), fmt.Errorf("exit status 1")
	}
	switch name {
	case "pdftotext":
		return []byte(f.layerText), nil, nil
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pageCount; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(f.ocrText), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected tool %s", name)
}

func TestAcquireTextLayerVendor(t *testing.T) {
	runner := &fakeRunner{layerText: "page one\fpage two"}
	acquirer := NewTextAcquirer(AcquireConfig{}).WithRunner(runner)

	text := acquirer.AcquireText(context.Background(), "/tmp/ref.pdf", OneCall)

	assert.Equal(t, "page one\npage two", text)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"pdftotext", "-layout", "-enc", "UTF-8", "-eol", "unix", "/tmp/ref.pdf", "-"}, runner.calls[0])
}

func TestAcquireTextScannedVendorRunsOCRPerPage(t *testing.T) {
	runner := &fakeRunner{pageCount: 2, ocrText: "ocr text"}
	acquirer := NewTextAcquirer(AcquireConfig{DPI: 200}).WithRunner(runner)

	text := acquirer.AcquireText(context.Background(), "/tmp/cert.pdf", Corvel)

	assert.Equal(t, "ocr text\nocr text", text)

	var tools []string
	for _, call := range runner.calls {
		tools = append(tools, call[0])
	}
	assert.Equal(t, []string{"pdftoppm", "tesseract", "tesseract"}, tools)

	// The raster pass must carry the configured DPI.
	assert.Contains(t, strings.Join(runner.calls[0], " "), "-r 200")
}

func TestAcquireTextToolFailureYieldsEmpty(t *testing.T) {
	runner := &fakeRunner{failTool: "pdftotext"}
	acquirer := NewTextAcquirer(AcquireConfig{}).WithRunner(runner)

	text := acquirer.AcquireText(context.Background(), "/tmp/bad.pdf", Generic)
	assert.Empty(t, text)
}

func TestAcquireConfigDefaults(t *testing.T) {
	acquirer := NewTextAcquirer(AcquireConfig{})
	assert.Equal(t, "pdftotext", acquirer.cfg.Pdftotext)
	assert.Equal(t, "pdftoppm", acquirer.cfg.Pdftoppm)
	assert.Equal(t, "tesseract", acquirer.cfg.Tesseract)
	assert.Equal(t, 144, acquirer.cfg.DPI)
}
