package utils

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const pdfWrapWidth = 90

// RenderTextPDF renders plain text into a single-column PDF document and
// returns the raw bytes. Lines are word-wrapped to a fixed width and pages
// break automatically.
func RenderTextPDF(text string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Courier", "", 9)

	for _, line := range strings.Split(text, "\n") {
		for _, wrapped := range wrapLine(line, pdfWrapWidth) {
			pdf.CellFormat(0, 4.5, wrapped, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render text PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapLine word-wraps a single line to at most width characters. Words
// longer than the width are emitted on their own line unbroken.
func wrapLine(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var current strings.Builder
	currentRunes := 0
	for _, word := range strings.Fields(line) {
		wordRunes := utf8.RuneCountInString(word)
		if currentRunes == 0 {
			current.WriteString(word)
			currentRunes = wordRunes
			continue
		}
		if currentRunes+1+wordRunes > width {
			out = append(out, current.String())
			current.Reset()
			current.WriteString(word)
			currentRunes = wordRunes
			continue
		}
		current.WriteString(" ")
		current.WriteString(word)
		currentRunes += 1 + wordRunes
	}
	if currentRunes > 0 {
		out = append(out, current.String())
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}
