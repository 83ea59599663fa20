package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTextPDF(t *testing.T) {
	data, err := RenderTextPDF("Name: Jane Public\nProvider: Acme PT")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRenderTextPDFLongText(t *testing.T) {
	long := strings.Repeat("authorization details line with several words in it\n", 200)
	data, err := RenderTextPDF(long)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"short line"}, wrapLine("short line", 20))
	assert.Equal(t, []string{""}, wrapLine("", 20))

	wrapped := wrapLine("one two three four five six", 10)
	for _, line := range wrapped {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 10)
	}
	assert.Equal(t, "one two three four five six", strings.Join(wrapped, " "))

	// Width counts runes, not bytes.
	wrapped = wrapLine("José Muñoz señaló cuándo", 12)
	for _, line := range wrapped {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 12)
	}
	assert.Equal(t, []string{"José Muñoz", "señaló", "cuándo"}, wrapped)

	// A single over-long word is emitted unbroken.
	assert.Equal(t, []string{"supercalifragilistic"}, wrapLine("supercalifragilistic", 10))
}
