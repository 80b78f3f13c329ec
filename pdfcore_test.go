package pdfcore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/internal/pdftest"
	"github.com/tsawler/pdfcore/logger"
	"github.com/tsawler/pdfcore/reader"
)

const fontBody = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

// samplePDF writes one page per text. An empty text gives a page
// without content.
func samplePDF(texts ...string) *pdftest.Builder {
	b := pdftest.New("1.4").
		Object(1, "<< /Type /Catalog /Pages 2 0 R >>").
		Object(3, fontBody)

	var kids []string
	for i, s := range texts {
		page := 10 + 2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
		if s == "" {
			b.Object(page, "<< /Type /Page /Parent 2 0 R >>")
			continue
		}
		b.Object(page, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", page+1))
		b.Stream(page+1, "", []byte("BT /F1 12 Tf 72 720 Td ("+s+") Tj ET"))
	}
	b.Object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> >>",
		strings.Join(kids, " "), len(texts)))
	return b
}

func sampleBytes(texts ...string) []byte {
	return samplePDF(texts...).XRef("/Root 1 0 R").Bytes()
}

func TestOpen(t *testing.T) {
	// Test with non-existent file
	_, _, err := Open("nonexistent.pdf").Text()
	assert.Error(t, err)

	_, _, err = Open("").Text()
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, sampleBytes("Alpha", "Beta"), 0o600))

	text, warnings, err := Open(path).Text()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Alpha\n\nBeta", text)

	count, err := Open(path).PageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFromBytesNotAPDF(t *testing.T) {
	_, _, err := FromBytes([]byte("definitely not a pdf file")).Text()
	assert.ErrorIs(t, err, core.ErrMalformedHeader)
}

func TestPageSelection(t *testing.T) {
	data := sampleBytes("One", "Two", "Three", "Four")

	tests := []struct {
		name string
		ext  *Extractor
		want string
	}{
		{"all pages", FromBytes(data), "One\n\nTwo\n\nThree\n\nFour"},
		{"single page", FromBytes(data).Pages(2), "Two"},
		{"pages are sorted and deduplicated", FromBytes(data).Pages(3, 1, 3), "One\n\nThree"},
		{"cumulative calls", FromBytes(data).Pages(4).Pages(1), "One\n\nFour"},
		{"range", FromBytes(data).PageRange(2, 3), "Two\n\nThree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _, err := tt.ext.Text()
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestPageSelectionErrors(t *testing.T) {
	data := sampleBytes("One", "Two")

	_, _, err := FromBytes(data).Pages(3).Text()
	assert.Error(t, err)

	_, _, err = FromBytes(data).Pages(0).Text()
	assert.Error(t, err)

	_, _, err = FromBytes(data).PageRange(2, 1).Text()
	assert.Error(t, err)
}

func TestChainingDoesNotMutate(t *testing.T) {
	base := FromBytes(sampleBytes("One", "Two"))
	_ = base.Pages(2)

	text, _, err := base.Text()
	require.NoError(t, err)
	assert.Equal(t, "One\n\nTwo", text)
}

func TestEmptyPagesAreSkipped(t *testing.T) {
	text, _, err := FromBytes(sampleBytes("One", "", "Three")).Text()
	require.NoError(t, err)
	assert.Equal(t, "One\n\nThree", text)
}

func TestItems(t *testing.T) {
	pages, warnings, err := FromBytes(sampleBytes("One", "Two")).Pages(2).Items()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, pages, 1)
	assert.Equal(t, 2, pages[0].Page)
	require.Len(t, pages[0].Items, 1)

	item := pages[0].Items[0]
	assert.Equal(t, "Two", item.Text)
	assert.InDelta(t, 72, item.X, 1e-9)
	assert.InDelta(t, 72, item.Y, 1e-9)
}

func TestWithConfig(t *testing.T) {
	data := samplePDF("One").
		Mark(5).
		Raw("6 0 obj\n<< >>\nendobj\n").
		XRef("/Root 1 0 R").
		Bytes()

	text, warnings, err := FromBytes(data).Text()
	require.NoError(t, err)
	assert.Equal(t, "One", text)
	require.NotEmpty(t, warnings)
	assert.Contains(t, FormatWarnings(warnings), "skipping malformed object")

	cfg := reader.DefaultConfig()
	cfg.ParsingMode = reader.Strict
	_, _, err = FromBytes(data).WithConfig(cfg).Text()
	assert.ErrorIs(t, err, core.ErrMalformedObject)

	cfg.MaxDepth = 0
	_, _, err = FromBytes(data).WithConfig(cfg).Text()
	assert.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	data := samplePDF("One").
		Mark(5).
		Raw("6 0 obj\n<< >>\nendobj\n").
		XRef("/Root 1 0 R").
		Bytes()

	var messages []string
	fn := func(level logger.LogLevel, msg string, _ ...interface{}) {
		messages = append(messages, string(level)+": "+msg)
	}

	_, warnings, err := FromBytes(data).WithLogger(fn).Text()
	require.NoError(t, err)
	assert.Contains(t, messages, "warn: skipping malformed object")
	assert.NotEmpty(t, warnings)
}

func TestRepeatedTerminalCalls(t *testing.T) {
	data := samplePDF("One").
		Mark(5).
		Raw("6 0 obj\n<< >>\nendobj\n").
		XRef("/Root 1 0 R").
		Bytes()
	ext := FromBytes(data)

	_, first, err := ext.Text()
	require.NoError(t, err)
	_, second, err := ext.Text()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFromDocument(t *testing.T) {
	doc, err := reader.Parse(sampleBytes("One", "Two"))
	require.NoError(t, err)

	text, _, err := FromDocument(doc).Pages(2).Text()
	require.NoError(t, err)
	assert.Equal(t, "Two", text)

	got, err := FromDocument(doc).Document()
	require.NoError(t, err)
	assert.Same(t, doc, got)
}

func TestMetadata(t *testing.T) {
	data := samplePDF("One").
		Object(4, "<< /Producer (pdfcore) >>").
		XRef("/Root 1 0 R /Info 4 0 R").
		Bytes()

	meta, err := FromBytes(data).Metadata()
	require.NoError(t, err)
	assert.Equal(t, "pdfcore", meta["Producer"])
}

func TestMust(t *testing.T) {
	assert.Equal(t, 2, Must(FromBytes(sampleBytes("One", "Two")).PageCount()))
	assert.Panics(t, func() { Must(0, errors.New("boom")) })

	assert.Equal(t, "One", MustText(FromBytes(sampleBytes("One")).Text()))
	assert.Panics(t, func() { MustText(FromBytes(nil).Text()) })
}

func TestWarningFormatting(t *testing.T) {
	warnings := []Warning{
		{Message: "skipping malformed object", Details: "object=4"},
		{Page: 2, Message: "skipping content stream"},
	}
	assert.Equal(t, "skipping malformed object (object=4)\npage 2: skipping content stream", FormatWarnings(warnings))
	assert.Equal(t, "", FormatWarnings(nil))
}

func TestNewWarning(t *testing.T) {
	w := newWarning("skipping content stream", []interface{}{"page", 3, "stream", 1, "error", errors.New("bad filter")})
	assert.Equal(t, 3, w.Page)
	assert.Equal(t, "skipping content stream", w.Message)
	assert.Equal(t, "stream=1 error=bad filter", w.Details)

	w = newWarning("odd", []interface{}{"dangling"})
	assert.Equal(t, "dangling", w.Details)
}
