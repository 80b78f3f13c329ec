package pdfcore

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tsawler/pdfcore/logger"
	"github.com/tsawler/pdfcore/reader"
	"github.com/tsawler/pdfcore/text"
)

// PageItems holds the normalized text items of one page
type PageItems struct {
	Page  int // 1-based
	Items []text.TextItem
}

// Extractor provides a fluent interface for extracting content from PDFs.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	data     []byte
	hasData  bool

	// Parsed document and the warnings logged while parsing it
	doc           *reader.Document
	sink          *warningSink
	parseWarnings []Warning

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:      e.filename,
		data:          e.data,
		hasData:       e.hasData,
		doc:           e.doc,
		sink:          e.sink,
		parseWarnings: append([]Warning(nil), e.parseWarnings...),
		options:       e.options.clone(),
		err:           e.err,
	}
}

// ensureDocument reads and parses the source if that has not happened yet.
func (e *Extractor) ensureDocument() error {
	if e.doc != nil {
		return nil
	}

	data := e.data
	if !e.hasData {
		if e.filename == "" {
			return fmt.Errorf("no filename specified")
		}
		b, err := os.ReadFile(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		data = b
	}

	cfg := e.options.config
	sink := &warningSink{next: cfg.Logger}
	cfg.Logger = sink.log

	doc, err := reader.Parse(data, reader.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to parse PDF: %w", err)
	}
	e.doc = doc
	e.sink = sink
	e.parseWarnings = sink.drain()
	return nil
}

// warnings returns the parse warnings followed by anything logged since
// the last terminal operation.
func (e *Extractor) warnings(extra ...Warning) []Warning {
	out := append([]Warning(nil), e.parseWarnings...)
	if e.sink != nil {
		out = append(out, e.sink.drain()...)
	}
	return append(out, extra...)
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := pdfcore.Open("doc.pdf").Pages(1, 3, 5).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	text, _, err := pdfcore.Open("doc.pdf").PageRange(5, 10).Text()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithConfig sets the parsing configuration. A document that was
// already parsed from a file or bytes is parsed again with it.
//
// Example:
//
//	cfg := reader.DefaultConfig()
//	cfg.ParsingMode = reader.Strict
//	text, _, err := pdfcore.Open("doc.pdf").WithConfig(cfg).Text()
func (e *Extractor) WithConfig(cfg reader.Config) *Extractor {
	newExt := e.clone()
	newExt.options.config = cfg
	if newExt.filename != "" || newExt.hasData {
		newExt.doc = nil
		newExt.sink = nil
		newExt.parseWarnings = nil
	}
	return newExt
}

// WithLogger forwards every message logged while parsing and extracting
// to fn, in addition to collecting warnings.
func (e *Extractor) WithLogger(fn logger.LogFunc) *Extractor {
	cfg := e.options.config
	cfg.Logger = fn
	return e.WithConfig(cfg)
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Text extracts and returns the text content from the configured pages.
// Pages are joined with a blank line; pages without text are left out.
//
// Returns the extracted text, any warnings encountered during processing,
// and an error if extraction failed. Warnings indicate non-fatal issues
// (a skipped object or content stream, a page that could not be read)
// where extraction succeeded but results may be incomplete.
//
// Example:
//
//	text, warnings, err := pdfcore.Open("document.pdf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfcore.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	if e.err != nil {
		return "", nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return "", nil, err
	}

	pageIndices, err := e.resolvePages()
	if err != nil {
		return "", nil, err
	}

	var result strings.Builder
	var failed []Warning
	for _, pageNum := range pageIndices {
		pageText, err := e.doc.ExtractText(pageNum)
		if err != nil {
			failed = append(failed, Warning{Page: pageNum + 1, Message: "page extraction failed", Details: err.Error()})
			continue
		}
		if result.Len() > 0 && len(pageText) > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(pageText)
	}

	return result.String(), e.warnings(failed...), nil
}

// Items returns the normalized text items of the configured pages.
//
// Example:
//
//	pages, _, err := pdfcore.Open("document.pdf").Items()
//	for _, p := range pages {
//	    for _, item := range p.Items {
//	        fmt.Printf("page %d (%.0f, %.0f) %s\n", p.Page, item.X, item.Y, item.Text)
//	    }
//	}
func (e *Extractor) Items() ([]PageItems, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}

	pageIndices, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	result := make([]PageItems, 0, len(pageIndices))
	var failed []Warning
	for _, pageNum := range pageIndices {
		items, err := e.doc.ExtractTextItems(pageNum)
		if err != nil {
			failed = append(failed, Warning{Page: pageNum + 1, Message: "page extraction failed", Details: err.Error()})
		}
		result = append(result, PageItems{Page: pageNum + 1, Items: items})
	}

	return result, e.warnings(failed...), nil
}

// PageCount returns the number of pages declared by the page tree.
//
// Example:
//
//	count, err := pdfcore.Open("document.pdf").PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return 0, err
	}
	return e.doc.PageCount(), nil
}

// Metadata returns the decoded string entries of the info dictionary.
func (e *Extractor) Metadata() (map[string]string, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, err
	}
	return e.doc.Metadata()
}

// Document returns the parsed document for lower-level access.
func (e *Extractor) Document() (*reader.Document, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, err
	}
	return e.doc, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages converts 1-indexed page numbers to 0-indexed and validates them.
// If no pages specified, returns all pages.
func (e *Extractor) resolvePages() ([]int, error) {
	list, err := e.doc.Pages()
	if len(list) == 0 && err != nil {
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}
	pageCount := len(list)

	// If no pages specified, use all pages
	if len(e.options.pages) == 0 {
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	// Convert 1-indexed to 0-indexed and validate
	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	// Sort pages in order
	sort.Ints(pageIndices)
	return pageIndices, nil
}
