package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pdfcore/contentstream"
	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/font"
	"github.com/tsawler/pdfcore/pages"
	"github.com/tsawler/pdfcore/text"
)

// PageError records why one page produced no text
type PageError struct {
	Page int // 1-based
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// loadPages flattens the page tree once per Document
func (d *Document) loadPages() ([]*pages.Page, error) {
	d.pagesOnce.Do(func() {
		catalog, err := d.Catalog()
		if err != nil {
			d.pagesErr = err
			return
		}
		root, err := pages.NewCatalog(catalog, d).Pages()
		if err != nil {
			d.pagesErr = err
			return
		}
		tree := pages.NewPageTree(root, d, pages.WithMaxDepth(d.config.MaxDepth))
		d.pageList, d.pagesErr = tree.Pages()
		if d.pagesErr != nil {
			d.log.Warn("page tree has unreadable nodes", "error", d.pagesErr)
		}
	})
	return d.pageList, d.pagesErr
}

// PageCount returns the /Count of the page tree root, or the number of
// pages found when /Count is missing. A document without a usable
// catalog or page tree has zero pages.
func (d *Document) PageCount() int {
	catalog, err := d.Catalog()
	if err != nil {
		return 0
	}
	root, err := pages.NewCatalog(catalog, d).Pages()
	if err != nil {
		return 0
	}
	if count, ok := root.GetInt("Count"); ok && count >= 0 {
		return int(count)
	}
	list, _ := d.loadPages()
	return len(list)
}

// Pages returns the pages in document order. Pages that could be read
// are returned even when part of the tree is broken.
func (d *Document) Pages() ([]*pages.Page, error) {
	return d.loadPages()
}

// Page returns the page at index (0-based)
func (d *Document) Page(index int) (*pages.Page, error) {
	list, err := d.loadPages()
	if index < 0 || index >= len(list) {
		if err != nil {
			return nil, fmt.Errorf("page index %d out of range [0, %d): %w", index, len(list), err)
		}
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(list))
	}
	return list[index], nil
}

// FontMap returns the fonts of a page's resources keyed by resource name
func (d *Document) FontMap(pageIndex int) (map[string]*font.FontInfo, error) {
	page, err := d.Page(pageIndex)
	if err != nil {
		return nil, err
	}
	return d.fontMap(page)
}

func (d *Document) fontMap(page *pages.Page) (map[string]*font.FontInfo, error) {
	resources, err := page.Resources()
	if err != nil {
		return nil, err
	}
	return font.BuildFontMap(resources, d)
}

// ExtractTextItems returns the page's text items with the Y axis
// pointing down and sorted in reading order.
func (d *Document) ExtractTextItems(pageIndex int) ([]text.TextItem, error) {
	page, err := d.Page(pageIndex)
	if err != nil {
		return nil, err
	}

	streams, err := page.Contents()
	if err != nil {
		d.log.Warn("page contents partly unreadable", "page", pageIndex+1, "error", err)
	}
	var parts [][]byte
	for i, stream := range streams {
		data, err := d.DecodeStream(stream)
		if err != nil {
			d.log.Warn("skipping content stream", "page", pageIndex+1, "stream", i, "error", err)
			continue
		}
		parts = append(parts, data)
	}
	content := bytes.Join(parts, []byte("\n"))

	fonts, err := d.fontMap(page)
	if err != nil {
		d.log.Warn("page fonts partly unreadable", "page", pageIndex+1, "error", err)
	}

	parser := contentstream.NewParser(content)
	parser.SetMaxNesting(d.config.MaxNesting)
	ops := parser.Parse()
	if n := parser.Skipped(); n > 0 {
		d.log.Debug("skipped malformed content", "page", pageIndex+1, "count", n)
	}

	extractor := text.NewExtractor(fonts)
	items := extractor.Extract(ops)
	if n := extractor.Ignored(); n > 0 {
		d.log.Debug("ignored operators with bad operands", "page", pageIndex+1, "count", n)
	}

	var pageHeight float64
	if box, err := page.MediaBox(); err == nil && box.IsValid() {
		pageHeight = box.Height
	}
	return text.NormalizeItems(items, pageHeight, d.config.Normalize), nil
}

// ExtractText returns the page's text assembled into lines
func (d *Document) ExtractText(pageIndex int) (string, error) {
	items, err := d.ExtractTextItems(pageIndex)
	if err != nil {
		return "", err
	}
	return text.AssembleText(items, d.config.Normalize.SameLineTolerance), nil
}

// ExtractAllText extracts every page concurrently, bounded by
// MaxConcurrentPages, and joins the results in page order under
// "--- Page N ---" headings. A page that fails leaves an empty section
// and is reported in the returned PageErrors. The error is non-nil when
// ctx is cancelled or the page tree yields no pages at all.
func (d *Document) ExtractAllText(ctx context.Context) (string, []*PageError, error) {
	list, err := d.loadPages()
	if err != nil && len(list) == 0 {
		return "", nil, err
	}

	texts := make([]string, len(list))
	errs := make([]error, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.MaxConcurrentPages)
	for i := range list {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			texts[i], errs[i] = d.ExtractText(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	var warnings []*PageError
	sections := make([]string, len(list))
	for i := range list {
		if errs[i] != nil {
			warnings = append(warnings, &PageError{Page: i + 1, Err: errs[i]})
		}
		sections[i] = fmt.Sprintf("--- Page %d ---\n%s", i+1, texts[i])
	}
	return strings.Join(sections, "\n\n"), warnings, nil
}

// IsStructural reports whether err aborts a whole parse rather than a
// single object or stream.
func IsStructural(err error) bool {
	return errors.Is(err, core.ErrMalformedHeader) ||
		errors.Is(err, core.ErrMissingTrailer) ||
		errors.Is(err, core.ErrMissingXRef) ||
		errors.Is(err, core.ErrEncrypted)
}
