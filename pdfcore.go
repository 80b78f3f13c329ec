// Package pdfcore provides a fluent API for reading text and objects
// from PDF files.
//
// Basic usage:
//
//	text, warnings, err := pdfcore.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfcore.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pdfcore.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    WithConfig(cfg).
//	    Text()
//
// File reading happens only here. The lower-level reader package parses
// bytes that are already in memory and is available for advanced use.
package pdfcore

import (
	"github.com/tsawler/pdfcore/reader"
)

// Open returns an Extractor that reads filename on its first terminal
// operation.
//
// Example:
//
//	text, warnings, err := pdfcore.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor over a PDF already held in memory.
// The slice must not be modified while the Extractor is in use.
//
// Example:
//
//	text, _, err := pdfcore.FromBytes(data).Pages(1).Text()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		hasData: true,
		options: defaultOptions(),
	}
}

// FromDocument wraps an already parsed document. Warnings logged while
// it was parsed are not collected.
func FromDocument(doc *reader.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pdfcore.Must(pdfcore.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or Items() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := pdfcore.MustText(pdfcore.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
