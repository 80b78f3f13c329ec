package core

import (
	"errors"

	"github.com/tsawler/pdfcore/internal/filters"
)

// Structural errors abort a whole parse. ErrMalformedObject is local to
// one object and is normally recovered by the caller.
var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrMissingTrailer  = errors.New("missing trailer")
	ErrMissingXRef     = errors.New("missing cross-reference")
	ErrEncrypted       = errors.New("encrypted document")
	ErrMalformedObject = errors.New("malformed object")
)

// Decode errors, local to one stream. They alias the filter package's
// sentinels so callers outside this module can match them with errors.Is.
var (
	ErrUnsupportedFilter = filters.ErrUnsupportedFilter
	ErrInvalidLZWCode    = filters.ErrInvalidLZWCode
	ErrInvalidHexChar    = filters.ErrInvalidHexChar
	ErrInvalidParams     = filters.ErrInvalidParams
)
