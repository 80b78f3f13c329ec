package filters

import (
	"errors"
	"fmt"
)

// Decode errors. Each one is fatal to the decode call that produced it
// and to nothing else.
var (
	ErrUnsupportedFilter = errors.New("unsupported filter")
	ErrInvalidLZWCode    = errors.New("invalid LZW code")
	ErrInvalidHexChar    = errors.New("invalid hex character")
	ErrInvalidParams     = errors.New("invalid decode parameters")
)

// Params represents decode parameters from PDF stream dictionaries.
// Common parameters include Predictor, Columns, Colors, and BitsPerComponent.
type Params map[string]interface{}

// Filter names as they appear in /Filter, including the abbreviations
// allowed in inline images.
const (
	FlateDecode     = "FlateDecode"
	LZWDecode       = "LZWDecode"
	ASCII85Decode   = "ASCII85Decode"
	ASCIIHexDecode  = "ASCIIHexDecode"
	RunLengthDecode = "RunLengthDecode"
	CCITTFaxDecode  = "CCITTFaxDecode"
	DCTDecode       = "DCTDecode"
	JPXDecode       = "JPXDecode"
	JBIG2Decode     = "JBIG2Decode"
)

var abbreviations = map[string]string{
	"Fl":  FlateDecode,
	"LZW": LZWDecode,
	"A85": ASCII85Decode,
	"AHx": ASCIIHexDecode,
	"RL":  RunLengthDecode,
	"CCF": CCITTFaxDecode,
	"DCT": DCTDecode,
}

// Canonical expands an abbreviated filter name
func Canonical(name string) string {
	if full, ok := abbreviations[name]; ok {
		return full
	}
	return name
}

// IsPassthrough reports whether a filter's payload is handed back
// undecoded. These are image codecs whose output is pixels, not bytes
// anything in this module consumes.
func IsPassthrough(name string) bool {
	switch Canonical(name) {
	case DCTDecode, JPXDecode, JBIG2Decode:
		return true
	}
	return false
}

// Decode applies filters to data left to right. params may be shorter
// than names or hold nil entries for filters without parameters.
func Decode(data []byte, names []string, params []Params) ([]byte, error) {
	out := data
	for i, name := range names {
		var p Params
		if i < len(params) {
			p = params[i]
		}

		var err error
		out, err = decodeOne(out, name, p)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return out, nil
}

func decodeOne(data []byte, name string, params Params) ([]byte, error) {
	if IsPassthrough(name) {
		return data, nil
	}
	switch Canonical(name) {
	case FlateDecode:
		return Flate(data, params)
	case LZWDecode:
		return LZW(data, params)
	case ASCII85Decode:
		return ASCII85(data)
	case ASCIIHexDecode:
		return ASCIIHex(data)
	case RunLengthDecode:
		return RunLength(data)
	case CCITTFaxDecode:
		return CCITTFax(data, params)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFilter)
	}
}

// getIntParam extracts an integer parameter from Params, returning defaultValue
// if the parameter is missing or cannot be converted to an integer.
func getIntParam(params Params, key string, defaultValue int) int {
	if params == nil {
		return defaultValue
	}

	obj, ok := params[key]
	if !ok {
		return defaultValue
	}

	switch v := obj.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
