package font

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/pdfcore/core"
)

// FontInfo is the part of a PDF font dictionary that text decoding needs
type FontInfo struct {
	Name     string // resource name, e.g. "F1"
	Subtype  string
	BaseFont string
	Encoding string

	// ToUnicode CMap for character code to Unicode mapping
	ToUnicode *CMap
}

// NewFontInfo reads a font dictionary. References are followed through
// resolver, which may be nil when dict is fully direct. A ToUnicode
// stream that cannot be decoded leaves ToUnicode nil and is reported as
// an error alongside the usable FontInfo.
func NewFontInfo(name string, dict core.Dict, resolver core.ReferenceResolver) (*FontInfo, error) {
	f := &FontInfo{Name: name}
	if dict == nil {
		return f, nil
	}

	if v, ok := resolve(dict.Get("Subtype"), resolver).(core.Name); ok {
		f.Subtype = string(v)
	}
	if v, ok := resolve(dict.Get("BaseFont"), resolver).(core.Name); ok {
		f.BaseFont = string(v)
	}

	switch enc := resolve(dict.Get("Encoding"), resolver).(type) {
	case core.Name:
		f.Encoding = string(enc)
	case core.Dict:
		// Differences are not applied; only the base encoding is used.
		if base, ok := enc.GetName("BaseEncoding"); ok {
			f.Encoding = string(base)
		}
	}

	stream, ok := resolve(dict.Get("ToUnicode"), resolver).(*core.Stream)
	if !ok {
		return f, nil
	}
	cmap, err := ParseToUnicodeCMap(stream)
	if err != nil {
		return f, fmt.Errorf("font %s: %w", name, err)
	}
	f.ToUnicode = cmap

	return f, nil
}

// HasToUnicode reports whether a non-empty ToUnicode map is attached
func (f *FontInfo) HasToUnicode() bool {
	return f != nil && f.ToUnicode.Len() > 0
}

// Decode converts the raw bytes of a string operand to text.
// Priority order:
// 1. ToUnicode CMap, when it has entries
// 2. UTF-16BE for even-length hex strings that decode cleanly
// 3. The font's single-byte encoding, Latin-1 by default
// The result is normalized to NFC.
func (f *FontInfo) Decode(raw []byte, isHex bool) string {
	if f.HasToUnicode() {
		return Normalize(f.ToUnicode.LookupString(raw))
	}

	if isHex && len(raw) >= 2 {
		if s, ok := DecodeUTF16BE(raw); ok {
			return Normalize(s)
		}
	}

	encoding := ""
	if f != nil {
		encoding = f.Encoding
	}
	return Normalize(DecodeSingleByte(raw, encoding))
}

// BuildFontMap reads every entry of a /Font resource dictionary. Fonts
// that fail to load partially are still returned; their errors are
// joined into the returned error.
func BuildFontMap(resources core.Dict, resolver core.ReferenceResolver) (map[string]*FontInfo, error) {
	fonts := make(map[string]*FontInfo)
	if resources == nil {
		return fonts, nil
	}
	fontDict, ok := resolve(resources.Get("Font"), resolver).(core.Dict)
	if !ok {
		return fonts, nil
	}

	names := fontDict.Keys()
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		dict, ok := resolve(fontDict.Get(name), resolver).(core.Dict)
		if !ok {
			errs = append(errs, fmt.Errorf("font %s is not a dictionary", name))
			continue
		}
		info, err := NewFontInfo(name, dict, resolver)
		if err != nil {
			errs = append(errs, err)
		}
		fonts[name] = info
	}

	return fonts, errors.Join(errs...)
}

// resolve follows a single reference. Unresolvable references become nil.
func resolve(obj core.Object, resolver core.ReferenceResolver) core.Object {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj
	}
	if resolver == nil {
		return nil
	}
	resolved, err := resolver.ResolveReference(ref)
	if err != nil {
		return nil
	}
	return resolved
}
