package font

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/tsawler/pdfcore/core"
)

// CMap represents a ToUnicode character map that maps character codes
// to Unicode strings.
type CMap struct {
	// Single character mappings: charCode -> unicode string
	charMappings map[uint32]string

	// Incrementing ranges, kept unexpanded so a full 0000-FFFF range
	// costs one entry.
	rangeMappings []CMapRange
}

// CMapRange maps StartCode..EndCode to Dst, Dst with its last rune
// incremented by one per code.
type CMapRange struct {
	StartCode uint32
	EndCode   uint32
	Dst       []rune
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{charMappings: make(map[uint32]string)}
}

// ParseToUnicodeCMap decodes a ToUnicode stream and parses it
func ParseToUnicodeCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode ToUnicode stream: %w", err)
	}

	return ParseToUnicode(data), nil
}

// ParseToUnicode parses the bfchar and bfrange sections of CMap data.
// Entries it cannot read are skipped.
func ParseToUnicode(data []byte) *CMap {
	cm := NewCMap()
	for _, section := range sections(data, "beginbfchar", "endbfchar") {
		cm.parseBfChar(section)
	}
	for _, section := range sections(data, "beginbfrange", "endbfrange") {
		cm.parseBfRange(section)
	}
	return cm
}

// sections returns the bodies between each begin/end keyword pair
func sections(data []byte, begin, end string) [][]byte {
	var out [][]byte
	start := 0
	for {
		beginIdx := bytes.Index(data[start:], []byte(begin))
		if beginIdx == -1 {
			return out
		}
		beginIdx += start + len(begin)

		endIdx := bytes.Index(data[beginIdx:], []byte(end))
		if endIdx == -1 {
			return out
		}
		endIdx += beginIdx

		out = append(out, data[beginIdx:endIdx])
		start = endIdx + len(end)
	}
}

// hexTokens lexes a section into hex strings and array brackets. Other
// tokens are dropped.
func hexTokens(section []byte) []*core.Token {
	lex := core.NewLexer(section)
	var toks []*core.Token
	for {
		tok, err := lex.NextToken()
		if err != nil {
			continue
		}
		switch tok.Type {
		case core.TokenEOF:
			return toks
		case core.TokenHexString, core.TokenArrayStart, core.TokenArrayEnd:
			toks = append(toks, tok)
		}
	}
}

// parseBfChar reads "<src> <dst>" pairs
func (cm *CMap) parseBfChar(section []byte) {
	toks := hexTokens(section)
	for i := 0; i+1 < len(toks); i += 2 {
		src, dst := toks[i], toks[i+1]
		if src.Type != core.TokenHexString || dst.Type != core.TokenHexString {
			continue
		}
		code, ok := codeValue(src.Value)
		if !ok {
			continue
		}
		cm.charMappings[code] = destString(dst.Value)
	}
}

// parseBfRange reads "<lo> <hi> <dst>" and "<lo> <hi> [<d1> <d2> ...]"
func (cm *CMap) parseBfRange(section []byte) {
	toks := hexTokens(section)
	for i := 0; i+2 < len(toks); {
		lo, hi := toks[i], toks[i+1]
		if lo.Type != core.TokenHexString || hi.Type != core.TokenHexString {
			i++
			continue
		}
		start, ok1 := codeValue(lo.Value)
		end, ok2 := codeValue(hi.Value)

		switch toks[i+2].Type {
		case core.TokenHexString:
			if ok1 && ok2 && start <= end {
				cm.rangeMappings = append(cm.rangeMappings, CMapRange{
					StartCode: start,
					EndCode:   end,
					Dst:       []rune(destString(toks[i+2].Value)),
				})
			}
			i += 3

		case core.TokenArrayStart:
			j := i + 3
			code := start
			for ; j < len(toks) && toks[j].Type == core.TokenHexString; j++ {
				if ok1 && ok2 && code <= end {
					cm.charMappings[code] = destString(toks[j].Value)
				}
				code++
			}
			i = j + 1

		default:
			i += 3
		}
	}
}

// Lookup returns the Unicode string for a character code. Direct
// mappings win over ranges and later ranges win over earlier ones.
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.charMappings[code]; ok {
		return s, true
	}
	for i := len(cm.rangeMappings) - 1; i >= 0; i-- {
		r := cm.rangeMappings[i]
		if code < r.StartCode || code > r.EndCode || len(r.Dst) == 0 {
			continue
		}
		dst := make([]rune, len(r.Dst))
		copy(dst, r.Dst)
		dst[len(dst)-1] += rune(code - r.StartCode)
		if !utf8.ValidRune(dst[len(dst)-1]) {
			return "", false
		}
		return string(dst), true
	}
	return "", false
}

// Len returns the number of codes the map covers
func (cm *CMap) Len() int {
	if cm == nil {
		return 0
	}
	n := len(cm.charMappings)
	for _, r := range cm.rangeMappings {
		n += int(r.EndCode-r.StartCode) + 1
	}
	return n
}

// LookupString decodes character codes through the map. Even-length
// input is read as 2-byte codes; a 2-byte code without a mapping is
// retried as two 1-byte codes and bytes that still have no mapping are
// dropped. Odd-length input is read per byte, and a byte without a
// mapping passes through as its Latin-1 character.
func (cm *CMap) LookupString(data []byte) string {
	var sb []rune
	if len(data)%2 == 0 {
		for i := 0; i+1 < len(data); i += 2 {
			code := uint32(data[i])<<8 | uint32(data[i+1])
			if s, ok := cm.Lookup(code); ok {
				sb = append(sb, []rune(s)...)
				continue
			}
			for _, b := range data[i : i+2] {
				if s, ok := cm.Lookup(uint32(b)); ok {
					sb = append(sb, []rune(s)...)
				}
			}
		}
		return string(sb)
	}

	for _, b := range data {
		if s, ok := cm.Lookup(uint32(b)); ok {
			sb = append(sb, []rune(s)...)
			continue
		}
		sb = append(sb, rune(b))
	}
	return string(sb)
}

// codeValue reads a big-endian source code of at most 4 bytes
func codeValue(b []byte) (uint32, bool) {
	if len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v, true
}

// destString converts a destination hex string to text. Even-length
// destinations are UTF-16BE; anything else maps byte by byte.
func destString(b []byte) string {
	if len(b) >= 2 && len(b)%2 == 0 {
		if s, ok := DecodeUTF16BE(b); ok {
			return s
		}
	}
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
