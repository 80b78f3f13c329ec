// Package pdftest builds small PDF files in memory for tests. Offsets
// in the cross-reference sections are computed from what was actually
// written, so hand-made files stay consistent when their content
// changes.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/pdfcore/internal/filters"
)

// Member is one object stored inside an object stream
type Member struct {
	Number int
	Body   string
}

type compressedEntry struct {
	stream int
	index  int
}

// Builder accumulates objects and cross-reference sections. Each
// section covers the objects written since the previous one and links
// to it through /Prev.
type Builder struct {
	buf        bytes.Buffer
	offsets    map[int]int
	compressed map[int]compressedEntry
	pending    map[int]bool
	maxNum     int
	sections   int
	lastXRef   int
}

// New starts a file with a %PDF- header for version
func New(version string) *Builder {
	b := &Builder{
		offsets:    make(map[int]int),
		compressed: make(map[int]compressedEntry),
		pending:    make(map[int]bool),
	}
	fmt.Fprintf(&b.buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)
	return b
}

// Raw appends bytes verbatim
func (b *Builder) Raw(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

// Mark records the current position as the offset of object num
// without writing anything.
func (b *Builder) Mark(num int) *Builder {
	b.offsets[num] = b.buf.Len()
	delete(b.compressed, num)
	b.touch(num)
	return b
}

// Object writes "num 0 obj body endobj"
func (b *Builder) Object(num int, body string) *Builder {
	b.Mark(num)
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return b
}

// Stream writes a stream object. dict holds the dictionary entries
// without delimiters; /Length is added.
func (b *Builder) Stream(num int, dict string, data []byte) *Builder {
	b.Mark(num)
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
	return b
}

// FlateStream writes a stream compressed with FlateDecode
func (b *Builder) FlateStream(num int, dict string, data []byte) *Builder {
	encoded, err := filters.FlateEncode(data)
	if err != nil {
		panic(err)
	}
	return b.Stream(num, dict+" /Filter /FlateDecode", encoded)
}

// Compressed records that object num lives at index in object stream
func (b *Builder) Compressed(num, stream, index int) *Builder {
	delete(b.offsets, num)
	b.compressed[num] = compressedEntry{stream: stream, index: index}
	b.touch(num)
	return b
}

// ObjectStream writes an uncompressed /Type /ObjStm stream holding
// members in order and records their compressed entries.
func (b *Builder) ObjectStream(num int, members []Member) *Builder {
	var header, body strings.Builder
	for _, m := range members {
		fmt.Fprintf(&header, "%d %d ", m.Number, body.Len())
		body.WriteString(m.Body)
		body.WriteString("\n")
	}
	first := header.Len()
	dict := fmt.Sprintf("/Type /ObjStm /N %d /First %d", len(members), first)
	b.Stream(num, dict, []byte(header.String()+body.String()))
	for i, m := range members {
		b.Compressed(m.Number, num, i)
	}
	return b
}

// XRef writes a classic xref table for the pending objects, then the
// trailer and the startxref footer. trailer holds dictionary entries
// without delimiters; /Size and /Prev are added.
func (b *Builder) XRef(trailer string) *Builder {
	offset := b.buf.Len()
	b.buf.WriteString("xref\n")
	for _, run := range runs(b.sectionNumbers()) {
		fmt.Fprintf(&b.buf, "%d %d\n", run[0], len(run))
		for _, num := range run {
			switch off, ok := b.offsets[num]; {
			case num == 0:
				b.buf.WriteString("0000000000 65535 f\r\n")
			case ok:
				fmt.Fprintf(&b.buf, "%010d 00000 n\r\n", off)
			default:
				b.buf.WriteString("0000000000 00001 f\r\n")
			}
		}
	}
	fmt.Fprintf(&b.buf, "trailer\n<< %s%s >>\n", trailer, b.trailerExtras())
	return b.finish(offset)
}

// XRefStreamObject writes an xref stream as object num covering the
// pending objects and returns its offset. It does not end the section,
// so a classic table can follow and point at it with /XRefStm.
func (b *Builder) XRefStreamObject(num int, trailer string) int {
	offset := b.buf.Len()
	b.offsets[num] = offset
	b.touch(num)

	var data bytes.Buffer
	var index []string
	for _, run := range runs(b.sectionNumbers()) {
		index = append(index, fmt.Sprintf("%d %d", run[0], len(run)))
		for _, n := range run {
			if off, ok := b.offsets[n]; ok && n != 0 {
				data.Write([]byte{1, byte(off >> 24), byte(off >> 16), byte(off >> 8), byte(off), 0, 0})
			} else if c, ok := b.compressed[n]; ok {
				data.Write([]byte{2, byte(c.stream >> 24), byte(c.stream >> 16), byte(c.stream >> 8), byte(c.stream), byte(c.index >> 8), byte(c.index)})
			} else {
				data.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
			}
		}
	}

	encoded, err := filters.FlateEncode(data.Bytes())
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< /Type /XRef /W [1 4 2] /Index [%s] %s%s /Filter /FlateDecode /Length %d >>\nstream\n",
		num, strings.Join(index, " "), trailer, b.trailerExtras(), len(encoded))
	b.buf.Write(encoded)
	b.buf.WriteString("\nendstream\nendobj\n")
	return offset
}

// XRefStream writes an xref stream as object num and ends the section
func (b *Builder) XRefStream(num int, trailer string) *Builder {
	return b.finish(b.XRefStreamObject(num, trailer))
}

// Offset returns the recorded offset of object num
func (b *Builder) Offset(num int) int {
	return b.offsets[num]
}

// Len returns the number of bytes written so far
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Bytes returns a copy of the file
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

func (b *Builder) touch(num int) {
	b.pending[num] = true
	if num > b.maxNum {
		b.maxNum = num
	}
}

func (b *Builder) trailerExtras() string {
	s := fmt.Sprintf(" /Size %d", b.maxNum+1)
	if b.sections > 0 {
		s += fmt.Sprintf(" /Prev %d", b.lastXRef)
	}
	return s
}

func (b *Builder) finish(offset int) *Builder {
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", offset)
	b.lastXRef = offset
	b.sections++
	b.pending = make(map[int]bool)
	return b
}

// sectionNumbers lists the object numbers the next section covers: the
// full range for the first section, the pending objects afterwards.
func (b *Builder) sectionNumbers() []int {
	var nums []int
	if b.sections == 0 {
		for n := 0; n <= b.maxNum; n++ {
			nums = append(nums, n)
		}
		return nums
	}
	for n := range b.pending {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// runs splits sorted numbers into consecutive subsections
func runs(nums []int) [][]int {
	var out [][]int
	for _, n := range nums {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last[len(last)-1] == n-1 {
				out[len(out)-1] = append(last, n)
				continue
			}
		}
		out = append(out, []int{n})
	}
	return out
}
