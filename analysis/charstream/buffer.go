// Package charstream decodes a byte stream into Unicode code points in
// refillable batches. A multi-byte UTF-8 sequence is never split across two
// fills: an incomplete trailing sequence is held back and completed by the
// next fill. Each decoded code point keeps its byte width in the original
// stream so callers can maintain exact byte offsets.
package charstream

import (
	"io"
	"unicode/utf8"
)

// Buffer holds the code points decoded by the most recent Fill.
type Buffer struct {
	cps    []rune
	widths []int
	n      int

	raw  []byte
	nraw int
}

// NewBuffer returns a Buffer that can decode up to capacity code points per
// fill. Fill grows the buffer on demand when asked for more.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		cps:    make([]rune, capacity),
		widths: make([]int, capacity),
		raw:    make([]byte, capacity+utf8.UTFMax),
	}
}

// Reset drops buffered contents and any held-back partial sequence. Call it
// when attaching a new stream.
func (b *Buffer) Reset() {
	b.n = 0
	b.nraw = 0
}

// Len returns the number of code points decoded by the last Fill.
func (b *Buffer) Len() int { return b.n }

// CodePoints returns the code points decoded by the last Fill. The slice is
// valid until the next Fill or Reset.
func (b *Buffer) CodePoints() []rune { return b.cps[:b.n] }

// Widths returns the byte width of each code point in CodePoints. Invalid
// input bytes decode to U+FFFD but keep their true width, so summing widths
// always reproduces the byte length consumed from the stream.
func (b *Buffer) Widths() []int { return b.widths[:b.n] }

// Fill decodes up to max code points from r, replacing the buffer contents.
// It reads until the buffer is full or the stream ends. The returned bool is
// false only at permanent end of stream, i.e. when no further fill can yield
// code points.
func (b *Buffer) Fill(r io.Reader, max int) (more bool, err error) {
	b.ensure(max)
	b.n = 0
	eof := false
	for b.n < max {
		if !eof {
			want := max - b.n
			if free := len(b.raw) - b.nraw; want > free {
				want = free
			}
			nr, rerr := r.Read(b.raw[b.nraw : b.nraw+want])
			b.nraw += nr
			if rerr == io.EOF {
				eof = true
			} else if rerr != nil {
				return true, rerr
			} else if nr == 0 {
				continue
			}
		}
		i := 0
		for i < b.nraw && b.n < max {
			if !utf8.FullRune(b.raw[i:b.nraw]) && !eof {
				// Incomplete trailing sequence: hold back for the
				// next read. At EOF it decodes below as U+FFFD,
				// one code point per byte.
				break
			}
			cp, size := utf8.DecodeRune(b.raw[i:b.nraw])
			b.cps[b.n] = cp
			b.widths[b.n] = size
			b.n++
			i += size
		}
		copy(b.raw, b.raw[i:b.nraw])
		b.nraw -= i
		if eof && (b.nraw == 0 || b.n == max) {
			break
		}
	}
	return !eof || b.nraw > 0, nil
}

func (b *Buffer) ensure(capacity int) {
	if capacity <= len(b.cps) {
		return
	}
	cps := make([]rune, capacity)
	copy(cps, b.cps)
	b.cps = cps
	widths := make([]int, capacity)
	copy(widths, b.widths)
	b.widths = widths
	raw := make([]byte, capacity+utf8.UTFMax)
	copy(raw, b.raw[:b.nraw])
	b.raw = raw
}
