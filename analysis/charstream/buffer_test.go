package charstream

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// drain decodes the whole stream through repeated fills of the given batch
// size, returning the code points and the summed byte widths. It takes
// rapid.TB so both plain tests and rapid property bodies can use it.
func drain(t rapid.TB, b *Buffer, r io.Reader, batch int) ([]rune, int) {
	t.Helper()
	var cps []rune
	total := 0
	for {
		more, err := b.Fill(r, batch)
		require.NoError(t, err)
		cps = append(cps, b.CodePoints()...)
		for _, w := range b.Widths() {
			total += w
		}
		if !more {
			return cps, total
		}
	}
}

func TestFillASCII(t *testing.T) {
	b := NewBuffer(4)
	more, err := b.Fill(strings.NewReader("abcdef"), 4)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, []rune("abcd"), b.CodePoints())
	assert.Equal(t, []int{1, 1, 1, 1}, b.Widths())
}

func TestFillReportsEndOfStream(t *testing.T) {
	b := NewBuffer(8)
	more, err := b.Fill(strings.NewReader("abc"), 8)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, []rune("abc"), b.CodePoints())

	more, err = b.Fill(strings.NewReader(""), 8)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 0, b.Len())
}

func TestFillGrowsOnDemand(t *testing.T) {
	b := NewBuffer(2)
	more, err := b.Fill(strings.NewReader("abcdefgh"), 6)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, []rune("abcdef"), b.CodePoints())
}

func TestFillNeverSplitsMultiByteSequences(t *testing.T) {
	const s = "日本語テキスト😀と分析"
	for batch := 1; batch <= 6; batch++ {
		b := NewBuffer(batch)
		cps, width := drain(t, b, iotest.OneByteReader(strings.NewReader(s)), batch)
		assert.Equal(t, []rune(s), cps, "batch %d", batch)
		assert.Equal(t, len(s), width, "batch %d", batch)
	}
}

func TestFillInvalidBytesKeepTrueWidths(t *testing.T) {
	// Lone continuation byte and a truncated 3-byte sequence at EOF both
	// decode to U+FFFD, one code point per byte, widths preserved.
	input := []byte{'a', 0x80, 'b', 0xE4, 0xB8}
	b := NewBuffer(16)
	cps, width := drain(t, b, strings.NewReader(string(input)), 16)
	assert.Equal(t, []rune{'a', utf8.RuneError, 'b', utf8.RuneError, utf8.RuneError}, cps)
	assert.Equal(t, len(input), width)
}

func TestFillReaderError(t *testing.T) {
	b := NewBuffer(8)
	_, err := b.Fill(iotest.ErrReader(io.ErrClosedPipe), 8)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestTruncatedSequenceAtEOF(t *testing.T) {
	// A stream ending on the leading bytes of a multi-byte sequence
	// cannot be completed: the bytes decode to U+FFFD, width preserved.
	b := NewBuffer(8)
	cps, width := drain(t, b, strings.NewReader("ab\xE8\xAF"), 8)
	assert.Equal(t, []rune{'a', 'b', utf8.RuneError, utf8.RuneError}, cps)
	assert.Equal(t, 4, width)
}

func TestResetDropsContents(t *testing.T) {
	b := NewBuffer(4)
	_, err := b.Fill(strings.NewReader("abc"), 4)
	require.NoError(t, err)
	require.Equal(t, 3, b.Len())

	b.Reset()
	assert.Equal(t, 0, b.Len())

	more, err := b.Fill(strings.NewReader("cd"), 4)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, []rune("cd"), b.CodePoints())
}

// Widths must always sum to the exact byte count consumed, for any input
// and any batch size.
func TestProperty_WidthsReproduceByteLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "input")
		batch := rapid.IntRange(1, 64).Draw(rt, "batch")
		b := NewBuffer(batch)
		cps, width := drain(rt, b, iotest.OneByteReader(strings.NewReader(s)), batch)
		require.Equal(rt, []rune(s), cps)
		require.Equal(rt, len(s), width)
	})
}
