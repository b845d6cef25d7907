package ngram

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/BaSui01/gramflow/analysis"
	"github.com/BaSui01/gramflow/analysis/charstream"
)

// Default gram bounds used by DefaultConfig.
const (
	DefaultMinGram = 1
	DefaultMaxGram = 2
)

// bufferIncrement is the growth step of the window buffer, in code points.
const bufferIncrement = 1024

// ErrNoInput is returned by Next when no stream has been attached via Reset.
var ErrNoInput = errors.New("ngram: no input attached, call Reset first")

// Config configures a Tokenizer.
type Config struct {
	// MinGram is the smallest gram size to emit, >= 1.
	MinGram int
	// MaxGram is the largest gram size to emit, >= MinGram.
	MaxGram int
	// KeepShortTerm emits a run shorter than MinGram as a single token
	// instead of dropping it.
	KeepShortTerm bool
	// KeepLongTerm additionally emits one token spanning the full length
	// of a run longer than MaxGram. Materializing that token is the one
	// path on which memory use is unbounded.
	KeepLongTerm bool
	// IsTokenChar classifies code points; grams never contain a code
	// point rejected by it. Nil means every code point is a token char
	// and the whole stream is one run.
	IsTokenChar func(r rune) bool
	// CorrectOffset translates internal byte offsets to external ones.
	// Nil means identity.
	CorrectOffset analysis.OffsetCorrector
	// Logger receives debug output for buffer management. Nil means no
	// logging.
	Logger *zap.Logger

	// edgesOnly restricts output to grams anchored at run edges. Set via
	// NewEdge.
	edgesOnly bool
}

// DefaultConfig returns a Config with the default gram bounds and all
// optional behaviors off.
func DefaultConfig() Config {
	return Config{MinGram: DefaultMinGram, MaxGram: DefaultMaxGram}
}

// Tokenizer is a sliding-window n-gram tokenizer over one input stream at a
// time. It implements analysis.TokenStream. Not safe for concurrent use: a
// pass owns all cursor state exclusively, and Reset must not interleave
// with Next.
type Tokenizer struct {
	minGram       int
	maxGram       int
	keepShortTerm bool
	keepLongTerm  bool
	edgesOnly     bool
	isTokenChar   func(r rune) bool
	correct       analysis.OffsetCorrector
	logger        *zap.Logger

	input   io.Reader
	charBuf *charstream.Buffer

	// Window buffer. [0,bufferStart) is retired, [bufferStart,bufferEnd)
	// is live, [bufferEnd,len) is free for refill. widths holds the byte
	// width of each code point in buf.
	buf    []rune
	widths []int

	bufferStart       int
	bufferEnd         int
	offset            int
	gramSize          int
	exhausted         bool
	bufferStartIsEdge bool

	// Classifier scan frontier: the rightmost buffer index checked so
	// far, and the rightmost index known to hold a non-token char.
	lastCheckedChar  int
	lastNonTokenChar int
}

// New creates a Tokenizer. Invalid gram bounds fail fast.
func New(cfg Config) (*Tokenizer, error) {
	if cfg.MinGram < 1 {
		return nil, fmt.Errorf("ngram: MinGram must be greater than zero, got %d", cfg.MinGram)
	}
	if cfg.MinGram > cfg.MaxGram {
		return nil, fmt.Errorf("ngram: MinGram must not be greater than MaxGram, got %d > %d", cfg.MinGram, cfg.MaxGram)
	}
	isTokenChar := cfg.IsTokenChar
	if isTokenChar == nil {
		isTokenChar = func(rune) bool { return true }
	}
	correct := cfg.CorrectOffset
	if correct == nil {
		correct = analysis.IdentityOffsets
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.MaxGram + bufferIncrement
	t := &Tokenizer{
		minGram:       cfg.MinGram,
		maxGram:       cfg.MaxGram,
		keepShortTerm: cfg.KeepShortTerm,
		keepLongTerm:  cfg.KeepLongTerm,
		edgesOnly:     cfg.edgesOnly,
		isTokenChar:   isTokenChar,
		correct:       correct,
		logger:        logger,
		charBuf:       charstream.NewBuffer(size),
		buf:           make([]rune, size),
		widths:        make([]int, size),
	}
	t.initState()
	return t, nil
}

// Reset attaches a new input stream and reinitializes all pass state.
func (t *Tokenizer) Reset(r io.Reader) error {
	t.input = r
	t.charBuf.Reset()
	t.initState()
	return nil
}

func (t *Tokenizer) initState() {
	t.bufferStart = len(t.buf)
	t.bufferEnd = len(t.buf)
	t.lastCheckedChar = t.bufferStart - 1
	t.lastNonTokenChar = t.bufferStart - 1
	t.offset = 0
	t.gramSize = t.minGram
	t.exhausted = false
	t.bufferStartIsEdge = true
}

// Next returns the next token, or (nil, nil) at end of stream. Termination
// of the loop is guaranteed: every iteration either advances the window by
// one code point or increases gramSize, both strictly bounded.
func (t *Tokenizer) Next() (*analysis.Token, error) {
	if t.input == nil {
		return nil, ErrNoInput
	}
	for {
		// Keep maxGram plus one lookahead code point live.
		if t.bufferStart+t.maxGram+1 >= t.bufferEnd && !t.exhausted {
			if err := t.refill(); err != nil {
				return nil, err
			}
		}

		if t.gramSize > t.maxGram || t.bufferStart+t.gramSize > t.bufferEnd {
			if t.bufferStart+1+t.minGram > t.bufferEnd {
				// Stream end: fewer than minGram+1 live code points.
				if !t.exhausted {
					panic("ngram: window below minimum with input remaining")
				}
				if t.keepShortTerm && t.bufferEnd > t.bufferStart {
					if t.bufferStartIsEdge {
						termLen := t.findFirstNonTokenChar(t.bufferStart, t.bufferEnd) - t.bufferStart
						if termLen > 0 && termLen < t.minGram {
							tok := t.emit(termLen)
							t.consume()
							return tok, nil
						}
					}
					t.consume()
					continue
				}
				return nil, nil
			}
			if t.keepLongTerm && t.gramSize > t.maxGram && t.bufferStartIsEdge {
				// The run exceeds maxGram iff the lookahead code
				// point is live and a token char. When it is not
				// live the stream is exhausted and the run ends
				// within maxGram, so no elongated term exists.
				if t.bufferStart+t.maxGram < t.bufferEnd && t.isTokenChar(t.buf[t.bufferStart+t.maxGram]) {
					tok, err := t.longTerm()
					if err != nil {
						return nil, err
					}
					t.consume()
					t.gramSize = t.minGram
					return tok, nil
				}
			}
			t.consume()
			t.gramSize = t.minGram
		}

		t.updateLastNonTokenChar()

		// Retry if the candidate gram would contain a non-token char,
		// or is not anchored at a run edge in edges-only mode.
		containsNonTokenChar := t.lastNonTokenChar >= t.bufferStart && t.lastNonTokenChar < t.bufferStart+t.gramSize
		if containsNonTokenChar || (t.edgesOnly && !t.bufferStartIsEdge) {
			if t.keepShortTerm && t.bufferStartIsEdge && t.lastNonTokenChar > t.bufferStart {
				termLen := t.findFirstNonTokenChar(t.bufferStart, t.bufferStart+t.gramSize) - t.bufferStart
				if termLen > 0 {
					tok := t.emit(termLen)
					t.consume()
					t.gramSize = t.minGram
					return tok, nil
				}
			}
			t.consume()
			t.gramSize = t.minGram
			continue
		}

		tok := t.emit(t.gramSize)
		t.gramSize++
		return tok, nil
	}
}

// End returns the zero-width final offset marker: the true end-of-stream
// byte offset, passed through the offset corrector.
func (t *Tokenizer) End() analysis.Token {
	end := t.offset
	for i := t.bufferStart; i < t.bufferEnd; i++ {
		end += t.widths[i]
	}
	end = t.correct(end)
	return analysis.Token{StartOffset: end, EndOffset: end}
}

// refill compacts the window buffer, shifting the live region to index 0
// and rebasing every cursor field by the same shift, then pulls one fill
// batch from the reader into the freed space.
func (t *Tokenizer) refill() error {
	copy(t.buf, t.buf[t.bufferStart:t.bufferEnd])
	copy(t.widths, t.widths[t.bufferStart:t.bufferEnd])
	t.bufferEnd -= t.bufferStart
	t.lastCheckedChar -= t.bufferStart
	t.lastNonTokenChar -= t.bufferStart
	t.bufferStart = 0

	free := len(t.buf) - t.bufferEnd
	if free == 0 {
		return nil
	}
	more, err := t.charBuf.Fill(t.input, free)
	if err != nil {
		return err
	}
	t.exhausted = !more
	n := copy(t.buf[t.bufferEnd:], t.charBuf.CodePoints())
	copy(t.widths[t.bufferEnd:], t.charBuf.Widths())
	t.bufferEnd += n
	return nil
}

// grow extends the window buffer capacity by one increment, preserving the
// live region in place. Used only by the keep-long-term search.
func (t *Tokenizer) grow() {
	buf := make([]rune, len(t.buf)+bufferIncrement)
	copy(buf[t.bufferStart:], t.buf[t.bufferStart:t.bufferEnd])
	widths := make([]int, len(buf))
	copy(widths[t.bufferStart:], t.widths[t.bufferStart:t.bufferEnd])
	t.buf = buf
	t.widths = widths
	t.logger.Debug("ngram window buffer grown",
		zap.Int("capacity", len(buf)),
		zap.Int("live", t.bufferEnd-t.bufferStart))
}

// consume retires one code point: bufferStart advances by one, the external
// offset advances by the code point's byte width, and the edge flag is
// recomputed from the code point just consumed.
func (t *Tokenizer) consume() {
	cp := t.buf[t.bufferStart]
	t.offset += t.widths[t.bufferStart]
	t.bufferStart++
	t.bufferStartIsEdge = !t.isTokenChar(cp)
}

// emit builds a token of n code points starting at bufferStart. The end
// offset is the start offset plus the byte width of the gram.
func (t *Tokenizer) emit(n int) *analysis.Token {
	width := 0
	for i := t.bufferStart; i < t.bufferStart+n; i++ {
		width += t.widths[i]
	}
	return &analysis.Token{
		Term:              string(t.buf[t.bufferStart : t.bufferStart+n]),
		PositionIncrement: 1,
		PositionLength:    1,
		StartOffset:       t.correct(t.offset),
		EndOffset:         t.correct(t.offset + width),
	}
}

// longTerm emits one elongated token spanning the whole token-char run
// starting at bufferStart, growing the buffer as needed to find the run's
// end.
func (t *Tokenizer) longTerm() (*analysis.Token, error) {
	searchStart := t.bufferStart
	var delimiter int
	for {
		delimiter = t.findFirstNonTokenChar(searchStart, t.bufferEnd)
		if delimiter == t.bufferEnd && !t.exhausted {
			t.grow()
			// refill compacts, shifting indices by bufferStart;
			// resume the scan at the first unscanned position.
			searchStart = t.bufferEnd - t.bufferStart
			if err := t.refill(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return t.emit(delimiter - t.bufferStart), nil
}

// updateLastNonTokenChar extends the memoized classifier scan to the last
// code point of the current candidate gram, reusing prior results so the
// whole pass classifies each code point once.
func (t *Tokenizer) updateLastNonTokenChar() {
	termEnd := t.bufferStart + t.gramSize - 1
	if termEnd > t.lastCheckedChar {
		for i := termEnd; i > t.lastCheckedChar; i-- {
			if !t.isTokenChar(t.buf[i]) {
				t.lastNonTokenChar = i
				break
			}
		}
		t.lastCheckedChar = termEnd
	}
}

// findFirstNonTokenChar scans [start, end) for the first non-token char,
// returning end if there is none.
func (t *Tokenizer) findFirstNonTokenChar(start, end int) int {
	for i := start; i < end; i++ {
		if !t.isTokenChar(t.buf[i]) {
			return i
		}
	}
	return end
}
