package analysis

import "io"

// TokenStream is a pull-based producer of tokens over one attached input
// stream. Implementations are single-threaded: one pass at a time, no
// interleaving of Reset with Next.
type TokenStream interface {
	// Reset attaches a new input and reinitializes all pass state.
	// It must be called before the first Next and between passes.
	Reset(r io.Reader) error

	// Next returns the next token, or (nil, nil) at clean end of stream.
	// A non-nil error comes from the underlying reader; the stream is
	// unusable afterwards until Reset.
	Next() (*Token, error)

	// End returns the zero-width final offset marker for the pass: both
	// offsets equal the corrected true end-of-stream offset. Valid only
	// after Next has returned (nil, nil).
	End() Token
}

// Sink receives tokenizer output, one token at a time, followed by exactly
// one End call carrying the final offset marker.
type Sink interface {
	Token(t *Token) error
	End(final Token) error
}

// Drain pumps ts into sink until end of stream. It is the push adapter over
// the pull machine: reader errors and sink errors abort the drain and are
// returned unchanged.
func Drain(ts TokenStream, sink Sink) error {
	for {
		t, err := ts.Next()
		if err != nil {
			return err
		}
		if t == nil {
			return sink.End(ts.End())
		}
		if err := sink.Token(t); err != nil {
			return err
		}
	}
}

// Collect gathers all tokens of one pass into a slice. Intended for tests
// and small inputs; large streams should use Drain.
func Collect(ts TokenStream) ([]Token, error) {
	var out []Token
	for {
		t, err := ts.Next()
		if err != nil {
			return out, err
		}
		if t == nil {
			return out, nil
		}
		out = append(out, *t)
	}
}
