package analysis

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStream struct {
	tokens []Token
	pos    int
	err    error
	final  Token
}

func (s *stubStream) Reset(io.Reader) error { s.pos = 0; return nil }

func (s *stubStream) Next() (*Token, error) {
	if s.err != nil && s.pos == len(s.tokens) {
		return nil, s.err
	}
	if s.pos == len(s.tokens) {
		return nil, nil
	}
	t := s.tokens[s.pos]
	s.pos++
	return &t, nil
}

func (s *stubStream) End() Token { return s.final }

type recordingSink struct {
	tokens  []Token
	final   *Token
	tokenEr error
}

func (r *recordingSink) Token(t *Token) error {
	if r.tokenEr != nil {
		return r.tokenEr
	}
	r.tokens = append(r.tokens, *t)
	return nil
}

func (r *recordingSink) End(final Token) error {
	r.final = &final
	return nil
}

func TestDrain(t *testing.T) {
	ts := &stubStream{
		tokens: []Token{
			{Term: "ab", PositionIncrement: 1, PositionLength: 1, StartOffset: 0, EndOffset: 2},
			{Term: "bc", PositionIncrement: 1, PositionLength: 1, StartOffset: 1, EndOffset: 3},
		},
		final: Token{StartOffset: 3, EndOffset: 3},
	}
	sink := &recordingSink{}
	require.NoError(t, Drain(ts, sink))
	assert.Equal(t, ts.tokens, sink.tokens)
	require.NotNil(t, sink.final)
	assert.Equal(t, ts.final, *sink.final)
}

func TestDrainPropagatesStreamError(t *testing.T) {
	streamErr := errors.New("upstream failed")
	ts := &stubStream{tokens: []Token{{Term: "a"}}, err: streamErr}
	sink := &recordingSink{}
	assert.ErrorIs(t, Drain(ts, sink), streamErr)
	assert.Nil(t, sink.final, "End must not be called after a stream error")
}

func TestDrainPropagatesSinkError(t *testing.T) {
	sinkErr := errors.New("sink full")
	ts := &stubStream{tokens: []Token{{Term: "a"}}}
	assert.ErrorIs(t, Drain(ts, &recordingSink{tokenEr: sinkErr}), sinkErr)
}

func TestCollect(t *testing.T) {
	ts := &stubStream{tokens: []Token{{Term: "x"}, {Term: "y"}}}
	got, err := Collect(ts)
	require.NoError(t, err)
	assert.Equal(t, ts.tokens, got)
}

func TestIdentityOffsets(t *testing.T) {
	assert.Equal(t, 42, IdentityOffsets(42))
}
