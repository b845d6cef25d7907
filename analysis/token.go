package analysis

// Token is a single unit of tokenizer output. Offsets are byte offsets into
// the original stream, so slicing the input with [StartOffset:EndOffset]
// yields the exact bytes the term was built from (modulo offset correction).
type Token struct {
	// Term is the token text.
	Term string
	// PositionIncrement is the number of analysis positions this token
	// advances past the previous one. Overlapping grams use 1.
	PositionIncrement int
	// PositionLength is the number of analysis positions this token spans.
	PositionLength int
	// StartOffset is the corrected byte offset of the first byte of the term.
	StartOffset int
	// EndOffset is the corrected byte offset one past the last byte.
	EndOffset int
}

// OffsetCorrector translates an internal stream offset to an external one,
// e.g. to undo shifts introduced by an upstream character filter. The
// tokenizer applies it to every offset it reports and performs no other
// correction itself.
type OffsetCorrector func(offset int) int

// IdentityOffsets is the default OffsetCorrector.
func IdentityOffsets(offset int) int { return offset }
