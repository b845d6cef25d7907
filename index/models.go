package index

import "time"

// Document is one analyzed source stream.
type Document struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Source names the origin of the stream, e.g. a file path.
	Source string `gorm:"index" json:"source"`
	// TokenCount is the number of postings written for the document.
	TokenCount int `json:"token_count"`
	// AnalyzedBytes is the true end-of-stream offset reported by the
	// tokenizer's final offset marker.
	AnalyzedBytes int       `json:"analyzed_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Posting is one emitted token: the term plus its exact byte span in the
// original stream and its emission ordinal within the document.
type Posting struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID  string `gorm:"index;size:36" json:"document_id"`
	Term        string `gorm:"index" json:"term"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Ordinal     int    `json:"ordinal"`
}

// TermCount is an aggregation row for term frequency queries.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}
