package index

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BaSui01/gramflow/analysis"
	"github.com/BaSui01/gramflow/internal/metrics"
)

// defaultBatchSize is the number of postings inserted per statement.
const defaultBatchSize = 500

// Writer indexes one document. It implements analysis.Sink: feed it through
// analysis.Drain, or call Token/End directly. All writes happen inside one
// transaction that commits on End and rolls back on any error.
type Writer struct {
	store     *Store
	collector *metrics.Collector
	logger    *zap.Logger

	doc       Document
	tx        *gorm.DB
	batch     []Posting
	batchSize int
	ordinal   int
	done      bool
}

// NewWriter starts a writer for one document originating from source.
// collector may be nil.
func (s *Store) NewWriter(source string, collector *metrics.Collector) *Writer {
	return &Writer{
		store:     s,
		collector: collector,
		logger:    s.logger,
		batchSize: defaultBatchSize,
		doc: Document{
			ID:     uuid.NewString(),
			Source: source,
		},
	}
}

// WithBatchSize overrides the postings-per-insert batch size. Values below
// one keep the default.
func (w *Writer) WithBatchSize(n int) *Writer {
	if n > 0 {
		w.batchSize = n
	}
	return w
}

// DocumentID returns the id the document will be stored under.
func (w *Writer) DocumentID() string { return w.doc.ID }

// Token buffers one posting, flushing a batch when full.
func (w *Writer) Token(t *analysis.Token) error {
	if w.done {
		return fmt.Errorf("index: writer for %s already finished", w.doc.ID)
	}
	if w.tx == nil {
		if err := w.begin(); err != nil {
			return err
		}
	}
	w.batch = append(w.batch, Posting{
		DocumentID:  w.doc.ID,
		Term:        t.Term,
		StartOffset: t.StartOffset,
		EndOffset:   t.EndOffset,
		Ordinal:     w.ordinal,
	})
	w.ordinal++
	if len(w.batch) >= w.batchSize {
		return w.flush()
	}
	return nil
}

// End records the final offset marker, flushes the remaining postings and
// commits the document.
func (w *Writer) End(final analysis.Token) error {
	if w.done {
		return fmt.Errorf("index: writer for %s already finished", w.doc.ID)
	}
	if w.tx == nil {
		if err := w.begin(); err != nil {
			return err
		}
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.doc.TokenCount = w.ordinal
	w.doc.AnalyzedBytes = final.EndOffset
	err := w.tx.Model(&Document{}).
		Where("id = ?", w.doc.ID).
		Updates(map[string]any{
			"token_count":    w.doc.TokenCount,
			"analyzed_bytes": w.doc.AnalyzedBytes,
		}).Error
	if err != nil {
		return w.fail(fmt.Errorf("finalize document %s: %w", w.doc.ID, err))
	}
	if err := w.tx.Commit().Error; err != nil {
		return w.fail(fmt.Errorf("commit document %s: %w", w.doc.ID, err))
	}
	w.done = true
	if w.collector != nil {
		w.collector.AddTokensIndexed(w.ordinal)
	}
	w.logger.Info("document indexed",
		zap.String("document_id", w.doc.ID),
		zap.String("source", w.doc.Source),
		zap.Int("tokens", w.doc.TokenCount),
		zap.Int("analyzed_bytes", w.doc.AnalyzedBytes))
	return nil
}

// Abort rolls back an unfinished document. Safe to call after End.
func (w *Writer) Abort() {
	if w.done || w.tx == nil {
		return
	}
	w.tx.Rollback()
	w.done = true
}

func (w *Writer) begin() error {
	tx := w.store.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin document %s: %w", w.doc.ID, tx.Error)
	}
	w.tx = tx
	if err := w.tx.Create(&w.doc).Error; err != nil {
		return w.fail(fmt.Errorf("create document %s: %w", w.doc.ID, err))
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	start := time.Now()
	if err := w.tx.Create(&w.batch).Error; err != nil {
		return w.fail(fmt.Errorf("insert %d postings for %s: %w", len(w.batch), w.doc.ID, err))
	}
	if w.collector != nil {
		w.collector.ObserveIndexBatch(time.Since(start), len(w.batch))
	}
	w.batch = w.batch[:0]
	return nil
}

// fail rolls the transaction back and poisons the writer.
func (w *Writer) fail(err error) error {
	w.tx.Rollback()
	w.done = true
	return err
}
