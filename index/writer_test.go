package index

import (
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/gramflow/analysis"
	"github.com/BaSui01/gramflow/analysis/ngram"
)

func TestWriterSmallBatches(t *testing.T) {
	s := newTestStore(t)

	tok, err := ngram.New(ngram.Config{MinGram: 1, MaxGram: 2})
	require.NoError(t, err)
	require.NoError(t, tok.Reset(strings.NewReader("abcdefgh")))

	// A tiny batch size forces several mid-document flushes.
	w := s.NewWriter("batched", nil).WithBatchSize(3)
	require.NoError(t, analysis.Drain(tok, w))

	doc, err := s.Document(w.DocumentID())
	require.NoError(t, err)
	assert.Equal(t, 15, doc.TokenCount)

	postings, err := s.Postings(w.DocumentID())
	require.NoError(t, err)
	require.Len(t, postings, 15)
	for i, p := range postings {
		assert.Equal(t, i, p.Ordinal)
	}
}

func TestWriterEmptyStream(t *testing.T) {
	s := newTestStore(t)

	tok, err := ngram.New(ngram.Config{MinGram: 1, MaxGram: 2})
	require.NoError(t, err)
	require.NoError(t, tok.Reset(strings.NewReader("")))

	w := s.NewWriter("empty", nil)
	require.NoError(t, analysis.Drain(tok, w))

	doc, err := s.Document(w.DocumentID())
	require.NoError(t, err)
	assert.Zero(t, doc.TokenCount)
	assert.Zero(t, doc.AnalyzedBytes)
}

func TestWriterRejectsUseAfterEnd(t *testing.T) {
	s := newTestStore(t)

	w := s.NewWriter("done", nil)
	require.NoError(t, w.End(analysis.Token{}))

	assert.Error(t, w.Token(&analysis.Token{Term: "x"}))
	assert.Error(t, w.End(analysis.Token{}))
}

func TestWriterAbortDropsDocument(t *testing.T) {
	s := newTestStore(t)

	w := s.NewWriter("aborted", nil)
	require.NoError(t, w.Token(&analysis.Token{Term: "ab", EndOffset: 2}))
	w.Abort()

	_, err := s.Document(w.DocumentID())
	assert.Error(t, err)

	n, err := s.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWriterBeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	// gorm probes the sqlite version while opening the dialector.
	mock.ExpectQuery("select sqlite_version()").
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.42.0"))

	beginErr := errors.New("disk gone")
	mock.ExpectBegin().WillReturnError(beginErr)

	gdb, err := gorm.Open(&sqlite.Dialector{Conn: db}, &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	s := NewStore(gdb, zap.NewNop())
	w := s.NewWriter("failing", nil)

	err = w.Token(&analysis.Token{Term: "ab", EndOffset: 2})
	require.Error(t, err)
	assert.ErrorContains(t, err, "begin document")

	// No transaction was opened, so nothing needs rolling back and later
	// calls keep failing against the broken connection.
	assert.Error(t, w.Token(&analysis.Token{Term: "bc"}))
	assert.Error(t, w.End(analysis.Token{}))
}
