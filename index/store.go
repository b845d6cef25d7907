package index

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the sqlite database holding documents and postings.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the index database at path and migrates
// the schema. Use ":memory:" for an in-memory index.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open index database %s: %w", path, err)
	}
	s := NewStore(db, logger)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing gorm handle without migrating.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the document and posting tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Document{}, &Posting{}); err != nil {
		return fmt.Errorf("migrate index schema: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DocumentCount returns the number of indexed documents.
func (s *Store) DocumentCount() (int64, error) {
	var n int64
	if err := s.db.Model(&Document{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Document returns one document by id.
func (s *Store) Document(id string) (*Document, error) {
	var doc Document
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	return &doc, nil
}

// Postings returns a document's postings in emission order.
func (s *Store) Postings(documentID string) ([]Posting, error) {
	var out []Posting
	err := s.db.
		Where("document_id = ?", documentID).
		Order("ordinal").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load postings of %s: %w", documentID, err)
	}
	return out, nil
}

// TopTerms returns the n most frequent terms across all documents.
func (s *Store) TopTerms(n int) ([]TermCount, error) {
	var out []TermCount
	err := s.db.Model(&Posting{}).
		Select("term, count(*) as count").
		Group("term").
		Order("count desc, term").
		Limit(n).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate top terms: %w", err)
	}
	return out, nil
}
