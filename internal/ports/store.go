package ports

import (
	"context"
	"errors"

	"studybuddy/internal/domain"
)

// ErrNotFound is returned by repositories when a lookup has no match.
var ErrNotFound = errors.New("not found")

// RecordRepository stores fetched or imported records.
type RecordRepository interface {
	// SaveRecords upserts records by ID and returns how many were new
	SaveRecords(ctx context.Context, records []domain.Record) (int, error)

	// ListRecords returns every stored record in insertion order
	ListRecords(ctx context.Context) ([]domain.Record, error)

	// GetRecord returns a single record or ErrNotFound
	GetRecord(ctx context.Context, id string) (*domain.Record, error)
}

// VocabularyRepository stores the subject vocabulary.
type VocabularyRepository interface {
	// ReplaceVocabulary swaps the stored vocabulary for subjects, keeping their order
	ReplaceVocabulary(ctx context.Context, subjects []domain.Subject) error

	// LoadVocabulary returns the stored subjects in load order
	LoadVocabulary(ctx context.Context) (*domain.Vocabulary, error)
}

// RunRepository stores clustering runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.Run) error

	// GetRun returns a run with its clusters or ErrNotFound
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// LatestRun returns the newest run or ErrNotFound
	LatestRun(ctx context.Context) (*domain.Run, error)

	// ListRuns returns every run, newest first, with its clusters but
	// without their records
	ListRuns(ctx context.Context) ([]domain.Run, error)
}

// CardRepository stores generated flash cards.
type CardRepository interface {
	SaveCards(ctx context.Context, cards []domain.Card) error
	CardsForRecord(ctx context.Context, recordID string) ([]domain.Card, error)
}

// Store is the full local cache.
type Store interface {
	RecordRepository
	VocabularyRepository
	RunRepository
	CardRepository
	Close() error
}
