package ports

import (
	"context"

	"studybuddy/internal/domain"
)

// RecordSearcher finds records in a remote bibliographic database.
type RecordSearcher interface {
	// Search returns every record matching the filter, with citations filled in
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Record, error)
}

// ImpactScorer rates a record's importance.
type ImpactScorer interface {
	Score(ctx context.Context, record domain.Record) (float64, error)
}
