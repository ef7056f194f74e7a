// Package citation rates records by how often they are cited.
package citation

import (
	"context"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// Scorer implements ports.ImpactScorer: a record's impact is its number of
// citing articles.
type Scorer struct{}

// Ensure Scorer implements ImpactScorer
var _ ports.ImpactScorer = Scorer{}

// Score returns the citation count of the record
func (Scorer) Score(_ context.Context, r domain.Record) (float64, error) {
	return float64(r.CitationCount()), nil
}
