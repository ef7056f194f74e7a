package commands

import (
	"context"
	"fmt"

	"studybuddy/internal/application"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// FetchRecordsResult contains the result of fetching records
type FetchRecordsResult struct {
	Found   int
	New     int
	Records []domain.Record
	Message string
}

// FetchRecordsCommand searches the remote database, scores the records and caches them
type FetchRecordsCommand struct {
	searcher ports.RecordSearcher
	scorer   ports.ImpactScorer
	records  ports.RecordRepository
	Filters  []domain.SearchFilter
}

// NewFetchRecordsCommand creates a new FetchRecordsCommand
func NewFetchRecordsCommand(searcher ports.RecordSearcher, scorer ports.ImpactScorer, records ports.RecordRepository, filters ...domain.SearchFilter) *FetchRecordsCommand {
	return &FetchRecordsCommand{
		searcher: searcher,
		scorer:   scorer,
		records:  records,
		Filters:  filters,
	}
}

// Validate checks that every filter narrows the search
func (c *FetchRecordsCommand) Validate() error {
	if len(c.Filters) == 0 {
		return &application.ValidationError{Field: "filter", Message: "at least one search filter is required"}
	}
	for i, f := range c.Filters {
		if f.IsEmpty() {
			return &application.ValidationError{
				Field:   "filter",
				Message: fmt.Sprintf("filter %d has no journal, MeSH term or year", i+1),
			}
		}
		if err := application.ValidateYearRange(f.StartYear, f.EndYear); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs every filter, keeps the first copy of each record and stores the result
func (c *FetchRecordsCommand) Execute(ctx context.Context) (*FetchRecordsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var records []domain.Record
	for _, f := range c.Filters {
		found, err := c.searcher.Search(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to search records: %w", err)
		}
		for _, r := range found {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			records = append(records, r)
		}
	}

	if err := scoreRecords(ctx, c.scorer, records); err != nil {
		return nil, err
	}

	added, err := c.records.SaveRecords(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save records: %w", err)
	}

	return &FetchRecordsResult{
		Found:   len(records),
		New:     added,
		Records: records,
		Message: fmt.Sprintf("Fetched %d records (%d new)", len(records), added),
	}, nil
}

func scoreRecords(ctx context.Context, scorer ports.ImpactScorer, records []domain.Record) error {
	for i := range records {
		score, err := scorer.Score(ctx, records[i])
		if err != nil {
			return fmt.Errorf("failed to score record %s: %w", records[i].ID, err)
		}
		records[i].ImpactScore = score
	}
	return nil
}
