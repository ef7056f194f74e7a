package commands

import (
	"context"
	"fmt"
	"io"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ExportDeckResult contains the result of a deck export
type ExportDeckResult struct {
	Decks   int
	Cards   int
	Message string
}

// ExportDeckCommand writes the stored cards of a run's clusters as decks
type ExportDeckCommand struct {
	runs   ports.RunRepository
	cards  ports.CardRepository
	writer ports.DeckWriter
	RunID  string
}

// NewExportDeckCommand creates a new ExportDeckCommand
func NewExportDeckCommand(runs ports.RunRepository, cards ports.CardRepository, writer ports.DeckWriter, runID string) *ExportDeckCommand {
	return &ExportDeckCommand{runs: runs, cards: cards, writer: writer, RunID: runID}
}

// Execute writes the decks to out. Clusters without cards are left out.
func (c *ExportDeckCommand) Execute(ctx context.Context, out io.Writer) (*ExportDeckResult, error) {
	run, err := loadRun(ctx, c.runs, c.RunID)
	if err != nil {
		return nil, err
	}

	var sets []domain.CardSet
	total := 0
	for _, cluster := range run.Clusters {
		set := domain.CardSet{Title: cluster.Name}
		for _, r := range cluster.Records {
			cards, err := c.cards.CardsForRecord(ctx, r.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load cards for %s: %w", r.ID, err)
			}
			set.Cards = append(set.Cards, cards...)
		}
		if len(set.Cards) > 0 {
			sets = append(sets, set)
			total += len(set.Cards)
		}
	}

	if err := c.writer.WriteDeck(out, sets); err != nil {
		return nil, fmt.Errorf("failed to write deck: %w", err)
	}

	return &ExportDeckResult{
		Decks:   len(sets),
		Cards:   total,
		Message: fmt.Sprintf("Exported %d cards in %d decks", total, len(sets)),
	}, nil
}

// ExportRecordsCommand writes stored records as a spreadsheet. With a cluster
// key only that cluster's records of the run are written.
type ExportRecordsCommand struct {
	records    ports.RecordRepository
	vocab      ports.VocabularyRepository
	runs       ports.RunRepository
	writer     ports.RecordWriter
	RunID      string
	ClusterKey string
}

// NewExportRecordsCommand creates a new ExportRecordsCommand
func NewExportRecordsCommand(records ports.RecordRepository, vocab ports.VocabularyRepository, runs ports.RunRepository, writer ports.RecordWriter, runID, clusterKey string) *ExportRecordsCommand {
	return &ExportRecordsCommand{
		records:    records,
		vocab:      vocab,
		runs:       runs,
		writer:     writer,
		RunID:      runID,
		ClusterKey: clusterKey,
	}
}

// Execute writes the records to out and returns how many were written
func (c *ExportRecordsCommand) Execute(ctx context.Context, out io.Writer) (int, error) {
	vocab, err := c.vocab.LoadVocabulary(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	var records []domain.Record
	if c.ClusterKey == "" {
		records, err = c.records.ListRecords(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to load records: %w", err)
		}
	} else {
		run, err := loadRun(ctx, c.runs, c.RunID)
		if err != nil {
			return 0, err
		}
		cluster, ok := run.Cluster(c.ClusterKey)
		if !ok {
			return 0, fmt.Errorf("cluster %q in run %s: %w", c.ClusterKey, run.ID, ports.ErrNotFound)
		}
		records = cluster.Records
	}

	if err := c.writer.WriteRecords(out, records, vocab); err != nil {
		return 0, fmt.Errorf("failed to write records: %w", err)
	}
	return len(records), nil
}
