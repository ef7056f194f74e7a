package commands

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"studybuddy/internal/application"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// CardFailure records a record whose cards could not be generated
type CardFailure struct {
	RecordID string
	Err      error
}

// GenerateCardsResult contains the decks built for a run
type GenerateCardsResult struct {
	Run       *domain.Run
	Sets      []domain.CardSet
	Generated int
	Reused    int
	Failures  []CardFailure
	Message   string
}

// GenerateCardsCommand builds one deck per cluster of a run. Records that
// already have stored cards keep them; the rest are sent to the generator.
type GenerateCardsCommand struct {
	runs       ports.RunRepository
	cards      ports.CardRepository
	generator  ports.CardGenerator
	RunID      string
	PerCluster int
}

// NewGenerateCardsCommand creates a new GenerateCardsCommand
func NewGenerateCardsCommand(runs ports.RunRepository, cards ports.CardRepository, generator ports.CardGenerator, runID string, perCluster int) *GenerateCardsCommand {
	return &GenerateCardsCommand{
		runs:       runs,
		cards:      cards,
		generator:  generator,
		RunID:      runID,
		PerCluster: perCluster,
	}
}

// Validate checks the card budget
func (c *GenerateCardsCommand) Validate() error {
	return application.ValidatePositive("cardsPerCluster", c.PerCluster)
}

// Execute runs the generate cards command. A failing record is reported and
// skipped so one bad abstract does not lose the rest of the deck.
func (c *GenerateCardsCommand) Execute(ctx context.Context) (*GenerateCardsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	run, err := loadRun(ctx, c.runs, c.RunID)
	if err != nil {
		return nil, err
	}

	result := &GenerateCardsResult{Run: run}
	checkedGenerator := false

	for _, cluster := range run.Clusters {
		set := domain.CardSet{Title: cluster.Name}
		budget := AllocateCards(cluster.Records, c.PerCluster)

		for i, record := range cluster.Records {
			existing, err := c.cards.CardsForRecord(ctx, record.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load cards for %s: %w", record.ID, err)
			}
			if len(existing) > 0 {
				set.Cards = append(set.Cards, existing...)
				result.Reused += len(existing)
				continue
			}

			if !checkedGenerator {
				if !c.generator.IsAvailable() {
					return nil, application.ErrGeneratorUnavailable
				}
				checkedGenerator = true
			}

			drafts, err := c.generator.GenerateCards(ctx, record, budget[i])
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				result.Failures = append(result.Failures, CardFailure{RecordID: record.ID, Err: err})
				continue
			}

			cards := make([]domain.Card, 0, len(drafts))
			for _, d := range drafts {
				cards = append(cards, domain.Card{
					ID:       uuid.NewString(),
					RecordID: record.ID,
					Question: d.Question,
					Answer:   d.Answer,
				})
			}
			if err := c.cards.SaveCards(ctx, cards); err != nil {
				return nil, fmt.Errorf("failed to save cards for %s: %w", record.ID, err)
			}
			set.Cards = append(set.Cards, cards...)
			result.Generated += len(cards)
		}

		if len(set.Cards) > 0 {
			result.Sets = append(result.Sets, set)
		}
	}

	result.Message = fmt.Sprintf("Built %d decks: %d new cards, %d reused", len(result.Sets), result.Generated, result.Reused)
	if len(result.Failures) > 0 {
		result.Message += fmt.Sprintf(", %d records failed", len(result.Failures))
	}
	return result, nil
}

// AllocateCards splits a cluster's card budget across its records in
// proportion to impact score normalized within the cluster. Every record gets
// at least one card, and a lone record gets the whole budget. When no record
// has a score the budget is split evenly. Leftover cards go to the largest
// fractional shares, earlier records first on ties.
func AllocateCards(records []domain.Record, budget int) []int {
	n := len(records)
	if n == 0 {
		return nil
	}

	alloc := make([]int, n)
	for i := range alloc {
		alloc[i] = 1
	}
	if n == 1 {
		alloc[0] = max(budget, 1)
		return alloc
	}

	extra := budget - n
	if extra <= 0 {
		return alloc
	}

	total := 0.0
	for _, r := range records {
		total += max(r.ImpactScore, 0)
	}

	type share struct {
		idx  int
		frac float64
	}
	shares := make([]share, n)
	given := 0
	for i, r := range records {
		weight := 1 / float64(n)
		if total > 0 {
			weight = max(r.ImpactScore, 0) / total
		}
		exact := weight * float64(extra)
		whole := int(math.Floor(exact))
		alloc[i] += whole
		given += whole
		shares[i] = share{idx: i, frac: exact - float64(whole)}
	}

	slices.SortStableFunc(shares, func(a, b share) int {
		return cmp.Compare(b.frac, a.frac)
	})
	for k := 0; k < extra-given && k < n; k++ {
		alloc[shares[k].idx]++
	}
	return alloc
}
