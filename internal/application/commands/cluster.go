package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy/internal/application"
	"studybuddy/internal/clustering"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ClusterStore is the part of the cache a clustering run reads and writes
type ClusterStore interface {
	ports.RecordRepository
	ports.VocabularyRepository
	ports.RunRepository
}

// ClusterResult contains the result of a clustering run
type ClusterResult struct {
	Run     *domain.Run
	Report  clustering.Report
	Message string
}

// ClusterCommand clusters every stored record and saves the run
type ClusterCommand struct {
	store   ClusterStore
	log     zerolog.Logger
	now     func() time.Time
	Options clustering.Options
}

// NewClusterCommand creates a new ClusterCommand
func NewClusterCommand(store ClusterStore, opts clustering.Options, log zerolog.Logger) *ClusterCommand {
	return &ClusterCommand{
		store:   store,
		log:     log,
		now:     time.Now,
		Options: opts,
	}
}

// Validate checks the clustering knobs
func (c *ClusterCommand) Validate() error {
	if err := application.ValidatePositive("minClusterSize", c.Options.MinClusterSize); err != nil {
		return err
	}
	return application.ValidatePositive("minLineageDepth", c.Options.MinLineageDepth)
}

// Execute runs the clustering engine over the cache
func (c *ClusterCommand) Execute(ctx context.Context) (*ClusterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	vocab, err := c.store.LoadVocabulary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	if vocab.Len() == 0 {
		return nil, application.ErrNoVocabulary
	}

	records, err := c.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return nil, application.ErrNoRecords
	}

	engine, err := clustering.New(c.Options, clustering.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("failed to configure clustering: %w", err)
	}
	result := engine.Run(vocab, records)

	opts := engine.Options()
	run := &domain.Run{
		ID:               uuid.NewString(),
		CreatedAt:        c.now().UTC(),
		MinClusterSize:   opts.MinClusterSize,
		MinLineageDepth:  opts.MinLineageDepth,
		ExcludedBranches: opts.ExcludedBranches,
		Clusters:         result.Clusters,
		Stats:            result.Report.Stats(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	c.log.Info().
		Str("run", run.ID).
		Int("records", run.Stats.Records).
		Int("clusters", len(run.Clusters)).
		Int("fallbacks", run.Stats.Fallbacks).
		Int("unresolved", run.Stats.UnresolvedNodes).
		Msg("clustering run saved")

	return &ClusterResult{
		Run:     run,
		Report:  result.Report,
		Message: fmt.Sprintf("Clustered %d of %d records into %d clusters", run.Stats.Clustered, run.Stats.Records, len(run.Clusters)),
	}, nil
}
