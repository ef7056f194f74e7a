package commands

import (
	"context"
	"errors"
	"fmt"

	"studybuddy/internal/application"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ListRunsCommand lists every clustering run, newest first
type ListRunsCommand struct {
	runs ports.RunRepository
}

// NewListRunsCommand creates a new ListRunsCommand
func NewListRunsCommand(runs ports.RunRepository) *ListRunsCommand {
	return &ListRunsCommand{runs: runs}
}

// Execute runs the list runs command
func (c *ListRunsCommand) Execute(ctx context.Context) ([]domain.Run, error) {
	return c.runs.ListRuns(ctx)
}

// ShowRunCommand loads one run with its clusters
type ShowRunCommand struct {
	runs  ports.RunRepository
	RunID string // empty means the latest run
}

// NewShowRunCommand creates a new ShowRunCommand
func NewShowRunCommand(runs ports.RunRepository, runID string) *ShowRunCommand {
	return &ShowRunCommand{runs: runs, RunID: runID}
}

// Execute runs the show run command
func (c *ShowRunCommand) Execute(ctx context.Context) (*domain.Run, error) {
	return loadRun(ctx, c.runs, c.RunID)
}

func loadRun(ctx context.Context, runs ports.RunRepository, runID string) (*domain.Run, error) {
	var (
		run *domain.Run
		err error
	)
	if runID == "" {
		run, err = runs.LatestRun(ctx)
	} else {
		run, err = runs.GetRun(ctx, runID)
	}

	if errors.Is(err, ports.ErrNotFound) {
		reason := "no such run"
		if runID == "" {
			reason = "no runs yet, run clustering first"
		}
		return nil, &application.RunError{RunID: runID, Reason: reason}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return run, nil
}

// ShowClusterResult contains one cluster of a run and what its records share
type ShowClusterResult struct {
	Run          *domain.Run
	Cluster      domain.Cluster
	SharedTopics []string
}

// ShowClusterCommand finds a cluster by subject ID or name
type ShowClusterCommand struct {
	runs  ports.RunRepository
	vocab ports.VocabularyRepository
	RunID string
	Key   string
}

// NewShowClusterCommand creates a new ShowClusterCommand
func NewShowClusterCommand(runs ports.RunRepository, vocab ports.VocabularyRepository, runID, key string) *ShowClusterCommand {
	return &ShowClusterCommand{runs: runs, vocab: vocab, RunID: runID, Key: key}
}

// Validate checks that a cluster was named
func (c *ShowClusterCommand) Validate() error {
	return application.ValidateRequired("cluster", c.Key)
}

// Execute runs the show cluster command
func (c *ShowClusterCommand) Execute(ctx context.Context) (*ShowClusterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	run, err := loadRun(ctx, c.runs, c.RunID)
	if err != nil {
		return nil, err
	}

	cluster, ok := run.Cluster(c.Key)
	if !ok {
		return nil, fmt.Errorf("cluster %q in run %s: %w", c.Key, run.ID, application.ErrNotFound)
	}

	vocab, err := c.vocab.LoadVocabulary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	return &ShowClusterResult{
		Run:          run,
		Cluster:      cluster,
		SharedTopics: domain.SharedTopics(vocab, cluster.Records),
	}, nil
}
