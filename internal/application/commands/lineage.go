package commands

import (
	"context"
	"fmt"

	"studybuddy/internal/application"
	"studybuddy/internal/clustering"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// LineageNode is one ancestor node of a record and the subject that owns it
type LineageNode struct {
	Node  string
	Depth int
	Owner string // subject name, empty when no subject owns the node
}

// LineageResult contains a record's lineage
type LineageResult struct {
	Record   *domain.Record
	Subjects []domain.Subject
	Missing  []string // major subject IDs absent from the vocabulary
	Nodes    []LineageNode
}

// LineageCommand explains how the engine sees one record
type LineageCommand struct {
	records  ports.RecordRepository
	vocab    ports.VocabularyRepository
	RecordID string
	Excluded []string
}

// NewLineageCommand creates a new LineageCommand
func NewLineageCommand(records ports.RecordRepository, vocab ports.VocabularyRepository, recordID string, excluded []string) *LineageCommand {
	return &LineageCommand{records: records, vocab: vocab, RecordID: recordID, Excluded: excluded}
}

// Validate checks the record ID
func (c *LineageCommand) Validate() error {
	return application.ValidateRequired("recordID", c.RecordID)
}

// Execute runs the lineage command. Repeated nodes are listed once.
func (c *LineageCommand) Execute(ctx context.Context) (*LineageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	record, err := c.records.GetRecord(ctx, c.RecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", c.RecordID, err)
	}

	vocab, err := c.vocab.LoadVocabulary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	subjects, missing := vocab.Resolve(record.MajorSubjects)
	result := &LineageResult{Record: record, Subjects: subjects, Missing: missing}

	seen := make(map[string]struct{})
	for _, node := range clustering.LineageOf(subjects, clustering.NewBranchSet(c.Excluded)) {
		if _, dup := seen[node]; dup {
			continue
		}
		seen[node] = struct{}{}

		ln := LineageNode{Node: node, Depth: domain.TreeDepth(node)}
		if owner, ok := vocab.Owner(node); ok {
			ln.Owner = owner.Name
		}
		result.Nodes = append(result.Nodes, ln)
	}
	return result, nil
}
