package commands

import (
	"context"
	"fmt"

	"studybuddy/internal/application"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ImportVocabularyResult contains the result of importing a vocabulary
type ImportVocabularyResult struct {
	Subjects    int
	TreeNumbers int
	Malformed   int
	Message     string
}

// ImportVocabularyCommand replaces the stored subject vocabulary
type ImportVocabularyCommand struct {
	vocab    ports.VocabularyRepository
	Subjects []domain.Subject
}

// NewImportVocabularyCommand creates a new ImportVocabularyCommand
func NewImportVocabularyCommand(vocab ports.VocabularyRepository, subjects []domain.Subject) *ImportVocabularyCommand {
	return &ImportVocabularyCommand{vocab: vocab, Subjects: subjects}
}

// Validate checks that there is something to import and every subject has an ID
func (c *ImportVocabularyCommand) Validate() error {
	if len(c.Subjects) == 0 {
		return &application.ValidationError{Field: "subjects", Message: "vocabulary is empty"}
	}
	for i, s := range c.Subjects {
		if err := application.ValidateRequired("subjectID", s.ID); err != nil {
			return &application.ValidationError{
				Field:   "subjectID",
				Message: fmt.Sprintf("subject %d (%q) has no ID", i+1, s.Name),
			}
		}
	}
	return nil
}

// Execute runs the import
func (c *ImportVocabularyCommand) Execute(ctx context.Context) (*ImportVocabularyResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.vocab.ReplaceVocabulary(ctx, c.Subjects); err != nil {
		return nil, fmt.Errorf("failed to store vocabulary: %w", err)
	}

	result := &ImportVocabularyResult{Subjects: len(c.Subjects)}
	for _, s := range c.Subjects {
		for _, tn := range s.TreeNumbers {
			result.TreeNumbers++
			if application.ValidateTreeNumber("treeNumber", tn) != nil {
				result.Malformed++
			}
		}
	}
	result.Message = fmt.Sprintf("Imported %d subjects with %d tree numbers", result.Subjects, result.TreeNumbers)
	if result.Malformed > 0 {
		result.Message += fmt.Sprintf(" (%d malformed, will be skipped)", result.Malformed)
	}
	return result, nil
}

// ImportRecordsResult contains the result of importing records
type ImportRecordsResult struct {
	Imported int
	New      int
	Message  string
}

// ImportRecordsCommand scores and stores records read from a file
type ImportRecordsCommand struct {
	scorer  ports.ImpactScorer
	records ports.RecordRepository
	Records []domain.Record
}

// NewImportRecordsCommand creates a new ImportRecordsCommand
func NewImportRecordsCommand(scorer ports.ImpactScorer, records ports.RecordRepository, input []domain.Record) *ImportRecordsCommand {
	return &ImportRecordsCommand{scorer: scorer, records: records, Records: input}
}

// Validate checks every record has an ID
func (c *ImportRecordsCommand) Validate() error {
	for i, r := range c.Records {
		if err := application.ValidateRequired("recordID", r.ID); err != nil {
			return &application.ValidationError{
				Field:   "recordID",
				Message: fmt.Sprintf("record %d (%q) has no ID", i+1, r.Title),
			}
		}
	}
	return nil
}

// Execute runs the import
func (c *ImportRecordsCommand) Execute(ctx context.Context) (*ImportRecordsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := scoreRecords(ctx, c.scorer, c.Records); err != nil {
		return nil, err
	}

	added, err := c.records.SaveRecords(ctx, c.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to save records: %w", err)
	}

	return &ImportRecordsResult{
		Imported: len(c.Records),
		New:      added,
		Message:  fmt.Sprintf("Imported %d records (%d new)", len(c.Records), added),
	}, nil
}
