package application

import (
	"fmt"
	"strings"

	"studybuddy/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidatePositive checks that an integer knob is at least 1.
func ValidatePositive(fieldName string, value int) error {
	if value < 1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least 1, got %d", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// ValidateTreeNumber checks that a tree number splits into non-empty levels.
func ValidateTreeNumber(fieldName, treeNumber string) error {
	if _, err := domain.SplitTreeNumber(treeNumber); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected a dotted tree number, got: %q", treeNumber),
		}
	}
	return nil
}

// ValidateYearRange checks a search year range. Zero means unbounded.
func ValidateYearRange(start, end int) error {
	if start < 0 || end < 0 {
		return &ValidationError{Field: "year", Message: "years cannot be negative"}
	}
	if start != 0 && end != 0 && start > end {
		return &ValidationError{
			Field:   "startYear",
			Message: fmt.Sprintf("start year %d is after end year %d", start, end),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "recordID" -> "record ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"recordID":        "record ID",
		"runID":           "run ID",
		"subjectID":       "subject ID",
		"minClusterSize":  "minimum cluster size",
		"minLineageDepth": "minimum lineage depth",
		"cardsPerCluster": "cards per cluster",
		"query":           "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}
