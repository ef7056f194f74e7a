// Package csvexport writes records as a spreadsheet-friendly CSV file.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// Header is the first line of every export.
var Header = []string{
	"id", "impact score", "title", "first author", "publication date",
	"journal", "major topics", "cited count", "abstract", "PubMed link",
}

// Writer implements ports.RecordWriter
type Writer struct{}

// Ensure Writer implements RecordWriter
var _ ports.RecordWriter = Writer{}

// WriteRecords writes one row per record. Major topics are written by name,
// falling back to the subject ID when the vocabulary does not know it.
func (Writer) WriteRecords(w io.Writer, records []domain.Record, vocab *domain.Vocabulary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		author := ""
		if a, ok := r.FirstAuthor(); ok {
			author = a.String()
		}
		date := ""
		if !r.Publication.Date.IsZero() {
			date = r.Publication.Date.Format("2006-01-02")
		}
		topics := make([]string, len(r.MajorSubjects))
		for i, id := range r.MajorSubjects {
			topics[i] = vocab.Name(id)
		}

		if err := cw.Write([]string{
			r.ID,
			strconv.FormatFloat(r.ImpactScore, 'f', -1, 64),
			r.Title,
			author,
			date,
			r.Publication.Journal,
			strings.Join(topics, ","),
			strconv.Itoa(r.CitationCount()),
			r.Abstract,
			r.URL(),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
