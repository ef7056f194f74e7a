// Package jsonfile reads and writes records and vocabularies as JSON files.
package jsonfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

const dateLayout = "2006-01-02"

type recordJSON struct {
	ID              string       `json:"id"`
	Title           string       `json:"title,omitempty"`
	Abstract        string       `json:"abstract,omitempty"`
	Authors         []authorJSON `json:"authors,omitempty"`
	Journal         string       `json:"journal,omitempty"`
	Volume          string       `json:"volume,omitempty"`
	Issue           string       `json:"issue,omitempty"`
	PublicationDate string       `json:"publicationDate,omitempty"`
	MajorSubjects   []string     `json:"majorSubjects"`
	CitedBy         []string     `json:"citedBy,omitempty"`
}

type authorJSON struct {
	LastName string `json:"lastName"`
	ForeName string `json:"foreName,omitempty"`
	Initials string `json:"initials,omitempty"`
}

type subjectJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	TreeNumbers []string `json:"treeNumbers"`
}

// meshTermJSON is one value of a descriptor-keyed vocabulary object.
type meshTermJSON struct {
	DescriptorID   string   `json:"DescriptorId"`
	DescriptorName string   `json:"DescriptorName"`
	TreeNumbers    []string `json:"TreeNumbers"`
}

// ReadRecords decodes a JSON array of records. Impact scores are not read,
// they are computed on import.
func ReadRecords(r io.Reader) ([]domain.Record, error) {
	var in []recordJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]domain.Record, 0, len(in))
	for i, rj := range in {
		rec := domain.Record{
			ID:       rj.ID,
			Title:    rj.Title,
			Abstract: rj.Abstract,
			Publication: domain.Publication{
				Journal: rj.Journal,
				Volume:  rj.Volume,
				Issue:   rj.Issue,
			},
			MajorSubjects: rj.MajorSubjects,
			CitedBy:       rj.CitedBy,
		}
		if rj.PublicationDate != "" {
			d, err := time.Parse(dateLayout, rj.PublicationDate)
			if err != nil {
				return nil, fmt.Errorf("record %d (%s): invalid publication date %q", i+1, rj.ID, rj.PublicationDate)
			}
			rec.Publication.Date = d
		}
		for _, a := range rj.Authors {
			rec.Authors = append(rec.Authors, domain.Author{LastName: a.LastName, ForeName: a.ForeName, Initials: a.Initials})
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteRecords encodes records as an indented JSON array.
func WriteRecords(w io.Writer, records []domain.Record) error {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		rj := recordJSON{
			ID:            r.ID,
			Title:         r.Title,
			Abstract:      r.Abstract,
			Journal:       r.Publication.Journal,
			Volume:        r.Publication.Volume,
			Issue:         r.Publication.Issue,
			MajorSubjects: r.MajorSubjects,
			CitedBy:       r.CitedBy,
		}
		if !r.Publication.Date.IsZero() {
			rj.PublicationDate = r.Publication.Date.Format(dateLayout)
		}
		for _, a := range r.Authors {
			rj.Authors = append(rj.Authors, authorJSON{LastName: a.LastName, ForeName: a.ForeName, Initials: a.Initials})
		}
		out = append(out, rj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Writer adapts WriteRecords to the record export port.
type Writer struct{}

var _ ports.RecordWriter = Writer{}

// WriteRecords encodes records as JSON. The vocabulary is not needed, subject
// IDs are written as they are stored.
func (Writer) WriteRecords(w io.Writer, records []domain.Record, _ *domain.Vocabulary) error {
	return WriteRecords(w, records)
}

// ReadVocabulary decodes either a JSON array of subjects, kept in file
// order, or an object keyed by descriptor ID, sorted by ID.
func ReadVocabulary(r io.Reader) ([]domain.Subject, error) {
	br := bufio.NewReader(r)
	first, err := firstByte(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	if first == '{' {
		var byID map[string]meshTermJSON
		if err := json.NewDecoder(br).Decode(&byID); err != nil {
			return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
		}
		subjects := make([]domain.Subject, 0, len(byID))
		for key, term := range byID {
			id := term.DescriptorID
			if id == "" {
				id = key
			}
			subjects = append(subjects, domain.Subject{ID: id, Name: term.DescriptorName, TreeNumbers: term.TreeNumbers})
		}
		sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
		return subjects, nil
	}

	var in []subjectJSON
	if err := json.NewDecoder(br).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	subjects := make([]domain.Subject, 0, len(in))
	for _, s := range in {
		subjects = append(subjects, domain.Subject{ID: s.ID, Name: s.Name, TreeNumbers: s.TreeNumbers})
	}
	return subjects, nil
}

// WriteVocabulary encodes subjects as an indented JSON array.
func WriteVocabulary(w io.Writer, subjects []domain.Subject) error {
	out := make([]subjectJSON, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, subjectJSON{ID: s.ID, Name: s.Name, TreeNumbers: s.TreeNumbers})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// firstByte peeks at the first non-space byte without consuming it.
func firstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if bytes.IndexByte([]byte(" \t\r\n"), b) >= 0 {
			continue
		}
		return b, br.UnreadByte()
	}
}
