package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

const recordColumns = `id, title, abstract, authors, journal, volume, issue, pub_date, cited_by, impact_score`

// SaveRecords upserts records and returns how many were new
func (s *Store) SaveRecords(ctx context.Context, records []domain.Record) (int, error) {
	added := 0
	err := s.withTx(ctx, func(tx *storeTx) error {
		for _, r := range records {
			isNew, err := tx.upsertRecord(r)
			if err != nil {
				return fmt.Errorf("record %s: %w", r.ID, err)
			}
			if isNew {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ListRecords returns every record in insertion order
func (s *Store) ListRecords(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachSubjects(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecord returns a single record or ports.ErrNotFound
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("record %s: %w", id, ports.ErrNotFound)
	}
	if err := s.attachSubjects(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// recordsByID loads the records with the given IDs, keyed by ID
func (s *Store) recordsByID(ctx context.Context, runID string) (map[string]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records
		WHERE id IN (SELECT record_id FROM run_cluster_records WHERE run_id = ?)
	`, runID)
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachSubjects(ctx, records); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return byID, nil
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			r                domain.Record
			authors, citedBy string
			date             string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Abstract, &authors, &r.Publication.Journal,
			&r.Publication.Volume, &r.Publication.Issue, &date, &citedBy, &r.ImpactScore); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(authors), &r.Authors); err != nil {
			return nil, fmt.Errorf("record %s authors: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(citedBy), &r.CitedBy); err != nil {
			return nil, fmt.Errorf("record %s citations: %w", r.ID, err)
		}
		r.Publication.Date = parseDate(date)
		records = append(records, r)
	}
	return records, rows.Err()
}

// attachSubjects fills MajorSubjects for the given records
func (s *Store) attachSubjects(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	idx := make(map[string]int, len(records))
	for i, r := range records {
		idx[r.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, subject_id FROM record_subjects ORDER BY record_id, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var recordID, subjectID string
		if err := rows.Scan(&recordID, &subjectID); err != nil {
			return err
		}
		if i, ok := idx[recordID]; ok {
			records[i].MajorSubjects = append(records[i].MajorSubjects, subjectID)
		}
	}
	return rows.Err()
}
