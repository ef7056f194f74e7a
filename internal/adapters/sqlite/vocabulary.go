package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studybuddy/internal/domain"
)

// ReplaceVocabulary swaps the stored subjects for a new set
func (s *Store) ReplaceVocabulary(ctx context.Context, subjects []domain.Subject) error {
	return s.withTx(ctx, func(tx *storeTx) error {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM subject_tree_numbers`); err != nil {
			return err
		}
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
			return err
		}
		for i, subject := range subjects {
			if err := tx.insertSubject(i, subject); err != nil {
				return fmt.Errorf("subject %s: %w", subject.ID, err)
			}
		}
		return nil
	})
}

// LoadVocabulary returns the stored subjects in load order
func (s *Store) LoadVocabulary(ctx context.Context) (*domain.Vocabulary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.seq, s.id, s.name, t.tree_number
		FROM subjects s
		LEFT JOIN subject_tree_numbers t ON t.subject_seq = s.seq
		ORDER BY s.seq, t.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []domain.Subject
	lastSeq := -1
	for rows.Next() {
		var (
			seq      int
			id, name string
			tn       sql.NullString
		)
		if err := rows.Scan(&seq, &id, &name, &tn); err != nil {
			return nil, err
		}
		if seq != lastSeq {
			subjects = append(subjects, domain.Subject{ID: id, Name: name})
			lastSeq = seq
		}
		if tn.Valid {
			last := &subjects[len(subjects)-1]
			last.TreeNumbers = append(last.TreeNumbers, tn.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewVocabulary(subjects), nil
}
