package sqlite

import (
	"context"
	"fmt"

	"studybuddy/internal/domain"
)

// SaveCards stores generated cards
func (s *Store) SaveCards(ctx context.Context, cards []domain.Card) error {
	return s.withTx(ctx, func(tx *storeTx) error {
		for _, c := range cards {
			if err := tx.insertCard(c); err != nil {
				return fmt.Errorf("card for %s: %w", c.RecordID, err)
			}
		}
		return nil
	})
}

// CardsForRecord returns a record's cards in the order they were saved
func (s *Store) CardsForRecord(ctx context.Context, recordID string) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_id, question, answer FROM cards WHERE record_id = ? ORDER BY seq
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.RecordID, &c.Question, &c.Answer); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
