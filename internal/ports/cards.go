package ports

import (
	"context"
	"io"

	"studybuddy/internal/domain"
)

// CardDraft is a generated question/answer pair before it is stored.
type CardDraft struct {
	Question string
	Answer   string
}

// CardGenerator writes flash cards for a record
type CardGenerator interface {
	// GenerateCards asks for n cards about the record
	GenerateCards(ctx context.Context, record domain.Record, n int) ([]CardDraft, error)

	// IsAvailable returns true if the generator (e.g., Claude CLI) can be used
	IsAvailable() bool
}

// DeckWriter serializes card sets into a deck file format.
type DeckWriter interface {
	WriteDeck(w io.Writer, sets []domain.CardSet) error
}

// RecordWriter serializes records for spreadsheets.
type RecordWriter interface {
	WriteRecords(w io.Writer, records []domain.Record, vocab *domain.Vocabulary) error
}
