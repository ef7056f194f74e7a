package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// memStore is an in-memory ports.Store
type memStore struct {
	records  []domain.Record
	subjects []domain.Subject
	runs     []domain.Run
	cards    map[string][]domain.Card
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{cards: make(map[string][]domain.Card)}
}

var _ ports.Store = (*memStore)(nil)

func (s *memStore) SaveRecords(_ context.Context, records []domain.Record) (int, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	added := 0
	for _, r := range records {
		idx := slices.IndexFunc(s.records, func(e domain.Record) bool { return e.ID == r.ID })
		if idx >= 0 {
			s.records[idx] = r
			continue
		}
		s.records = append(s.records, r)
		added++
	}
	return added, nil
}

func (s *memStore) ListRecords(context.Context) ([]domain.Record, error) {
	return slices.Clone(s.records), nil
}

func (s *memStore) GetRecord(_ context.Context, id string) (*domain.Record, error) {
	for _, r := range s.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *memStore) ReplaceVocabulary(_ context.Context, subjects []domain.Subject) error {
	s.subjects = slices.Clone(subjects)
	return nil
}

func (s *memStore) LoadVocabulary(context.Context) (*domain.Vocabulary, error) {
	return domain.NewVocabulary(s.subjects), nil
}

func (s *memStore) SaveRun(_ context.Context, run *domain.Run) error {
	s.runs = append(s.runs, *run)
	return nil
}

func (s *memStore) GetRun(_ context.Context, id string) (*domain.Run, error) {
	for _, r := range s.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *memStore) LatestRun(ctx context.Context) (*domain.Run, error) {
	runs, _ := s.ListRuns(ctx)
	if len(runs) == 0 {
		return nil, ports.ErrNotFound
	}
	return &runs[0], nil
}

func (s *memStore) ListRuns(context.Context) ([]domain.Run, error) {
	runs := slices.Clone(s.runs)
	domain.SortRunsNewestFirst(runs)
	return runs, nil
}

func (s *memStore) SaveCards(_ context.Context, cards []domain.Card) error {
	for _, c := range cards {
		s.cards[c.RecordID] = append(s.cards[c.RecordID], c)
	}
	return nil
}

func (s *memStore) CardsForRecord(_ context.Context, recordID string) ([]domain.Card, error) {
	return slices.Clone(s.cards[recordID]), nil
}

func (s *memStore) Close() error { return nil }

type fakeSearcher struct {
	results map[int][]domain.Record // keyed by StartYear
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, filter domain.SearchFilter) ([]domain.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[filter.StartYear], nil
}

// citationScorer scores a record by its citation count
type citationScorer struct{}

func (citationScorer) Score(_ context.Context, r domain.Record) (float64, error) {
	return float64(r.CitationCount()), nil
}

type fakeGenerator struct {
	available bool
	failFor   map[string]bool
	calls     map[string]int // record ID -> cards requested
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{available: true, failFor: map[string]bool{}, calls: map[string]int{}}
}

func (g *fakeGenerator) GenerateCards(_ context.Context, r domain.Record, n int) ([]ports.CardDraft, error) {
	g.calls[r.ID] = n
	if g.failFor[r.ID] {
		return nil, errors.New("generator refused")
	}
	drafts := make([]ports.CardDraft, n)
	for i := range drafts {
		drafts[i] = ports.CardDraft{
			Question: fmt.Sprintf("Q%d about %s", i+1, r.ID),
			Answer:   fmt.Sprintf("A%d", i+1),
		}
	}
	return drafts, nil
}

func (g *fakeGenerator) IsAvailable() bool { return g.available }

// titleDeckWriter writes one line per set: "title:cards"
type titleDeckWriter struct{}

func (titleDeckWriter) WriteDeck(w io.Writer, sets []domain.CardSet) error {
	for _, s := range sets {
		if _, err := fmt.Fprintf(w, "%s:%d\n", s.Title, len(s.Cards)); err != nil {
			return err
		}
	}
	return nil
}

// idRecordWriter writes one record ID per line
type idRecordWriter struct{}

func (idRecordWriter) WriteRecords(w io.Writer, records []domain.Record, _ *domain.Vocabulary) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.ID); err != nil {
			return err
		}
	}
	return nil
}
