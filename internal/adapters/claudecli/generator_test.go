package claudecli

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"studybuddy/internal/domain"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name       string
		result     string
		wantCount  int
		wantFirstQ string
		wantErr    bool
	}{
		{
			name: "valid JSON array",
			result: `[
				{"question": "Which breed was studied?", "answer": "Beagles"},
				{"question": "How many dogs?", "answer": "42"}
			]`,
			wantCount:  2,
			wantFirstQ: "Which breed was studied?",
		},
		{
			name:       "JSON in markdown code block",
			result:     "```json\n[{\"question\": \"Q1\", \"answer\": \"A1\"}]\n```",
			wantCount:  1,
			wantFirstQ: "Q1",
		},
		{
			name:       "JSON with surrounding text",
			result:     "Here are your cards:\n[{\"question\": \"Q1\", \"answer\": \"A1\"}]\nGood luck!",
			wantCount:  1,
			wantFirstQ: "Q1",
		},
		{
			name:       "JSON in code block without language",
			result:     "```\n[{\"question\": \"Q2\", \"answer\": \"A2\"}]\n```",
			wantCount:  1,
			wantFirstQ: "Q2",
		},
		{
			name:       "missing answer in one entry",
			result:     `[{"question": "No answer"}, {"question": "Valid", "answer": "Yes"}]`,
			wantCount:  1, // Only the valid entry
			wantFirstQ: "Valid",
		},
		{
			name:    "no JSON array found",
			result:  "This is just plain text without any JSON",
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			result:  `[{"question": "Q", "answer": }]`,
			wantErr: true,
		},
		{
			name:    "empty array",
			result:  `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := parseCards(tt.result)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseCards() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("parseCards() unexpected error: %v", err)
				return
			}

			if len(cards) != tt.wantCount {
				t.Errorf("got %d cards, want %d", len(cards), tt.wantCount)
				return
			}

			if cards[0].Question != tt.wantFirstQ {
				t.Errorf("first Question = %q, want %q", cards[0].Question, tt.wantFirstQ)
			}
		})
	}
}

func TestBuildCardPrompt(t *testing.T) {
	record := domain.Record{
		ID:          "301",
		Title:       "Canine lymphoma outcomes",
		Abstract:    "We followed 42 dogs.",
		Publication: domain.Publication{Journal: "Vet J"},
	}

	prompt := buildCardPrompt(record, 3)

	for _, want := range []string{"Canine lymphoma outcomes", "Vet J", "We followed 42 dogs.", "exactly 3 flash cards"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateCards(t *testing.T) {
	record := domain.Record{ID: "301", Title: "Title", Abstract: "Abstract"}

	t.Run("trims to the requested count", func(t *testing.T) {
		var gotArgs []string
		g := NewGenerator(WithModel("sonnet"))
		g.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte(`{"type":"result","is_error":false,"result":"[{\"question\":\"Q1\",\"answer\":\"A1\"},{\"question\":\"Q2\",\"answer\":\"A2\"}]"}`), nil
		}

		cards, err := g.GenerateCards(context.Background(), record, 1)
		if err != nil {
			t.Fatalf("GenerateCards failed: %v", err)
		}
		if len(cards) != 1 || cards[0].Question != "Q1" {
			t.Errorf("cards = %v, expected only Q1", cards)
		}
		if i := slices.Index(gotArgs, "--model"); i < 0 || gotArgs[i+1] != "sonnet" {
			t.Errorf("args = %v, expected --model sonnet", gotArgs)
		}
	})

	t.Run("reports CLI errors", func(t *testing.T) {
		g := NewGenerator()
		g.run = func(context.Context, string, ...string) ([]byte, error) {
			return []byte(`{"type":"result","is_error":true,"result":"quota exceeded"}`), nil
		}
		if _, err := g.GenerateCards(context.Background(), record, 1); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
			t.Errorf("error = %v, expected quota exceeded", err)
		}
	})

	t.Run("passes through exec failures", func(t *testing.T) {
		boom := errors.New("boom")
		g := NewGenerator()
		g.run = func(context.Context, string, ...string) ([]byte, error) { return nil, boom }
		if _, err := g.GenerateCards(context.Background(), record, 1); !errors.Is(err, boom) {
			t.Errorf("error = %v, expected boom", err)
		}
	})

	t.Run("rejects empty records", func(t *testing.T) {
		if _, err := NewGenerator().GenerateCards(context.Background(), domain.Record{ID: "1"}, 1); err == nil {
			t.Error("expected an error for a record without text")
		}
	})
}

func TestIsAvailable(t *testing.T) {
	if NewGenerator(WithBinary("definitely-not-a-real-binary-xyz")).IsAvailable() {
		t.Error("expected a missing binary to be unavailable")
	}
}
