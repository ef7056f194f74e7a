package claudecli

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// Generator implements ports.CardGenerator using Claude Code CLI
type Generator struct {
	model  string
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Ensure Generator implements CardGenerator
var _ ports.CardGenerator = (*Generator)(nil)

// Option configures the Generator
type Option func(*Generator)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithBinary sets the CLI executable name or path
func WithBinary(binary string) Option {
	return func(g *Generator) {
		g.binary = binary
	}
}

// NewGenerator creates a new Claude CLI card generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		model:  "haiku", // Default to haiku for speed
		binary: "claude",
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("claude CLI error: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("claude CLI error: %w", err)
	}
	return output, nil
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	IsError      bool    `json:"is_error"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// cardJSON represents the expected JSON format from Claude's response
type cardJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerateCards asks Claude for n question/answer cards about a record
func (g *Generator) GenerateCards(ctx context.Context, record domain.Record, n int) ([]ports.CardDraft, error) {
	if strings.TrimSpace(record.Abstract) == "" && strings.TrimSpace(record.Title) == "" {
		return nil, fmt.Errorf("record %s has no title or abstract", record.ID)
	}

	args := []string{
		"-p", buildCardPrompt(record, n),
		"--output-format", "json",
		"--model", g.model,
	}

	output, err := g.run(ctx, g.binary, args...)
	if err != nil {
		return nil, err
	}

	// Parse the claude CLI JSON response
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}

	if response.IsError {
		return nil, fmt.Errorf("claude returned an error: %s", response.Result)
	}

	cards, err := parseCards(response.Result)
	if err != nil {
		return nil, err
	}
	if len(cards) > n {
		cards = cards[:n]
	}
	return cards, nil
}

func buildCardPrompt(record domain.Record, n int) string {
	return fmt.Sprintf(`You are writing flash cards for a student reviewing the medical literature.

Article title: %s
Journal: %s

Abstract:
%s

Write exactly %d flash cards that test the key findings, methods and numbers of this article.
Questions must be answerable from the abstract alone. Keep answers under 40 words.

Return ONLY a JSON array (no markdown, no code blocks):
[
  {"question": "What was the primary outcome?", "answer": "Overall survival at five years."}
]`, record.Title, record.Publication.Journal, record.Abstract, n)
}

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// parseCards extracts the cards JSON array from Claude's response
func parseCards(result string) ([]ports.CardDraft, error) {
	result = strings.TrimSpace(result)

	// Try to extract JSON from markdown code blocks if present
	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}

	// Find JSON array in the text (handles surrounding text)
	jsonStartIdx := strings.Index(result, "[")
	jsonEndIdx := strings.LastIndex(result, "]")
	if jsonStartIdx == -1 || jsonEndIdx == -1 || jsonEndIdx <= jsonStartIdx {
		return nil, fmt.Errorf("no valid JSON array found in response")
	}

	jsonStr := result[jsonStartIdx : jsonEndIdx+1]

	var raw []cardJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cards JSON: %w (json: %s)", err, jsonStr)
	}

	var cards []ports.CardDraft
	for _, c := range raw {
		q, a := strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)
		if q == "" || a == "" {
			continue // Skip invalid entries
		}
		cards = append(cards, ports.CardDraft{Question: q, Answer: a})
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("no valid cards found in response")
	}

	return cards, nil
}

// IsAvailable checks if the claude CLI is installed and accessible
func (g *Generator) IsAvailable() bool {
	_, err := exec.LookPath(g.binary)
	return err == nil
}
