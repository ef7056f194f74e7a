// Package anki writes card sets in Anki's tab-separated import format.
package anki

import (
	"bufio"
	"io"
	"strings"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

const header = "#separator:tab\n#html:true\n#columns:Front\tBack\tLink\tDeck\n#deck column:4\n"

// DeckPrefix groups every exported deck under one parent deck.
const DeckPrefix = "StudyBuddy::"

// Writer implements ports.DeckWriter
type Writer struct {
	// Prefix is prepended to each set's title to form the deck name.
	Prefix string
}

// Ensure Writer implements DeckWriter
var _ ports.DeckWriter = Writer{}

// WriteDeck writes every card of every set, one note per line.
func (wr Writer) WriteDeck(w io.Writer, sets []domain.CardSet) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	for _, set := range sets {
		deck := field(wr.Prefix + set.Title)
		for _, c := range set.Cards {
			line := strings.Join([]string{field(c.Question), field(c.Answer), field(c.Link()), deck}, "\t")
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

var fieldReplacer = strings.NewReplacer("\r\n", "<br/>", "\n", "<br/>", "\r", "<br/>", "\t", " ")

// field makes a value safe for one tab-separated column.
func field(s string) string {
	return fieldReplacer.Replace(strings.TrimSpace(s))
}
