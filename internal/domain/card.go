package domain

// Card is a single question/answer flash card generated from one record.
type Card struct {
	ID       string // UUID
	RecordID string
	Question string
	Answer   string
}

// Link returns the PubMed link of the card's source record.
func (c Card) Link() string {
	return PubMedURL(c.RecordID)
}

// CardSet is the deck built for one cluster.
type CardSet struct {
	Title string
	Cards []Card
}
