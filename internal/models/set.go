package models

import "time"

// FlashcardSet is a stored, ordered collection of flashcards captured from
// one upstream source (a chat export or a hand-authored deck).
type FlashcardSet struct {
	ID        int64     `json:"-"`
	PublicID  string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CardCount is populated on list reads; Cards on full reads.
	CardCount int         `json:"card_count"`
	Cards     []Flashcard `json:"cards,omitempty"`
}

// Set sources.
const (
	SourceCSV    = "csv"
	SourceCustom = "custom"
)
