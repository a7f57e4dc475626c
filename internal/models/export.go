package models

import "time"

// Export statuses.
const (
	ExportPending   = "pending"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// Export is one attempt at packaging a flashcard set into an .apkg archive.
// Data is populated only once Status is ExportCompleted.
type Export struct {
	ID        int64     `json:"-"`
	PublicID  string    `json:"id"`
	SetID     int64     `json:"-"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
