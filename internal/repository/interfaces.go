// Package repository defines the persistence contracts for stored flashcard
// sets and export attempts. Implementations live in subpackages.
package repository

import (
	"context"

	"github.com/lmeyer/ankiforge/internal/models"
)

// SetRepository stores flashcard sets and their cards. Card order is
// significant: positions are 1-based and contiguous, and every read returns
// cards in position order so user-facing indices stay consistent between
// validation, statistics and edits.
type SetRepository interface {
	// Insert stores a set together with its cards and returns the row id.
	Insert(ctx context.Context, set *models.FlashcardSet) (int64, error)
	// GetByPublicID loads a set and its cards.
	GetByPublicID(ctx context.Context, publicID string) (*models.FlashcardSet, error)
	// GetByID loads a set and its cards by row id.
	GetByID(ctx context.Context, id int64) (*models.FlashcardSet, error)
	// List returns set metadata (no cards) with card counts, newest first.
	List(ctx context.Context) ([]models.FlashcardSet, error)
	// ReplaceCards swaps a set's cards for a new ordered list.
	ReplaceCards(ctx context.Context, setID int64, cards []models.Flashcard) error
	// Delete removes a set; cards and exports cascade.
	Delete(ctx context.Context, id int64) error
}

// ExportRepository stores package-build attempts and their results.
type ExportRepository interface {
	Insert(ctx context.Context, export *models.Export) (int64, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Export, error)
	ListBySet(ctx context.Context, setID int64) ([]models.Export, error)
	// MarkCompleted stores the finished archive bytes.
	MarkCompleted(ctx context.Context, id int64, data []byte) error
	// MarkFailed records the terminal failure cause.
	MarkFailed(ctx context.Context, id int64, cause string) error
}
