package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lmeyer/ankiforge/internal/anki"
	"github.com/lmeyer/ankiforge/internal/csvx"
	"github.com/lmeyer/ankiforge/internal/errors"
	"github.com/lmeyer/ankiforge/internal/flashcard"
	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
	"github.com/lmeyer/ankiforge/internal/repository"
)

// publicIDSize keeps set/export ids short enough for URLs but collision-safe.
const publicIDSize = 12

// SetService handles stored flashcard set business logic
type SetService interface {
	// CreateFromCSV parses a raw dialect block and stores the result.
	// Empty input is "nothing to process": it returns nil with no error.
	CreateFromCSV(ctx context.Context, name, csvText string) (*models.FlashcardSet, error)
	// CreateFromCards stores hand-authored records directly.
	CreateFromCards(ctx context.Context, name string, cards []models.Flashcard) (*models.FlashcardSet, error)
	Get(ctx context.Context, publicID string) (*models.FlashcardSet, error)
	List(ctx context.Context) ([]models.FlashcardSet, error)
	Delete(ctx context.Context, publicID string) error
	// UpdateCard replaces the card at a 1-based position.
	UpdateCard(ctx context.Context, publicID string, position int, card models.Flashcard) (*models.FlashcardSet, error)
	// DeleteCard removes the card at a 1-based position. Removing the last
	// card deletes the whole set; the returned flag reports that.
	DeleteCard(ctx context.Context, publicID string, position int) (setDeleted bool, err error)
	Validate(ctx context.Context, publicID string) (flashcard.ValidationResult, error)
	Stats(ctx context.Context, publicID string) (flashcard.Statistics, error)
	// CSVDownload re-serializes a set through the codec as a .csv fallback.
	CSVDownload(ctx context.Context, publicID string) (filename string, data []byte, err error)
}

type setService struct {
	sets repository.SetRepository
}

// NewSetService creates a new SetService
func NewSetService(sets repository.SetRepository) SetService {
	return &setService{sets: sets}
}

func (s *setService) CreateFromCSV(ctx context.Context, name, csvText string) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(csvText) == "" {
		log.Debug("empty csv input, nothing to process")
		return nil, nil
	}

	cards := csvx.ParseRecords(csvText)
	if len(cards) == 0 {
		return nil, errors.NewBadRequestError("no flashcard lines found in input")
	}
	log.Debug("parsed %d cards from csv input", len(cards))

	return s.create(ctx, name, models.SourceCSV, cards)
}

func (s *setService) CreateFromCards(ctx context.Context, name string, cards []models.Flashcard) (*models.FlashcardSet, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	return s.create(ctx, name, models.SourceCustom, cards)
}

func (s *setService) create(ctx context.Context, name, source string, cards []models.Flashcard) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(name) == "" {
		name = "Chat Flashcards"
	}

	publicID, err := gonanoid.New(publicIDSize)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	set := &models.FlashcardSet{
		PublicID: publicID,
		Name:     name,
		Source:   source,
		Cards:    cards,
	}
	if set.ID, err = s.sets.Insert(ctx, set); err != nil {
		log.Error("failed to store set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	set.CardCount = len(cards)

	log.Info("stored flashcard set %s (%d cards)", publicID, len(cards))
	return set, nil
}

func (s *setService) Get(ctx context.Context, publicID string) (*models.FlashcardSet, error) {
	set, err := s.sets.GetByPublicID(ctx, publicID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("flashcard set", publicID)
		}
		return nil, errors.NewInternalError(err)
	}
	return set, nil
}

func (s *setService) List(ctx context.Context) ([]models.FlashcardSet, error) {
	sets, err := s.sets.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return sets, nil
}

func (s *setService) Delete(ctx context.Context, publicID string) error {
	set, err := s.Get(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.sets.Delete(ctx, set.ID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("flashcard set", publicID)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *setService) UpdateCard(ctx context.Context, publicID string, position int, card models.Flashcard) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(card.Question) == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if strings.TrimSpace(card.Answer) == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	set, err := s.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(set.Cards) {
		return nil, errors.NewNotFoundError("card", position)
	}

	set.Cards[position-1] = card
	if err := s.sets.ReplaceCards(ctx, set.ID, set.Cards); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("updated card %d in set %s", position, publicID)
	return set, nil
}

func (s *setService) DeleteCard(ctx context.Context, publicID string, position int) (bool, error) {
	log := logger.FromContext(ctx)

	set, err := s.Get(ctx, publicID)
	if err != nil {
		return false, err
	}
	if position < 1 || position > len(set.Cards) {
		return false, errors.NewNotFoundError("card", position)
	}

	remaining := append(set.Cards[:position-1:position-1], set.Cards[position:]...)
	if len(remaining) == 0 {
		// No dangling empty sets.
		log.Info("deleting set %s, last card removed", publicID)
		if err := s.sets.Delete(ctx, set.ID); err != nil {
			return false, errors.NewInternalError(err)
		}
		return true, nil
	}

	if err := s.sets.ReplaceCards(ctx, set.ID, remaining); err != nil {
		log.Error("failed to delete card: %v", err)
		return false, errors.NewInternalError(err)
	}
	log.Info("deleted card %d from set %s", position, publicID)
	return false, nil
}

func (s *setService) Validate(ctx context.Context, publicID string) (flashcard.ValidationResult, error) {
	set, err := s.Get(ctx, publicID)
	if err != nil {
		return flashcard.ValidationResult{}, err
	}
	return flashcard.Validate(set.Cards), nil
}

func (s *setService) Stats(ctx context.Context, publicID string) (flashcard.Statistics, error) {
	set, err := s.Get(ctx, publicID)
	if err != nil {
		return flashcard.Statistics{}, err
	}
	return flashcard.Stats(set.Cards), nil
}

func (s *setService) CSVDownload(ctx context.Context, publicID string) (string, []byte, error) {
	set, err := s.Get(ctx, publicID)
	if err != nil {
		return "", nil, err
	}
	block := csvx.WriteRecords(set.Cards, true)
	return anki.CSVFilename(set.Name), []byte(block), nil
}
