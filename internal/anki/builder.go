package anki

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lmeyer/ankiforge/internal/flashcard"
	"github.com/lmeyer/ankiforge/internal/media"
	"github.com/lmeyer/ankiforge/internal/models"
)

// ErrNoFlashcards is returned when a build is attempted with no input.
var ErrNoFlashcards = errors.New("no flashcards to build")

// Builder assembles a Package from flashcard records. Each Builder carries
// its own id seeds so concurrent builds never share an id namespace.
type Builder struct {
	ModelID    int64
	BaseDeckID int64
}

// NewBuilder seeds model and deck ids from wall-clock time, keeping them
// clear of anything already in a user's collection.
func NewBuilder() *Builder {
	now := time.Now().UnixMilli()
	return &Builder{ModelID: now, BaseDeckID: now + 1}
}

// Build groups flashcards into per-topic decks and renders their notes.
// Invalid input fails the whole build; no partial graph is ever returned.
func (b *Builder) Build(cards []models.Flashcard) (*Package, error) {
	if len(cards) == 0 {
		return nil, ErrNoFlashcards
	}
	if result := flashcard.Validate(cards); !result.Valid {
		return nil, fmt.Errorf("invalid flashcards: %s", strings.Join(result.Errors, "; "))
	}

	// Group by topic, preserving first-seen topic order so deck ids are
	// deterministic for a given input order.
	var topics []string
	groups := map[string][]models.Flashcard{}
	for _, card := range cards {
		topic := card.TopicOrDefault()
		if _, seen := groups[topic]; !seen {
			topics = append(topics, topic)
		}
		groups[topic] = append(groups[topic], card)
	}

	pkg := &Package{Model: newModel(b.ModelID)}
	var namer media.Namer

	for ord, topic := range topics {
		deck := Deck{
			ID:   b.BaseDeckID + int64(ord) + 1,
			Name: topic,
		}
		for cardIdx, card := range groups[topic] {
			note, err := b.buildNote(pkg, &namer, card, topic, ord, cardIdx)
			if err != nil {
				return nil, err
			}
			deck.Notes = append(deck.Notes, note)
		}
		pkg.Decks = append(pkg.Decks, deck)
	}
	return pkg, nil
}

// buildNote renders one note, staging any attachments into the package and
// appending their markup to the question/answer text. The source record is
// never mutated; augmentation exists only in the rendered fields.
func (b *Builder) buildNote(pkg *Package, namer *media.Namer, card models.Flashcard, topic string, topicIdx, cardIdx int) (Note, error) {
	question := card.Question
	answer := card.Answer

	stage := func(att *models.MediaAttachment, side, kind string) (string, error) {
		data, err := media.Decode(*att)
		if err != nil {
			return "", err
		}
		name := namer.Next(side, kind, topicIdx, cardIdx, att.Type)
		pkg.Media = append(pkg.Media, MediaFile{Name: name, Data: data})
		return name, nil
	}

	if card.FrontImage != nil {
		name, err := stage(card.FrontImage, media.SideFront, media.KindImage)
		if err != nil {
			return Note{}, err
		}
		question += media.ImageHTML(name)
	}
	if card.FrontAudio != nil {
		name, err := stage(card.FrontAudio, media.SideFront, media.KindAudio)
		if err != nil {
			return Note{}, err
		}
		question += media.SoundHTML(name)
	}
	if card.Image != nil {
		name, err := stage(card.Image, media.SideBack, media.KindImage)
		if err != nil {
			return Note{}, err
		}
		answer += media.ImageHTML(name)
	}
	if card.Audio != nil {
		name, err := stage(card.Audio, media.SideBack, media.KindAudio)
		if err != nil {
			return Note{}, err
		}
		answer += media.SoundHTML(name)
	}

	return Note{
		Fields: []string{topic, question, answer},
		Tags:   []string{sourceTag, "flashcard", strings.ToLower(topic)},
	}, nil
}
