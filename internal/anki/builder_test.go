package anki_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeyer/ankiforge/internal/anki"
	"github.com/lmeyer/ankiforge/internal/media"
	"github.com/lmeyer/ankiforge/internal/models"
)

func testBuilder() *anki.Builder {
	// Fixed seeds keep deck ids assertable.
	return &anki.Builder{ModelID: 1700000000000, BaseDeckID: 1700000000001}
}

func TestBuild_GroupsByTopicFirstSeenOrder(t *testing.T) {
	cards := []models.Flashcard{
		{Topic: "A", Question: "q1", Answer: "a1"},
		{Topic: "B", Question: "q2", Answer: "a2"},
		{Topic: "A", Question: "q3", Answer: "a3"},
	}

	pkg, err := testBuilder().Build(cards)
	require.NoError(t, err)

	require.Len(t, pkg.Decks, 2)
	assert.Equal(t, "A", pkg.Decks[0].Name)
	assert.Equal(t, "B", pkg.Decks[1].Name)
	assert.Len(t, pkg.Decks[0].Notes, 2)
	assert.Len(t, pkg.Decks[1].Notes, 1)

	// Note order within a deck follows input order.
	assert.Equal(t, "q1", pkg.Decks[0].Notes[0].Fields[1])
	assert.Equal(t, "q3", pkg.Decks[0].Notes[1].Fields[1])
}

func TestBuild_DeckIDsDeterministic(t *testing.T) {
	cards := []models.Flashcard{
		{Topic: "A", Question: "q", Answer: "a"},
		{Topic: "B", Question: "q", Answer: "a"},
	}

	first, err := testBuilder().Build(cards)
	require.NoError(t, err)
	second, err := testBuilder().Build(cards)
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000002), first.Decks[0].ID)
	assert.Equal(t, int64(1700000000003), first.Decks[1].ID)
	assert.Equal(t, first.Decks[0].ID, second.Decks[0].ID)
	assert.NotEqual(t, first.Decks[0].ID, first.Decks[1].ID)
}

func TestBuild_EmptyTopicUsesDefault(t *testing.T) {
	pkg, err := testBuilder().Build([]models.Flashcard{
		{Question: "q", Answer: "a"},
	})
	require.NoError(t, err)
	require.Len(t, pkg.Decks, 1)
	assert.Equal(t, "General", pkg.Decks[0].Name)
	assert.Equal(t, "General", pkg.Decks[0].Notes[0].Fields[0])
}

func TestBuild_Tags(t *testing.T) {
	pkg, err := testBuilder().Build([]models.Flashcard{
		{Topic: "World History", Question: "q", Answer: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ankiforge", "flashcard", "world history"}, pkg.Decks[0].Notes[0].Tags)
}

func TestBuild_RejectsEmptyInput(t *testing.T) {
	_, err := testBuilder().Build(nil)
	assert.ErrorIs(t, err, anki.ErrNoFlashcards)
}

func TestBuild_RejectsInvalidRecords(t *testing.T) {
	_, err := testBuilder().Build([]models.Flashcard{
		{Topic: "X", Question: "", Answer: "4"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card 1")
}

func TestBuild_MediaAugmentation(t *testing.T) {
	img := media.Encode("pic.png", "image/png", []byte{1, 2, 3})
	audio := media.Encode("clip.mp3", "audio/mp3", []byte{4, 5, 6})

	pkg, err := testBuilder().Build([]models.Flashcard{
		{
			Topic:      "Media",
			Question:   "q",
			Answer:     "a",
			FrontImage: &img,
			Audio:      &audio,
		},
	})
	require.NoError(t, err)

	require.Len(t, pkg.Media, 2)
	assert.Equal(t, "front_image_0_0_0.png", pkg.Media[0].Name)
	assert.Equal(t, "back_audio_0_0_1.mp3", pkg.Media[1].Name)
	assert.Equal(t, []byte{1, 2, 3}, pkg.Media[0].Data)

	note := pkg.Decks[0].Notes[0]
	assert.Equal(t, `q<br><img src="front_image_0_0_0.png">`, note.Fields[1])
	assert.Equal(t, "a<br>[sound:back_audio_0_0_1.mp3]", note.Fields[2])
}

func TestBuild_MediaFilenamesUniqueAcrossDecks(t *testing.T) {
	mk := func(topic string) models.Flashcard {
		img := media.Encode("p.png", "image/png", []byte{1})
		audio := media.Encode("a.mp3", "audio/mp3", []byte{2})
		return models.Flashcard{Topic: topic, Question: "q", Answer: "a", FrontImage: &img, Audio: &audio}
	}

	cards := []models.Flashcard{mk("A"), mk("B"), mk("A"), mk("B")}
	pkg, err := testBuilder().Build(cards)
	require.NoError(t, err)

	require.Len(t, pkg.Media, 2*len(cards))
	seen := map[string]bool{}
	for _, mf := range pkg.Media {
		assert.False(t, seen[mf.Name], "duplicate media filename %s", mf.Name)
		seen[mf.Name] = true
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	img := media.Encode("pic.png", "image/png", []byte{1})
	cards := []models.Flashcard{{Topic: "T", Question: "q", Answer: "a", FrontImage: &img}}

	_, err := testBuilder().Build(cards)
	require.NoError(t, err)

	assert.Equal(t, "q", cards[0].Question)
	assert.Equal(t, "a", cards[0].Answer)
}

func TestNewBuilder_FreshIDNamespaces(t *testing.T) {
	a := anki.NewBuilder()
	assert.Equal(t, a.ModelID+1, a.BaseDeckID)
	assert.Greater(t, a.ModelID, int64(1700000000000))
}
