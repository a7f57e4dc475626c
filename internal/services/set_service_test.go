package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lmeyer/ankiforge/internal/errors"
	"github.com/lmeyer/ankiforge/internal/models"
	"github.com/lmeyer/ankiforge/internal/repository/sqlite"
	"github.com/lmeyer/ankiforge/internal/services"
	"github.com/lmeyer/ankiforge/internal/testutil"
)

type SetServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc services.SetService
}

func (s *SetServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewSetService(sqlite.NewSetRepository(s.db))
}

func (s *SetServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

const sampleCSV = "Topic,Question,Answer\n" +
	"Math,What is 2+2?,4\n" +
	"Math,\"What is \"\"pi\"\"?\",About 3.14159\n" +
	"History,Who discovered America?,Columbus\n"

func (s *SetServiceSuite) TestCreateFromCSV() {
	set, err := s.svc.CreateFromCSV(context.Background(), "Study Session", sampleCSV)
	s.Require().NoError(err)
	s.Require().NotNil(set)

	s.Assert().Equal("Study Session", set.Name)
	s.Assert().Equal(models.SourceCSV, set.Source)
	s.Assert().NotEmpty(set.PublicID)
	s.Require().Equal(3, set.CardCount)
	s.Assert().Equal(`What is "pi"?`, set.Cards[1].Question)
}

func (s *SetServiceSuite) TestCreateFromCSVEmptyInputIsNoop() {
	set, err := s.svc.CreateFromCSV(context.Background(), "x", "   \n  ")
	s.Require().NoError(err)
	s.Assert().Nil(set)
}

func (s *SetServiceSuite) TestCreateFromCSVNoUsableLines() {
	_, err := s.svc.CreateFromCSV(context.Background(), "x", "just one field\nanother,two")
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeBadRequest, appErr.Code)
}

func (s *SetServiceSuite) TestCreateDefaultsName() {
	set, err := s.svc.CreateFromCSV(context.Background(), "  ", sampleCSV)
	s.Require().NoError(err)
	s.Assert().Equal("Chat Flashcards", set.Name)
}

func (s *SetServiceSuite) TestCreateFromCards() {
	cards := []models.Flashcard{
		{Topic: "Go", Question: "What is a goroutine?", Answer: "A lightweight thread"},
	}
	set, err := s.svc.CreateFromCards(context.Background(), "Custom Deck", cards)
	s.Require().NoError(err)
	s.Assert().Equal(models.SourceCustom, set.Source)
	s.Assert().Equal(1, set.CardCount)
}

func (s *SetServiceSuite) TestGetNotFound() {
	_, err := s.svc.Get(context.Background(), "missing")
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *SetServiceSuite) TestListAndDelete() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	sets, err := s.svc.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(sets, 1)
	s.Assert().Equal(3, sets[0].CardCount)

	s.Require().NoError(s.svc.Delete(ctx, set.PublicID))

	sets, err = s.svc.List(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(sets)
}

func (s *SetServiceSuite) TestUpdateCard() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	updated, err := s.svc.UpdateCard(ctx, set.PublicID, 2, models.Flashcard{
		Topic:    "Math",
		Question: "What is pi, roughly?",
		Answer:   "3.14",
	})
	s.Require().NoError(err)
	s.Assert().Equal("What is pi, roughly?", updated.Cards[1].Question)

	// The change is persisted, not just reflected in the return value.
	got, err := s.svc.Get(ctx, set.PublicID)
	s.Require().NoError(err)
	s.Assert().Equal("3.14", got.Cards[1].Answer)
}

func (s *SetServiceSuite) TestUpdateCardRejectsEmptyFields() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	_, err = s.svc.UpdateCard(ctx, set.PublicID, 1, models.Flashcard{Question: " ", Answer: "x"})
	s.Require().Error(err)
	_, err = s.svc.UpdateCard(ctx, set.PublicID, 1, models.Flashcard{Question: "x", Answer: ""})
	s.Require().Error(err)
}

func (s *SetServiceSuite) TestUpdateCardOutOfRange() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	_, err = s.svc.UpdateCard(ctx, set.PublicID, 4, models.Flashcard{Question: "q", Answer: "a"})
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *SetServiceSuite) TestDeleteCard() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	setDeleted, err := s.svc.DeleteCard(ctx, set.PublicID, 1)
	s.Require().NoError(err)
	s.Assert().False(setDeleted)

	got, err := s.svc.Get(ctx, set.PublicID)
	s.Require().NoError(err)
	s.Require().Len(got.Cards, 2)
	s.Assert().Equal(`What is "pi"?`, got.Cards[0].Question)
}

func (s *SetServiceSuite) TestDeleteLastCardRemovesSet() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCards(ctx, "Tiny", []models.Flashcard{
		{Question: "q", Answer: "a"},
	})
	s.Require().NoError(err)

	setDeleted, err := s.svc.DeleteCard(ctx, set.PublicID, 1)
	s.Require().NoError(err)
	s.Assert().True(setDeleted)

	_, err = s.svc.Get(ctx, set.PublicID)
	s.Require().Error(err)
}

func (s *SetServiceSuite) TestValidateAndStats() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "One", sampleCSV)
	s.Require().NoError(err)

	result, err := s.svc.Validate(ctx, set.PublicID)
	s.Require().NoError(err)
	s.Assert().True(result.Valid)
	s.Assert().Empty(result.Errors)

	stats, err := s.svc.Stats(ctx, set.PublicID)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalCards)
	s.Assert().Equal([]string{"Math", "History"}, stats.Topics)
	s.Assert().Equal(2, stats.TopicCounts["Math"])
}

func (s *SetServiceSuite) TestCSVDownloadRoundTrips() {
	ctx := context.Background()
	set, err := s.svc.CreateFromCSV(ctx, "My Deck", sampleCSV)
	s.Require().NoError(err)

	filename, data, err := s.svc.CSVDownload(ctx, set.PublicID)
	s.Require().NoError(err)
	s.Assert().Equal("My_Deck.csv", filename)

	// Feeding the download back in reproduces the same cards.
	again, err := s.svc.CreateFromCSV(ctx, "Again", string(data))
	s.Require().NoError(err)
	s.Require().Equal(3, again.CardCount)
	s.Assert().Equal(set.Cards[1].Question, again.Cards[1].Question)
}

func TestSetServiceSuite(t *testing.T) {
	suite.Run(t, new(SetServiceSuite))
}
