package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lmeyer/ankiforge/internal/errors"
	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
)

type createSetRequest struct {
	Name  string             `json:"name"`
	CSV   string             `json:"csv,omitempty"`
	Cards []models.Flashcard `json:"cards,omitempty"`
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createSetRequest
	if err := decodeJSON(w, r, &req, s.MaxCSVBytes+s.MaxMediaBytes); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CSV != "" && len(req.Cards) > 0 {
		handleError(w, r, errors.NewBadRequestError("provide either csv or cards, not both"))
		return
	}
	if len(req.CSV) > s.MaxCSVBytes {
		handleError(w, r, errors.NewBadRequestError("csv payload too large"))
		return
	}

	var (
		set *models.FlashcardSet
		err error
	)
	if len(req.Cards) > 0 {
		set, err = s.SetService.CreateFromCards(r.Context(), req.Name, req.Cards)
	} else {
		set, err = s.SetService.CreateFromCSV(r.Context(), req.Name, req.CSV)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	if set == nil {
		// Empty CSV input parses to nothing; there is no set to create.
		handleError(w, r, errors.NewBadRequestError("no flashcards found in input"))
		return
	}

	log.Info("created set %s with %d cards", set.PublicID, set.CardCount)
	respondJSON(w, http.StatusCreated, set)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.SetService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sets": sets})
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.SetService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.SetService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deleted set %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	pos, err := positionParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var card models.Flashcard
	if err := decodeJSON(w, r, &card, s.MaxMediaBytes); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.UpdateCard(r.Context(), id, pos, card)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("updated card %d in set %s", pos, id)
	respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	pos, err := positionParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setDeleted, err := s.SetService.DeleteCard(r.Context(), id, pos)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if setDeleted {
		log.Info("deleted last card of set %s, set removed", id)
	} else {
		log.Info("deleted card %d from set %s", pos, id)
	}
	respondJSON(w, http.StatusOK, map[string]any{"set_deleted": setDeleted})
}

func (s *Server) handleValidateSet(w http.ResponseWriter, r *http.Request) {
	result, err := s.SetService.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.SetService.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSetCSV(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.SetService.CSVDownload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeHeaderValue(filename)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sanitizeHeaderValue strips characters that would break a header line.
func sanitizeHeaderValue(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == '"' {
			return -1
		}
		return r
	}, v)
}
