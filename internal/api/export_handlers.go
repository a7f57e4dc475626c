package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lmeyer/ankiforge/internal/errors"
	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
)

func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	setID := chi.URLParam(r, "id")

	export, err := s.ExportService.Enqueue(r.Context(), setID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("queued export %s for set %s", export.PublicID, setID)
	respondJSON(w, http.StatusAccepted, export)
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := s.ExportService.ListForSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exports": exports})
}

func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.ExportService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, export)
}

func (s *Server) handleDownloadExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	export, err := s.ExportService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	switch export.Status {
	case models.ExportPending:
		handleError(w, r, errors.NewConflictError("export is still building"))
		return
	case models.ExportFailed:
		handleError(w, r, errors.NewConflictError("export failed: "+export.Error))
		return
	}
	if len(export.Data) == 0 {
		handleError(w, r, errors.NewNotFoundError("export archive", id))
		return
	}

	w.Header().Set("Content-Type", "application/apkg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeHeaderValue(export.Filename)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
