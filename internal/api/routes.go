package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/sets", func(r chi.Router) {
		r.Post("/", s.handleCreateSet)
		r.Get("/", s.handleListSets)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSet)
			r.Delete("/", s.handleDeleteSet)
			r.Put("/cards/{pos}", s.handleUpdateCard)
			r.Delete("/cards/{pos}", s.handleDeleteCard)
			r.Post("/validate", s.handleValidateSet)
			r.Get("/stats", s.handleSetStats)
			r.Get("/csv", s.handleSetCSV)
			r.Post("/exports", s.handleCreateExport)
			r.Get("/exports", s.handleListExports)
		})
	})

	r.Get("/exports/{id}", s.handleGetExport)
	r.Get("/exports/{id}/download", s.handleDownloadExport)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	return r
}
