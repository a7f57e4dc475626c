package api

import (
	"database/sql"

	"github.com/lmeyer/ankiforge/internal/services"
)

// Server holds the HTTP surface's dependencies.
type Server struct {
	SetService    services.SetService
	ExportService services.ExportService
	DB            *sql.DB

	// Request body limits, from config.
	MaxCSVBytes   int
	MaxMediaBytes int
}
