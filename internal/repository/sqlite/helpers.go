package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// attachmentColumn marshals an optional attachment for a JSON text column.
func attachmentColumn(att *models.MediaAttachment) (sql.NullString, error) {
	if att == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(att)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// scanAttachment unmarshals an optional attachment column.
func scanAttachment(col sql.NullString) (*models.MediaAttachment, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var att models.MediaAttachment
	if err := json.Unmarshal([]byte(col.String), &att); err != nil {
		return nil, err
	}
	return &att, nil
}
