package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
	"github.com/lmeyer/ankiforge/internal/repository"
)

type exportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository implementation
func NewExportRepository(db *sql.DB) repository.ExportRepository {
	return &exportRepository{db: db}
}

func (r *exportRepository) Insert(ctx context.Context, export *models.Export) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	log.Debug("inserting export: set_id=%d, filename=%s", export.SetID, export.Filename)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO exports (public_id, set_id, filename, status)
VALUES (?, ?, ?, ?)
`, export.PublicID, export.SetID, export.Filename, export.Status)
	if err != nil {
		log.Error("failed to insert export: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get export id: %v", err)
		return 0, err
	}
	log.Debug("export inserted: id=%d", id)
	return id, nil
}

func (r *exportRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Export, error) {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	log.Debug("getting export: public_id=%s", publicID)

	var e models.Export
	var data []byte
	var errMsg string
	err := r.db.QueryRowContext(ctx, `
SELECT id, public_id, set_id, filename, status, error, data, created_at, updated_at
FROM exports
WHERE public_id = ?
`, publicID).Scan(&e.ID, &e.PublicID, &e.SetID, &e.Filename, &e.Status, &errMsg, &data, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("export not found: public_id=%s", publicID)
		} else {
			log.Error("failed to get export: %v", err)
		}
		return nil, err
	}
	e.Error = errMsg
	e.Data = data
	return &e, nil
}

func (r *exportRepository) ListBySet(ctx context.Context, setID int64) ([]models.Export, error) {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	log.Debug("listing exports: set_id=%d", setID)

	// Archive bytes are deliberately not selected; listings stay small.
	query, args, err := sqlBuilder.
		Select("id", "public_id", "set_id", "filename", "status", "error", "created_at", "updated_at").
		From("exports").
		Where(squirrel.Eq{"set_id": setID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list exports: %v", err)
		return nil, err
	}
	defer rows.Close()

	var exports []models.Export
	for rows.Next() {
		var e models.Export
		if err := rows.Scan(&e.ID, &e.PublicID, &e.SetID, &e.Filename, &e.Status, &e.Error, &e.CreatedAt, &e.UpdatedAt); err != nil {
			log.Error("failed to scan export row: %v", err)
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

func (r *exportRepository) MarkCompleted(ctx context.Context, id int64, data []byte) error {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	log.Debug("marking export completed: id=%d, bytes=%d", id, len(data))

	_, err := r.db.ExecContext(ctx, `
UPDATE exports
SET status = ?, data = ?, error = '', updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, models.ExportCompleted, data, id)
	if err != nil {
		log.Error("failed to mark export completed: %v", err)
	}
	return err
}

func (r *exportRepository) MarkFailed(ctx context.Context, id int64, cause string) error {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	log.Debug("marking export failed: id=%d, cause=%s", id, cause)

	_, err := r.db.ExecContext(ctx, `
UPDATE exports
SET status = ?, error = ?, data = NULL, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, models.ExportFailed, cause, id)
	if err != nil {
		log.Error("failed to mark export failed: %v", err)
	}
	return err
}
