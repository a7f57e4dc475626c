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

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type setRepository struct {
	db *sql.DB
}

// NewSetRepository creates a new SetRepository implementation
func NewSetRepository(db *sql.DB) repository.SetRepository {
	return &setRepository{db: db}
}

func (r *setRepository) Insert(ctx context.Context, set *models.FlashcardSet) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("inserting set: name=%s, cards=%d", set.Name, len(set.Cards))

	var setID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO sets (public_id, name, source)
VALUES (?, ?, ?)
`, set.PublicID, set.Name, set.Source)
		if err != nil {
			return err
		}
		setID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		return insertCards(ctx, tx, setID, set.Cards)
	})
	if err != nil {
		log.Error("failed to insert set: %v", err)
		return 0, err
	}
	log.Debug("set inserted: id=%d", setID)
	return setID, nil
}

func insertCards(ctx context.Context, tx *sql.Tx, setID int64, cards []models.Flashcard) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (set_id, position, topic, question, answer, front_image, front_audio, back_image, back_audio)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, card := range cards {
		cols := make([]sql.NullString, 4)
		for j, att := range []*models.MediaAttachment{card.FrontImage, card.FrontAudio, card.Image, card.Audio} {
			if cols[j], err = attachmentColumn(att); err != nil {
				return err
			}
		}
		if _, err := stmt.ExecContext(ctx, setID, i+1, card.Topic, card.Question, card.Answer,
			cols[0], cols[1], cols[2], cols[3]); err != nil {
			return err
		}
	}
	return nil
}

func (r *setRepository) GetByPublicID(ctx context.Context, publicID string) (*models.FlashcardSet, error) {
	return r.get(ctx, "public_id", publicID)
}

func (r *setRepository) GetByID(ctx context.Context, id int64) (*models.FlashcardSet, error) {
	return r.get(ctx, "id", id)
}

func (r *setRepository) get(ctx context.Context, column string, key any) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("getting set: %s=%v", column, key)

	query, args, err := sqlBuilder.
		Select("id", "public_id", "name", "source", "created_at", "updated_at").
		From("sets").
		Where(squirrel.Eq{column: key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var set models.FlashcardSet
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&set.ID, &set.PublicID, &set.Name, &set.Source, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("set not found: %s=%v", column, key)
		} else {
			log.Error("failed to get set: %v", err)
		}
		return nil, err
	}

	if set.Cards, err = r.cardsForSet(ctx, set.ID); err != nil {
		log.Error("failed to load cards: %v", err)
		return nil, err
	}
	set.CardCount = len(set.Cards)
	return &set, nil
}

func (r *setRepository) cardsForSet(ctx context.Context, setID int64) ([]models.Flashcard, error) {
	query, args, err := sqlBuilder.
		Select("topic", "question", "answer", "front_image", "front_audio", "back_image", "back_audio").
		From("cards").
		Where(squirrel.Eq{"set_id": setID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var card models.Flashcard
		var cols [4]sql.NullString
		if err := rows.Scan(&card.Topic, &card.Question, &card.Answer, &cols[0], &cols[1], &cols[2], &cols[3]); err != nil {
			return nil, err
		}
		for j, dst := range []**models.MediaAttachment{&card.FrontImage, &card.FrontAudio, &card.Image, &card.Audio} {
			att, err := scanAttachment(cols[j])
			if err != nil {
				return nil, err
			}
			*dst = att
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *setRepository) List(ctx context.Context) ([]models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("listing sets")

	query, args, err := sqlBuilder.
		Select("s.id", "s.public_id", "s.name", "s.source", "s.created_at", "s.updated_at",
			"COUNT(c.id) AS card_count").
		From("sets s").
		LeftJoin("cards c ON c.set_id = s.id").
		GroupBy("s.id").
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sets []models.FlashcardSet
	for rows.Next() {
		var set models.FlashcardSet
		if err := rows.Scan(&set.ID, &set.PublicID, &set.Name, &set.Source, &set.CreatedAt, &set.UpdatedAt, &set.CardCount); err != nil {
			log.Error("failed to scan set row: %v", err)
			return nil, err
		}
		sets = append(sets, set)
	}
	log.Debug("found %d sets", len(sets))
	return sets, rows.Err()
}

func (r *setRepository) ReplaceCards(ctx context.Context, setID int64, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("replacing cards: set_id=%d, cards=%d", setID, len(cards))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE set_id = ?`, setID); err != nil {
			return err
		}
		if err := insertCards(ctx, tx, setID, cards); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE sets SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, setID)
		return err
	})
}

func (r *setRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("deleting set: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete set: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
