package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lmeyer/ankiforge/internal/anki"
	"github.com/lmeyer/ankiforge/internal/errors"
	"github.com/lmeyer/ankiforge/internal/flashcard"
	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/models"
	"github.com/lmeyer/ankiforge/internal/repository"
	"github.com/lmeyer/ankiforge/internal/worker"
)

// Enqueuer is the submission half of the worker pool; the service depends
// on this rather than the pool itself so tests can run jobs inline.
type Enqueuer interface {
	TrySubmit(job worker.Job) bool
}

// ExportService handles package-build business logic
type ExportService interface {
	// Enqueue validates the set, records a pending export and queues the
	// build. The returned export carries the public id to poll on.
	Enqueue(ctx context.Context, setPublicID string) (*models.Export, error)
	Get(ctx context.Context, exportPublicID string) (*models.Export, error)
	ListForSet(ctx context.Context, setPublicID string) ([]models.Export, error)
	// BuildArchive runs the full build pipeline for a pending export. It is
	// invoked from the worker job; failures are terminal for the attempt.
	BuildArchive(ctx context.Context, exportID int64, setID int64) error
}

type exportService struct {
	sets    repository.SetRepository
	exports repository.ExportRepository
	pool    Enqueuer
	setSvc  SetService
}

// NewExportService creates a new ExportService
func NewExportService(sets repository.SetRepository, exports repository.ExportRepository, pool Enqueuer, setSvc SetService) ExportService {
	return &exportService{sets: sets, exports: exports, pool: pool, setSvc: setSvc}
}

type buildJob struct {
	svc      *exportService
	exportID int64
	setID    int64
}

func (j *buildJob) Name() string { return "build_package" }

func (j *buildJob) Run(ctx context.Context) error {
	return j.svc.BuildArchive(ctx, j.exportID, j.setID)
}

func (s *exportService) Enqueue(ctx context.Context, setPublicID string) (*models.Export, error) {
	log := logger.FromContext(ctx)

	set, err := s.setSvc.Get(ctx, setPublicID)
	if err != nil {
		return nil, err
	}

	// Reject early: queueing a build that is guaranteed to fail only hides
	// the itemized messages from the user.
	if result := flashcard.Validate(set.Cards); !result.Valid {
		return nil, errors.NewValidationError("flashcards", joinLines(result.Errors))
	}

	publicID, err := gonanoid.New(publicIDSize)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	export := &models.Export{
		PublicID: "exp_" + publicID,
		SetID:    set.ID,
		Filename: anki.ArchiveFilename(set.Name, time.Now()),
		Status:   models.ExportPending,
	}
	if export.ID, err = s.exports.Insert(ctx, export); err != nil {
		return nil, errors.NewInternalError(err)
	}

	job := &buildJob{svc: s, exportID: export.ID, setID: set.ID}
	if !s.pool.TrySubmit(job) {
		// Leave a failed record rather than a pending one that will never run.
		_ = s.exports.MarkFailed(ctx, export.ID, "export queue full")
		return nil, errors.NewUnavailableError("export queue", nil)
	}

	log.Info("queued export %s for set %s", export.PublicID, setPublicID)
	return export, nil
}

func (s *exportService) Get(ctx context.Context, exportPublicID string) (*models.Export, error) {
	export, err := s.exports.GetByPublicID(ctx, exportPublicID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("export", exportPublicID)
		}
		return nil, errors.NewInternalError(err)
	}
	return export, nil
}

func (s *exportService) ListForSet(ctx context.Context, setPublicID string) ([]models.Export, error) {
	set, err := s.setSvc.Get(ctx, setPublicID)
	if err != nil {
		return nil, err
	}
	exports, err := s.exports.ListBySet(ctx, set.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return exports, nil
}

func (s *exportService) BuildArchive(ctx context.Context, exportID int64, setID int64) error {
	log := logger.FromContext(ctx).WithField("export_id", exportID)

	fail := func(cause error) error {
		log.Error("export failed: %v", cause)
		if err := s.exports.MarkFailed(ctx, exportID, cause.Error()); err != nil {
			return err
		}
		return cause
	}

	// Re-fetch inside the job: the set may have been edited between
	// enqueue and execution, and a build always reflects stored state.
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return fail(err)
	}

	pkg, err := anki.NewBuilder().Build(set.Cards)
	if err != nil {
		return fail(err)
	}
	data, err := anki.Serialize(pkg)
	if err != nil {
		return fail(err)
	}

	if err := s.exports.MarkCompleted(ctx, exportID, data); err != nil {
		log.Error("failed to store archive: %v", err)
		return err
	}
	log.Info("export completed: %d decks, %d notes, %d bytes", len(pkg.Decks), pkg.NoteCount(), len(data))
	return nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "; ")
}
