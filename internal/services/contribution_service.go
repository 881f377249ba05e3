package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/storage"
)

// ContributionStore persists user corrections and their moderation state.
type ContributionStore interface {
	Submit(ctx context.Context, req *models.SubmitContributionRequest) (*models.Contribution, error)
	// ListRecent returns up to limit contributions, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Contribution, error)
	ListByStatus(ctx context.Context, status models.ContributionStatus, limit int) ([]models.Contribution, error)
	Get(ctx context.Context, id string) (*models.Contribution, error)
	// Moderate moves a pending contribution to approved or rejected. Both are terminal.
	Moderate(ctx context.Context, id string, req *models.ModerationRequest) (*models.Contribution, error)
}

// FileContributionStore keeps one JSON file per contribution. File names start
// with the submission timestamp, so directory order is submission order.
type FileContributionStore struct {
	mu     sync.Mutex
	dir    *storage.RecordDir
	logger *zap.Logger
	now    func() time.Time
}

func NewFileContributionStore(dataDir string, logger *zap.Logger) (*FileContributionStore, error) {
	dir, err := storage.NewRecordDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileContributionStore{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (s *FileContributionStore) Submit(ctx context.Context, req *models.SubmitContributionRequest) (*models.Contribution, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	c := newContribution(req, s.now())
	c.ID = contributionID(c.SubmittedAt)

	if err := s.dir.Write(c.ID, c); err != nil {
		s.logger.Error("failed to write contribution", zap.String("id", c.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: write contribution: %v", ErrStorage, err)
	}

	s.logger.Info("contribution submitted", zap.String("id", c.ID))
	return c, nil
}

func (s *FileContributionStore) ListRecent(ctx context.Context, limit int) ([]models.Contribution, error) {
	return s.list(ctx, limit, func(*models.Contribution) bool { return true })
}

func (s *FileContributionStore) ListByStatus(ctx context.Context, status models.ContributionStatus, limit int) ([]models.Contribution, error) {
	return s.list(ctx, limit, func(c *models.Contribution) bool { return c.Status == status })
}

func (s *FileContributionStore) list(ctx context.Context, limit int, keep func(*models.Contribution) bool) ([]models.Contribution, error) {
	out := make([]models.Contribution, 0)
	if limit <= 0 {
		return out, nil
	}

	names, err := s.dir.List()
	if err != nil {
		return nil, fmt.Errorf("%w: list contributions: %v", ErrStorage, err)
	}

	for i := len(names) - 1; i >= 0 && len(out) < limit; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var c models.Contribution
		if err := s.dir.Read(names[i], &c); err != nil {
			s.logger.Warn("skipping unreadable contribution", zap.String("id", names[i]), zap.Error(err))
			continue
		}
		c.ID = names[i]
		normalizeContribution(&c)
		if keep(&c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *FileContributionStore) Get(ctx context.Context, id string) (*models.Contribution, error) {
	c, err := s.read(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *FileContributionStore) Moderate(ctx context.Context, id string, req *models.ModerationRequest) (*models.Contribution, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := applyModeration(c, req, s.now()); err != nil {
		return nil, err
	}
	if err := s.dir.Write(c.ID, c); err != nil {
		return nil, fmt.Errorf("%w: write contribution: %v", ErrStorage, err)
	}

	s.logger.Info("contribution moderated",
		zap.String("id", c.ID),
		zap.String("status", string(c.Status)),
		zap.String("reviewer", c.ReviewerID),
	)
	return c, nil
}

func (s *FileContributionStore) read(id string) (*models.Contribution, error) {
	var c models.Contribution
	if err := s.dir.Read(id, &c); err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return nil, fmt.Errorf("contribution %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read contribution: %v", ErrStorage, err)
	}
	c.ID = id
	normalizeContribution(&c)
	return &c, nil
}

func newContribution(req *models.SubmitContributionRequest, now time.Time) *models.Contribution {
	return &models.Contribution{
		Banglish:    strings.TrimSpace(req.Banglish),
		Bengali:     strings.TrimSpace(req.Bengali),
		Feedback:    strings.TrimSpace(req.Feedback),
		UserID:      req.UserID,
		SubmittedAt: now.UTC(),
		Status:      models.StatusPending,
	}
}

// applyModeration stamps the review onto a pending contribution.
func applyModeration(c *models.Contribution, req *models.ModerationRequest, now time.Time) error {
	if c.Status != models.StatusPending {
		return fmt.Errorf("contribution %q is already %s: %w", c.ID, c.Status, ErrInvalidTransition)
	}
	reviewedAt := now.UTC()
	c.Status = req.Decision
	c.ReviewerID = req.ReviewerID
	c.ReviewedAt = &reviewedAt
	c.ReviewerComment = strings.TrimSpace(req.Comment)
	return nil
}

// Records written before moderation existed carry no status.
func normalizeContribution(c *models.Contribution) {
	if c.Status == "" {
		c.Status = models.StatusPending
	}
}

// contributionID is a filesystem-safe timestamp plus a short random suffix,
// e.g. 20261015T103000_123456789Z_1a2b3c4d.
func contributionID(t time.Time) string {
	ts := strings.ReplaceAll(t.UTC().Format("20060102T150405.000000000Z"), ".", "_")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return ts + "_" + suffix
}
