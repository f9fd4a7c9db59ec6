package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/yoockh/cvcraft/internal/cache"
	"github.com/yoockh/cvcraft/internal/models"
	pgrepo "github.com/yoockh/cvcraft/internal/repositories/postgres"
	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/utils"
)

type ResumeService interface {
	Create(ctx context.Context, userID, title, description string, data resume.Data) (*models.Resume, error)
	Get(ctx context.Context, resumeID, userID string) (*models.Resume, error)
	List(ctx context.Context, userID string) ([]models.Resume, error)
	Update(ctx context.Context, resumeID, userID string, data resume.Data) (*models.Resume, error)
}

const saveLockTTL = 15 * time.Second

type resumeService struct {
	resumes  pgrepo.ResumeRepository
	cache    cache.Cache
	locker   cache.Locker
	cacheTTL time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

// NewResumeService wires the gateway. c and locker may be nil, which turns
// off read caching and the cross-session save guard.
func NewResumeService(resumes pgrepo.ResumeRepository, c cache.Cache, locker cache.Locker, cacheTTL time.Duration, log *logrus.Logger) ResumeService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &resumeService{
		resumes:  resumes,
		cache:    c,
		locker:   locker,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

// timestamp returns the current time at the precision Postgres stores.
func (s *resumeService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *resumeService) Create(ctx context.Context, userID, title, description string, data resume.Data) (*models.Resume, error) {
	const op = "ResumeService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}

	raw, err := resume.Encode(data)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode resume data", err)
	}

	now := s.timestamp()
	row := &models.Resume{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		UserID:      userID,
		Data:        datatypes.JSON(raw),
		CreatedTime: now,
		LastUpdated: now,
	}
	if err := s.resumes.Create(ctx, row); err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to create resume", err)
	}
	return row, nil
}

func (s *resumeService) Get(ctx context.Context, resumeID, userID string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	key := cache.ResumeKey(userID, resumeID)
	if s.cache != nil {
		var cached models.Resume
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("resume cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	row, err := s.resumes.GetByIDAndOwner(ctx, resumeID, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeUpstream, op, "failed to get resume", err)
	}

	// Fill only an empty slot: an Update that lands between the read above
	// and this write has already cached the newer row.
	if s.cache != nil {
		if _, err := s.cache.AddJSON(ctx, key, row, s.cacheTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("resume cache write failed")
		}
	}
	return row, nil
}

func (s *resumeService) List(ctx context.Context, userID string) ([]models.Resume, error) {
	const op = "ResumeService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	rows, err := s.resumes.ListByOwner(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to list resumes", err)
	}
	return rows, nil
}

// Update replaces data wholesale. The new last_updated is always strictly
// later than the stored one.
func (s *resumeService) Update(ctx context.Context, resumeID, userID string, data resume.Data) (*models.Resume, error) {
	const op = "ResumeService.Update"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	if s.locker != nil {
		unlock, err := s.locker.TryLock(ctx, cache.SaveLockKey(resumeID), saveLockTTL)
		if errors.Is(err, cache.ErrLocked) {
			return nil, utils.E(utils.CodeConflict, op, "save already in progress", err)
		}
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to acquire save lock", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.log.WithError(err).WithField("resume_id", resumeID).Warn("failed to release save lock")
			}
		}()
	}

	current, err := s.resumes.GetByIDAndOwner(ctx, resumeID, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeUpstream, op, "failed to load resume", err)
	}

	raw, err := resume.Encode(data)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode resume data", err)
	}

	next := s.timestamp()
	if !next.After(current.LastUpdated) {
		next = current.LastUpdated.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}

	if err := s.resumes.UpdateData(ctx, resumeID, userID, datatypes.JSON(raw), next); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeUpstream, op, "failed to update resume", err)
	}

	current.Data = datatypes.JSON(raw)
	current.LastUpdated = next

	if s.cache != nil {
		key := cache.ResumeKey(userID, resumeID)
		if err := s.cache.SetJSON(ctx, key, current, s.cacheTTL); err != nil {
			s.log.WithError(err).WithField("resume_id", resumeID).Warn("resume cache refresh failed")
			if err := s.cache.Del(ctx, key); err != nil {
				s.log.WithError(err).WithField("resume_id", resumeID).Warn("resume cache invalidation failed")
			}
		}
	}
	return current, nil
}
