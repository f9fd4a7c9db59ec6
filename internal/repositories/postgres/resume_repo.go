package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yoockh/cvcraft/internal/models"
	"github.com/yoockh/cvcraft/internal/utils"
)

// ResumeRepository scopes every read and write by owner; a row owned by
// someone else is indistinguishable from a missing one.
type ResumeRepository interface {
	Create(ctx context.Context, r *models.Resume) error
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.Resume, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Resume, error)
	UpdateData(ctx context.Context, id, userID string, data datatypes.JSON, lastUpdated time.Time) error
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Create(ctx context.Context, row *models.Resume) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *resumeRepo) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.Resume, error) {
	var row models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resumeRepo) ListByOwner(ctx context.Context, userID string) ([]models.Resume, error) {
	rows := []models.Resume{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) UpdateData(ctx context.Context, id, userID string, data datatypes.JSON, lastUpdated time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"data":         data,
			"last_updated": lastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
