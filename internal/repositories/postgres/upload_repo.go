package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yoockh/cvcraft/internal/models"
)

type UploadRepository interface {
	Insert(ctx context.Context, u *models.Upload) error
}

type uploadRepo struct {
	db *gorm.DB
}

func NewUploadRepo(db *gorm.DB) UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) Insert(ctx context.Context, u *models.Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}
