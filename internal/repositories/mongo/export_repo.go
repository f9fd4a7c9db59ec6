package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yoockh/cvcraft/internal/models"
)

const ExportsCollection = "exports"

type ExportRepository interface {
	Insert(ctx context.Context, rec *models.ExportRecord) error
	ListByResume(ctx context.Context, resumeID, userID string, limit int64) ([]models.ExportRecord, error)
}

type exportRepo struct {
	col *mongo.Collection
}

func NewExportRepo(db *mongo.Database) ExportRepository {
	return &exportRepo{col: db.Collection(ExportsCollection)}
}

func (r *exportRepo) Insert(ctx context.Context, rec *models.ExportRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = rec.CreatedAt.Add(models.ExportRetention)
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *exportRepo) ListByResume(ctx context.Context, resumeID, userID string, limit int64) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"resume_id": resumeID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ExportRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
