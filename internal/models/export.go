package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExportRecord is one successful PDF export, kept for ExportRetention.
type ExportRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResumeID string             `bson:"resume_id" json:"resume_id"`
	UserID   string             `bson:"user_id" json:"user_id"`
	Template string             `bson:"template" json:"template"`
	Filename string             `bson:"filename" json:"filename"`
	Bytes    int                `bson:"bytes" json:"bytes"`

	DurationMs int64 `bson:"duration_ms" json:"duration_ms"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"` // TTL index
}

const ExportRetention = 30 * 24 * time.Hour
