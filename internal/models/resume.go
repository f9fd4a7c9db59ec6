package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yoockh/cvcraft/internal/resume"
)

type Resume struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"column:title;type:text" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	UserID      string `gorm:"column:user_id;type:text;index" json:"user_id"`

	// canonical encoding of resume.Data
	Data datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`

	CreatedTime time.Time `gorm:"column:created_time;type:timestamptz;index" json:"created_time"`
	LastUpdated time.Time `gorm:"column:last_updated;type:timestamptz" json:"last_updated"`
}

func (Resume) TableName() string { return "resume" }

// Document decodes the stored payload into the full schema shape.
func (r *Resume) Document() (resume.Data, error) {
	return resume.Decode(r.Data)
}
