package models

import "time"

type Upload struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;type:text;index" json:"user_id"`
	FileName  string `gorm:"column:file_name;type:text" json:"file_name"`
	ObjectKey string `gorm:"column:object_key;type:text" json:"object_key"`
	URL       string `gorm:"column:url;type:text" json:"url"`

	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	UploadedAt time.Time `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
}

func (Upload) TableName() string { return "uploads" }
