package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yoockh/cvcraft/internal/models"
	pgrepo "github.com/yoockh/cvcraft/internal/repositories/postgres"
	"github.com/yoockh/cvcraft/internal/storage"
	"github.com/yoockh/cvcraft/internal/utils"
)

// MaxUploadSize caps profile images.
const MaxUploadSize = 5 << 20

type UploadService interface {
	UploadImage(ctx context.Context, userID, fileName string, r io.Reader) (*models.Upload, error)
}

type uploadService struct {
	repo     pgrepo.UploadRepository
	uploader storage.Uploader
	now      func() time.Time
}

func NewUploadService(repo pgrepo.UploadRepository, uploader storage.Uploader) UploadService {
	return &uploadService{repo: repo, uploader: uploader, now: time.Now}
}

// ObjectKey names an uploaded object "{userId}-{unixMillis}-{basename}".
func ObjectKey(userID string, at time.Time, fileName string) string {
	return fmt.Sprintf("%s-%d-%s", userID, at.UnixMilli(), baseName(fileName))
}

func baseName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}

func (s *uploadService) UploadImage(ctx context.Context, userID, fileName string, r io.Reader) (*models.Upload, error) {
	const op = "UploadService.UploadImage"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if r == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no file provided", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	body, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "failed to read file", err)
	}
	if len(body) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no file provided", nil)
	}
	if len(body) > MaxUploadSize {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file exceeds 5 MiB", nil)
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is not an image", nil)
	}
	contentType := strings.SplitN(mt.String(), ";", 2)[0]

	now := s.now().UTC()
	key := ObjectKey(userID, now, fileName)

	url, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to upload file", err)
	}

	row := &models.Upload{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   baseName(fileName),
		ObjectKey:  key,
		URL:        url,
		FileSize:   int64(len(body)),
		MimeType:   contentType,
		UploadedAt: now,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist upload metadata", err)
	}
	return row, nil
}
