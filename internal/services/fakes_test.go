package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/yoockh/cvcraft/internal/cache"
	"github.com/yoockh/cvcraft/internal/models"
	"github.com/yoockh/cvcraft/internal/utils"
)

type memResumeRepo struct {
	mu   sync.Mutex
	rows map[string]models.Resume
	err  error
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{rows: map[string]models.Resume{}}
}

func (r *memResumeRepo) Create(_ context.Context, row *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.rows[row.ID] = *row
	return nil
}

func (r *memResumeRepo) GetByIDAndOwner(_ context.Context, id, userID string) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return &row, nil
}

func (r *memResumeRepo) ListByOwner(_ context.Context, userID string) ([]models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Resume{}
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTime.After(out[j].CreatedTime) })
	return out, nil
}

func (r *memResumeRepo) UpdateData(_ context.Context, id, userID string, data datatypes.JSON, lastUpdated time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return utils.ErrNotFound
	}
	row.Data = data
	row.LastUpdated = lastUpdated
	r.rows[id] = row
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *memCache) AddJSON(_ context.Context, key string, val any, _ time.Duration) (bool, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return false, nil
	}
	c.entries[key] = b
	return true, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker { return &memLocker{held: map[string]bool{}} }

func (l *memLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, cache.ErrLocked
	}
	l.held[key] = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		return nil
	}, nil
}

type memUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (u *memUploader) Upload(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.key, u.contentType, u.body = key, contentType, b
	return "https://cdn.test/" + key, nil
}

type memUploadRepo struct {
	rows []models.Upload
}

func (r *memUploadRepo) Insert(_ context.Context, u *models.Upload) error {
	r.rows = append(r.rows, *u)
	return nil
}

type fakeRasterizer struct {
	html []byte
	err  error
}

func (f *fakeRasterizer) RenderHTMLToPDF(_ context.Context, html []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.html = html
	return append([]byte("%PDF-1.7\n"), bytes.ToUpper(html[:4])...), nil
}

type memExportRepo struct {
	rows []models.ExportRecord
	err  error
}

func (r *memExportRepo) Insert(_ context.Context, rec *models.ExportRecord) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, *rec)
	return nil
}

func (r *memExportRepo) ListByResume(_ context.Context, resumeID, userID string, _ int64) ([]models.ExportRecord, error) {
	out := []models.ExportRecord{}
	for _, rec := range r.rows {
		if rec.ResumeID == resumeID && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
