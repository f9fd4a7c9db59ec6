package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yoockh/cvcraft/internal/models"
	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

// stubResumes is an in-memory ResumeService keyed by id.
type stubResumes struct {
	mu    sync.Mutex
	rows  map[string]models.Resume
	clock time.Time
}

func newStubResumes() *stubResumes {
	return &stubResumes{rows: map[string]models.Resume{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *stubResumes) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *stubResumes) Create(_ context.Context, userID, title, description string, data resume.Data) (*models.Resume, error) {
	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, "stub", "unauthorized", nil)
	}
	raw, err := resume.Encode(data)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	row := models.Resume{
		ID: uuid.NewString(), Title: title, Description: description, UserID: userID,
		Data: raw, CreatedTime: now, LastUpdated: now,
	}
	s.rows[row.ID] = row
	return &row, nil
}

func (s *stubResumes) Get(_ context.Context, resumeID, userID string) (*models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[resumeID]
	if !ok || row.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, "stub", "resume not found", utils.ErrNotFound)
	}
	return &row, nil
}

func (s *stubResumes) List(_ context.Context, userID string) ([]models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Resume{}
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTime.After(out[j].CreatedTime) })
	return out, nil
}

func (s *stubResumes) Update(ctx context.Context, resumeID, userID string, data resume.Data) (*models.Resume, error) {
	if _, err := s.Get(ctx, resumeID, userID); err != nil {
		return nil, err
	}
	raw, err := resume.Encode(data)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[resumeID]
	row.Data = raw
	row.LastUpdated = s.tick()
	s.rows[resumeID] = row
	return &row, nil
}

type stubUploads struct {
	got  []byte
	name string
	err  error
}

func (s *stubUploads) UploadImage(_ context.Context, userID, fileName string, r io.Reader) (*models.Upload, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.got, s.name = b, fileName
	return &models.Upload{URL: "https://cdn.test/" + userID + "-" + fileName}, nil
}

var _ services.ResumeService = (*stubResumes)(nil)
var _ services.UploadService = (*stubUploads)(nil)

// withUser stands in for the JWT middleware.
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(content)
	} else {
		_ = mw.WriteField("note", "no file here")
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
