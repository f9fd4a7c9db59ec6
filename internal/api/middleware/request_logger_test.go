package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/yoockh/cvcraft/internal/utils"
)

func TestRequestLoggerRecordsErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/resumes/:resume_id", func(c *gin.Context) {
		_ = c.Error(utils.E(utils.CodeNotFound, "test", "resume not found", utils.ErrNotFound))
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/resumes/r1", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "req-1" {
		t.Fatalf("X-Request-Id = %q", got)
	}
	e := hook.LastEntry()
	if e == nil {
		t.Fatal("no log entry")
	}
	if e.Level != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", e.Level)
	}
	if e.Data["resume_id"] != "r1" || e.Data["error_code"] != utils.CodeNotFound {
		t.Fatalf("fields = %v", e.Data)
	}
}

func TestRequestLoggerGeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _ := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing generated request id")
	}
}
