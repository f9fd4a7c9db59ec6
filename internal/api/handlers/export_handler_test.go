package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/yoockh/cvcraft/internal/render"
	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

type stubRasterizer struct {
	err error
}

func (s stubRasterizer) RenderHTMLToPDF(_ context.Context, html []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 " + string(html[:15])), nil
}

type exportFixture struct {
	resumes *stubResumes
	router  *gin.Engine
}

func newExportFixture(t *testing.T, userID string, rast stubRasterizer) *exportFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	templates, err := render.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	log, _ := test.NewNullLogger()
	resumes := newStubResumes()
	svc := services.NewExportService(resumes, templates, rast, nil, log)
	h := NewExportHandler(svc, templates)

	r := gin.New()
	r.GET("/templates", h.Templates)
	g := r.Group("/", withUser(userID))
	g.POST("/preview", h.PreviewDraft)
	g.GET("/resumes/:resume_id/preview", h.Preview)
	g.GET("/resumes/:resume_id/export", h.Export)
	g.GET("/resumes/:resume_id/exports", h.History)
	return &exportFixture{resumes: resumes, router: r}
}

func (f *exportFixture) seed(t *testing.T, userID, name string) string {
	t.Helper()
	d := resume.Empty()
	d.Basics.Name = name
	row, err := f.resumes.Create(context.Background(), userID, "CV", "", d)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return row.ID
}

func TestTemplatesListsBuiltins(t *testing.T) {
	f := newExportFixture(t, "", stubRasterizer{})
	w := doJSON(t, f.router, http.MethodGet, "/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Default   string   `json:"default"`
		Templates []string `json:"templates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Default != render.DefaultTemplate {
		t.Fatalf("default = %q", got.Default)
	}
	if diff := cmp.Diff([]string{"azurill", "gengar", "modern"}, got.Templates); diff != "" {
		t.Fatalf("templates (-want +got):\n%s", diff)
	}
}

func TestPreviewDraft(t *testing.T) {
	f := newExportFixture(t, "u1", stubRasterizer{})

	w := doJSON(t, f.router, http.MethodPost, "/preview?template=modern", `{"basics":{"name":"Ana <b>Lee</b>"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Resume-Template"); got != "modern" {
		t.Fatalf("template header = %q", got)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Ana &lt;b&gt;Lee&lt;/b&gt;") {
		t.Fatalf("name not escaped in preview")
	}
	if strings.Contains(body, "<h2>Education</h2>") {
		t.Fatalf("empty education section rendered")
	}

	w = doJSON(t, f.router, http.MethodPost, "/preview?template=nope", `{}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown template status = %d", w.Code)
	}
}

func TestPreviewDraftRejectsOversizedBody(t *testing.T) {
	f := newExportFixture(t, "u1", stubRasterizer{})

	body := `{"basics":{"name":"` + strings.Repeat("a", maxPreviewBody) + `"}}`
	w := doJSON(t, f.router, http.MethodPost, "/preview", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	e := decodeAPIError(t, w)
	if e.Code != utils.CodeInvalidArgument || !strings.Contains(e.Error, "1 MiB") {
		t.Fatalf("error = %+v", e)
	}

	// a body at the limit is still read in full
	name := strings.Repeat("a", maxPreviewBody-len(`{"basics":{"name":""}}`))
	w = doJSON(t, f.router, http.MethodPost, "/preview", `{"basics":{"name":"`+name+`"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status at limit = %d", w.Code)
	}
}

func TestPreviewStoredResume(t *testing.T) {
	f := newExportFixture(t, "u1", stubRasterizer{})
	id := f.seed(t, "u1", "Ana Lee")

	w := doJSON(t, f.router, http.MethodGet, "/resumes/"+id+"/preview", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("X-Resume-Template"); got != render.DefaultTemplate {
		t.Fatalf("template header = %q", got)
	}
	if !strings.Contains(w.Body.String(), "Ana Lee") {
		t.Fatalf("preview missing name")
	}
}

func TestExportDownload(t *testing.T) {
	f := newExportFixture(t, "u1", stubRasterizer{})
	id := f.seed(t, "u1", "Ana Lee")

	w := doJSON(t, f.router, http.MethodGet, "/resumes/"+id+"/export?template=azurill", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="Ana_Lee_Resume.pdf"` {
		t.Fatalf("disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Fatalf("body is not a pdf")
	}
}

func TestExportErrors(t *testing.T) {
	cases := []struct {
		name   string
		rast   stubRasterizer
		owner  string
		status int
		code   utils.Code
	}{
		{"rasterizer failure", stubRasterizer{err: context.Canceled}, "u1", http.StatusBadGateway, utils.CodeUpstream},
		{"rasterizer timeout", stubRasterizer{err: context.DeadlineExceeded}, "u1", http.StatusGatewayTimeout, utils.CodeTimeout},
		{"foreign resume", stubRasterizer{}, "someone-else", http.StatusNotFound, utils.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newExportFixture(t, "u1", tc.rast)
			id := f.seed(t, tc.owner, "Ana")

			w := doJSON(t, f.router, http.MethodGet, "/resumes/"+id+"/export", nil)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if e := decodeAPIError(t, w); e.Code != tc.code {
				t.Fatalf("code = %s, want %s", e.Code, tc.code)
			}
		})
	}
}

func TestHistoryWithoutExportLog(t *testing.T) {
	f := newExportFixture(t, "u1", stubRasterizer{})
	id := f.seed(t, "u1", "Ana")

	w := doJSON(t, f.router, http.MethodGet, "/resumes/"+id+"/exports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"items":[]}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}
