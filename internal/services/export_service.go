package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/cvcraft/internal/export"
	"github.com/yoockh/cvcraft/internal/models"
	mongorepo "github.com/yoockh/cvcraft/internal/repositories/mongo"
	"github.com/yoockh/cvcraft/internal/render"
	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/utils"
)

type ExportResult struct {
	Filename string
	Template string
	PDF      []byte
}

// ExportService renders stored or unsaved resumes and rasterizes them.
type ExportService interface {
	Preview(ctx context.Context, userID, resumeID, template string) (*render.Document, error)
	RenderDraft(template string, d resume.Data) (*render.Document, error)
	Export(ctx context.Context, userID, resumeID, template string) (*ExportResult, error)
	History(ctx context.Context, userID, resumeID string) ([]models.ExportRecord, error)
}

type exportService struct {
	resumes    ResumeService
	templates  *render.Registry
	rasterizer export.Rasterizer
	exports    mongorepo.ExportRepository
	log        *logrus.Logger
}

// NewExportService wires the export pipeline. exports may be nil when no
// export log is configured.
func NewExportService(resumes ResumeService, templates *render.Registry, rasterizer export.Rasterizer, exports mongorepo.ExportRepository, log *logrus.Logger) ExportService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &exportService{
		resumes:    resumes,
		templates:  templates,
		rasterizer: rasterizer,
		exports:    exports,
		log:        log,
	}
}

func (s *exportService) RenderDraft(template string, d resume.Data) (*render.Document, error) {
	t, err := s.templates.Get(template)
	if err != nil {
		return nil, err
	}
	return t.Render(d)
}

func (s *exportService) Preview(ctx context.Context, userID, resumeID, template string) (*render.Document, error) {
	const op = "ExportService.Preview"

	row, err := s.resumes.Get(ctx, resumeID, userID)
	if err != nil {
		return nil, err
	}
	data, err := row.Document()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "stored resume data is unreadable", err)
	}
	return s.RenderDraft(template, data)
}

// Export is not retried; a rasterizer failure surfaces as UPSTREAM_FAILURE.
func (s *exportService) Export(ctx context.Context, userID, resumeID, template string) (*ExportResult, error) {
	const op = "ExportService.Export"

	if s.rasterizer == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "pdf export is not configured", nil)
	}

	row, err := s.resumes.Get(ctx, resumeID, userID)
	if err != nil {
		return nil, err
	}
	data, err := row.Document()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "stored resume data is unreadable", err)
	}
	doc, err := s.RenderDraft(template, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := s.rasterizer.RenderHTMLToPDF(ctx, doc.HTML)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"resume_id": resumeID,
			"template":  doc.Template,
		}).Error("pdf rasterization failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.E(utils.CodeTimeout, op, "pdf export timed out", err)
		}
		return nil, utils.E(utils.CodeUpstream, op, "failed to export pdf", err)
	}

	res := &ExportResult{
		Filename: export.Filename(data.Basics.Name),
		Template: doc.Template,
		PDF:      pdf,
	}

	if s.exports != nil {
		rec := &models.ExportRecord{
			ResumeID:   resumeID,
			UserID:     userID,
			Template:   res.Template,
			Filename:   res.Filename,
			Bytes:      len(pdf),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err := s.exports.Insert(context.WithoutCancel(ctx), rec); err != nil {
			s.log.WithError(err).WithField("resume_id", resumeID).Warn("failed to record export")
		}
	}
	return res, nil
}

func (s *exportService) History(ctx context.Context, userID, resumeID string) ([]models.ExportRecord, error) {
	const op = "ExportService.History"

	if _, err := s.resumes.Get(ctx, resumeID, userID); err != nil {
		return nil, err
	}
	if s.exports == nil {
		return []models.ExportRecord{}, nil
	}
	out, err := s.exports.ListByResume(ctx, resumeID, userID, 20)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to list exports", err)
	}
	return out, nil
}
