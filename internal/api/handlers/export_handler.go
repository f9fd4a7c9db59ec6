package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/cvcraft/internal/render"
	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

const maxPreviewBody = 1 << 20

type ExportHandler struct {
	svc       services.ExportService
	templates *render.Registry
}

func NewExportHandler(svc services.ExportService, templates *render.Registry) *ExportHandler {
	return &ExportHandler{svc: svc, templates: templates}
}

func (h *ExportHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":   h.templates.Default(),
		"templates": h.templates.Names(),
	})
}

// PreviewDraft renders an unsaved data payload sent as the request body.
func (h *ExportHandler) PreviewDraft(c *gin.Context) {
	const op = "ExportHandler.PreviewDraft"

	if _, ok := requireUserID(c); !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPreviewBody)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "request body exceeds 1 MiB", err))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read body", err))
		return
	}
	data, err := resume.Parse(body)
	if err != nil {
		writeError(c, err)
		return
	}
	doc, err := h.svc.RenderDraft(c.Query("template"), data)
	if err != nil {
		writeError(c, err)
		return
	}
	writeDocument(c, doc)
}

func (h *ExportHandler) Preview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	doc, err := h.svc.Preview(c.Request.Context(), userID, c.Param("resume_id"), c.Query("template"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeDocument(c, doc)
}

func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	res, err := h.svc.Export(c.Request.Context(), userID, c.Param("resume_id"), c.Query("template"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Header("X-Resume-Template", res.Template)
	c.Header("Content-Length", strconv.Itoa(len(res.PDF)))
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}

func (h *ExportHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	items, err := h.svc.History(c.Request.Context(), userID, c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func writeDocument(c *gin.Context, doc *render.Document) {
	c.Header("X-Resume-Template", doc.Template)
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc.HTML)
}
