package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type CreateResumeRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Data        json.RawMessage `json:"data,omitempty"`
}

type UpdateResumeRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

func (h *ResumeHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Create", "invalid request body", err))
		return
	}

	data := resume.Empty()
	if len(req.Data) > 0 && string(req.Data) != "null" {
		parsed, err := resume.Parse(req.Data)
		if err != nil {
			writeError(c, err)
			return
		}
		data = parsed
	}

	row, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	row, err := h.svc.Get(c.Request.Context(), c.Param("resume_id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *ResumeHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Update", "invalid request body", err))
		return
	}
	data, err := resume.Parse(req.Data)
	if err != nil {
		writeError(c, err)
		return
	}

	row, err := h.svc.Update(c.Request.Context(), c.Param("resume_id"), userID, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
