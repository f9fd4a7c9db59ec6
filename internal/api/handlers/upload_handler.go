package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

type UploadHandler struct {
	svc services.UploadService
}

func NewUploadHandler(svc services.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type UploadResponse struct {
	URL string `json:"url"`
}

func (h *UploadHandler) Upload(c *gin.Context) {
	const op = "UploadHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "no file provided", err))
		return
	}
	if fh.Size > services.MaxUploadSize {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file exceeds 5 MiB", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	row, err := h.svc.UploadImage(c.Request.Context(), userID, fh.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: row.URL})
}
