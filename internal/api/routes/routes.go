package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/cvcraft/internal/api/handlers"
	"github.com/yoockh/cvcraft/internal/api/middleware"
)

type Deps struct {
	Resume *handlers.ResumeHandler
	Export *handlers.ExportHandler
	Upload *handlers.UploadHandler
	WS     *handlers.WSHandler

	// Auth defaults to middleware.JWTAuth().
	Auth gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/templates", d.Export.Templates)

	if d.Auth == nil {
		d.Auth = middleware.JWTAuth()
	}
	auth := r.Group("/")
	auth.Use(d.Auth)

	auth.POST("/preview", d.Export.PreviewDraft)

	auth.POST("/resumes", d.Resume.Create)
	auth.GET("/resumes", d.Resume.List)
	auth.GET("/resumes/:resume_id", d.Resume.Get)
	auth.PUT("/resumes/:resume_id", d.Resume.Update)

	auth.GET("/resumes/:resume_id/preview", d.Export.Preview)
	auth.GET("/resumes/:resume_id/export", d.Export.Export)
	auth.GET("/resumes/:resume_id/exports", d.Export.History)

	auth.POST("/api/upload", d.Upload.Upload)

	// WebSocket
	auth.GET("/ws/resumes/:resume_id", d.WS.EditResume)
}
