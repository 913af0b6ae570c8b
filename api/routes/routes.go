package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/getmarco/medtextanalyze/api/handlers"
	"github.com/getmarco/medtextanalyze/api/middleware"
)

// SetupRoutes registers all API routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	v1.POST("/uploads/url", h.Analyze.CreateUploadURL)

	text := v1.Group("/text")
	{
		text.POST("/image", h.Analyze.ImageText)
		text.POST("/pdf", h.Analyze.PDFText)
	}

	v1.POST("/entities", h.Analyze.Entities)
	v1.POST("/entities/batch", h.Analyze.EntitiesBatch)

	tasks := v1.Group("/tasks")
	{
		tasks.POST("/pdf", h.Analyze.StartPDFTask)
		tasks.GET("/:taskId", h.Analyze.TaskStatus)
		tasks.GET("/:taskId/result", h.Analyze.TaskResult)
		tasks.DELETE("/:taskId", h.Analyze.CancelTask)
	}
}
