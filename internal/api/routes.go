package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slidegen/internal/service"
)

// SetupRoutes wires the HTTP surface onto the router.
func SetupRoutes(
	router *gin.Engine,
	allowedOrigins []string,
	uploadService service.UploadService,
	previewService service.PreviewService,
) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	uploadHandler := NewUploadHandler(uploadService)
	previewHandler := NewPreviewHandler(previewService)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/upload", uploadHandler.Upload)
		apiGroup.DELETE("/upload/:id", uploadHandler.DeleteFile)
		apiGroup.DELETE("/clear-all", uploadHandler.ClearAll)

		apiGroup.GET("/files", uploadHandler.ListFiles)
		apiGroup.GET("/files/:id/data", uploadHandler.GetFileData)

		apiGroup.POST("/generate-preview", previewHandler.GeneratePreview)
		apiGroup.GET("/download-preview/:filename", previewHandler.DownloadPreview)
		apiGroup.GET("/preview-image/:filename", previewHandler.PreviewImage)

		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"message": "slidegen backend is running",
			})
		})
	}
}
