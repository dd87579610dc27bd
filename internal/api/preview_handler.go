package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidegen/internal/domain"
	"slidegen/internal/service"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// PreviewHandler holds the preview service dependency.
type PreviewHandler struct {
	previewService service.PreviewService
}

func NewPreviewHandler(previewService service.PreviewService) *PreviewHandler {
	return &PreviewHandler{previewService: previewService}
}

// --- DTOs for API ---

type GeneratePreviewRequest struct {
	FileID         string               `json:"fileId" binding:"required"`
	Customizations domain.Customization `json:"customizations"`
}

type GeneratePreviewResponse struct {
	Message          string `json:"message"`
	PreviewFile      string `json:"previewFile"`
	DownloadFilename string `json:"downloadFilename"`
	ImageFile        string `json:"imageFile"`
	DownloadURL      string `json:"downloadUrl"`
	ImageURL         string `json:"imageUrl"`
}

// --- Handler Methods ---

// GeneratePreview builds a fresh presentation/image pair from the
// submitted customization fields.
func (h *PreviewHandler) GeneratePreview(c *gin.Context) {
	var req GeneratePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, kindParseError, "Validation error: "+err.Error())
		return
	}

	pair, err := h.previewService.Generate(c.Request.Context(), req.FileID, req.Customizations)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, GeneratePreviewResponse{
		Message:          "Preview generated successfully",
		PreviewFile:      pair.PresentationFile,
		DownloadFilename: pair.DownloadFilename,
		ImageFile:        pair.ImageFile,
		DownloadURL:      "/api/download-preview/" + pair.PresentationFile,
		ImageURL:         "/api/preview-image/" + pair.ImageFile,
	})
}

// DownloadPreview streams a generated pptx. An optional download_name
// query overrides the filename exposed to the client; the stored bytes
// are untouched.
func (h *PreviewHandler) DownloadPreview(c *gin.Context) {
	filename := c.Param("filename")
	rc, err := h.previewService.OpenPresentation(c.Request.Context(), filename)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	exposed := c.Query("download_name")
	if exposed == "" {
		exposed = filename
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exposed))
	c.Data(http.StatusOK, pptxContentType, data)
}

// PreviewImage serves a generated preview png.
func (h *PreviewHandler) PreviewImage(c *gin.Context) {
	rc, err := h.previewService.OpenImage(c.Request.Context(), c.Param("filename"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
