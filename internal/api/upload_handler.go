package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidegen/internal/domain"
	"slidegen/internal/service"
)

// UploadHandler holds the upload service dependency.
type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// --- DTOs for API ---

type UploadResponse struct {
	FileID   string   `json:"fileId"`
	Filename string   `json:"filename"`
	Sheets   []string `json:"sheets"`
	Message  string   `json:"message"`
}

type FileDataResponse struct {
	FileID   string                `json:"fileId"`
	Filename string                `json:"filename"`
	Sheets   map[string][][]string `json:"sheets"`
}

type FileListResponse struct {
	Files      []domain.UploadedFile `json:"files"`
	TotalFiles int                   `json:"total_files"`
}

type ClearAllResponse struct {
	Message      string   `json:"message"`
	DeletedFiles []string `json:"deleted_files"`
	Errors       []string `json:"errors"`
	TotalDeleted int      `json:"total_deleted"`
}

// --- Handler Methods ---

// Upload accepts a multipart spreadsheet, parses its sheet names and
// registers it under a fresh identifier.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidFileType, "Missing multipart file field 'file'.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		abortServiceError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	meta, err := h.uploadService.Upload(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		FileID:   meta.ID,
		Filename: meta.FileName,
		Sheets:   meta.Sheets,
		Message:  "File uploaded successfully",
	})
}

// GetFileData returns the full cell grid of every sheet.
func (h *UploadHandler) GetFileData(c *gin.Context) {
	meta, grids, err := h.uploadService.SheetData(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, FileDataResponse{
		FileID:   meta.ID,
		Filename: meta.FileName,
		Sheets:   grids,
	})
}

// ListFiles returns all registered uploads.
func (h *UploadHandler) ListFiles(c *gin.Context) {
	files := h.uploadService.List(c.Request.Context())
	if files == nil {
		files = []domain.UploadedFile{}
	}
	c.JSON(http.StatusOK, FileListResponse{
		Files:      files,
		TotalFiles: len(files),
	})
}

// DeleteFile removes one upload from the registry and disk.
func (h *UploadHandler) DeleteFile(c *gin.Context) {
	if err := h.uploadService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// ClearAll removes every upload, orphaned files included. Individual
// deletion failures are reported, never fatal.
func (h *UploadHandler) ClearAll(c *gin.Context) {
	result := h.uploadService.ClearAll(c.Request.Context())
	c.JSON(http.StatusOK, ClearAllResponse{
		Message:      "All uploads cleared successfully",
		DeletedFiles: result.DeletedFiles,
		Errors:       result.Errors,
		TotalDeleted: len(result.DeletedFiles),
	})
}
