package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidegen/internal/ingest"
	"slidegen/internal/service"
)

// Stable error kinds exposed to clients. Internal detail stays in the
// server log; responses carry only the kind and a safe message.
const (
	kindInvalidFileType = "invalid_file_type"
	kindParseError      = "parse_error"
	kindNotFound        = "not_found"
	kindInternal        = "internal"
)

func abortWithError(c *gin.Context, code int, kind, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": kind, "message": message})
}

// abortServiceError maps a service-layer error onto the stable kind
// enumeration.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrInvalidFileType):
		abortWithError(c, http.StatusBadRequest, kindInvalidFileType, "Invalid file type. Please upload Excel or CSV files only.")
	case errors.Is(err, ingest.ErrParseFailure):
		abortWithError(c, http.StatusBadRequest, kindParseError, "The file could not be read as tabular data.")
	case errors.Is(err, service.ErrFileNotFound):
		abortWithError(c, http.StatusNotFound, kindNotFound, "File not found.")
	case errors.Is(err, service.ErrPreviewNotFound):
		abortWithError(c, http.StatusNotFound, kindNotFound, "Preview file not found.")
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, http.StatusInternalServerError, kindInternal, "Internal server error.")
	}
}
