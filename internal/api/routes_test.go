package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/ingest"
	"slidegen/internal/registry"
	"slidegen/internal/render"
	"slidegen/internal/service"
	"slidegen/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	uploadDir := filepath.Join(dir, "uploads")
	require.NoError(t, os.MkdirAll(uploadDir, 0o755))
	reg := registry.New(uploadDir)

	store, err := storage.NewLocalStore(filepath.Join(dir, "previews"), filepath.Join(dir, "images"))
	require.NoError(t, err)

	background := filepath.Join(dir, "missing.png")
	composer := render.NewComposer(render.Slide, background)
	renderer, err := render.NewPreviewRenderer(render.Slide, background, "")
	require.NoError(t, err)

	uploads := service.NewUploadService(ingest.New(), reg, uploadDir)
	previews := service.NewPreviewService(reg, composer, renderer, store)

	router := gin.New()
	SetupRoutes(router, []string{"http://localhost:5173"}, uploads, previews)
	return router
}

// multipartCSV builds a multipart body carrying a CSV file part with an
// explicit content type.
func multipartCSV(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func uploadCSV(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body, ct := multipartCSV(t, "data.csv", "text/csv", []byte("a,b\n1,2\n"))
	rec, parsed := doJSON(t, router, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return parsed["fileId"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, parsed := doJSON(t, router, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", parsed["status"])
}

func TestUploadAndListFlow(t *testing.T) {
	router := newTestRouter(t)
	id := uploadCSV(t, router)

	rec, parsed := doJSON(t, router, http.MethodGet, "/api/files", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, parsed["total_files"])

	rec, parsed = doJSON(t, router, http.MethodGet, "/api/files/"+id+"/data", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	sheets := parsed["sheets"].(map[string]any)
	assert.Contains(t, sheets, "Sheet1")
}

func TestUploadRejectsWrongContentType(t *testing.T) {
	router := newTestRouter(t)

	body, ct := multipartCSV(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	rec, parsed := doJSON(t, router, http.MethodPost, "/api/upload", body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_file_type", parsed["error"])
}

func TestDeleteUnknownUploadIs404(t *testing.T) {
	router := newTestRouter(t)

	rec, parsed := doJSON(t, router, http.MethodDelete, "/api/upload/unknown-id", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", parsed["error"])
}

func TestGeneratePreviewAndDownload(t *testing.T) {
	router := newTestRouter(t)
	id := uploadCSV(t, router)

	reqBody, err := json.Marshal(map[string]any{
		"fileId": id,
		"customizations": map[string]string{
			"presentationTo": "Acme Corp",
			"madeBy":         "Jane",
		},
	})
	require.NoError(t, err)

	rec, parsed := doJSON(t, router, http.MethodPost, "/api/generate-preview",
		bytes.NewBuffer(reqBody), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	previewFile := parsed["previewFile"].(string)
	imageFile := parsed["imageFile"].(string)
	assert.Equal(t, "Acme_Corp.pptx", parsed["downloadFilename"])
	assert.Equal(t, "/api/download-preview/"+previewFile, parsed["downloadUrl"])

	// Plain download exposes the stored filename.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/download-preview/"+previewFile, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), previewFile)

	// download_name overrides only the exposed filename.
	rec, _ = doJSON(t, router, http.MethodGet,
		"/api/download-preview/"+previewFile+"?download_name=Quarterly.pptx", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Quarterly.pptx")

	rec, _ = doJSON(t, router, http.MethodGet, "/api/preview-image/"+imageFile, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestGeneratePreviewUnknownFileIs404(t *testing.T) {
	router := newTestRouter(t)

	reqBody, err := json.Marshal(map[string]any{"fileId": "missing"})
	require.NoError(t, err)

	rec, parsed := doJSON(t, router, http.MethodPost, "/api/generate-preview",
		bytes.NewBuffer(reqBody), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", parsed["error"])
}

func TestDownloadUnknownPreviewIs404(t *testing.T) {
	router := newTestRouter(t)

	rec, parsed := doJSON(t, router, http.MethodGet, "/api/download-preview/nope.pptx", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", parsed["error"])
}

func TestClearAllReportsDeletedFiles(t *testing.T) {
	router := newTestRouter(t)
	uploadCSV(t, router)

	rec, parsed := doJSON(t, router, http.MethodDelete, "/api/clear-all", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, parsed["total_deleted"])

	rec, parsed = doJSON(t, router, http.MethodGet, "/api/files", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, parsed["total_files"])
}
