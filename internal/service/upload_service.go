package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"slidegen/internal/domain"
	"slidegen/internal/ingest"
	"slidegen/internal/registry"
)

// --- Error Definitions ---
var (
	ErrFileNotFound = errors.New("uploaded file not found")
)

// UploadService manages the lifecycle of uploaded spreadsheets: intake,
// grid extraction, listing and deletion.
type UploadService interface {
	// Upload validates, persists and registers a spreadsheet. On a parse
	// failure the just-written file is removed before the error returns.
	Upload(ctx context.Context, filename, contentType string, data []byte) (*domain.UploadedFile, error)
	// SheetData parses every sheet of the registered upload into grids.
	SheetData(ctx context.Context, id string) (*domain.UploadedFile, map[string][][]string, error)
	// List returns all registered uploads.
	List(ctx context.Context) []domain.UploadedFile
	// Delete removes one upload; ErrFileNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
	// ClearAll removes every upload and sweeps the upload directory.
	ClearAll(ctx context.Context) domain.ClearResult
}

type uploadService struct {
	ingestor  *ingest.Ingestor
	registry  registry.Registry
	uploadDir string
}

func NewUploadService(ingestor *ingest.Ingestor, reg registry.Registry, uploadDir string) UploadService {
	return &uploadService{
		ingestor:  ingestor,
		registry:  reg,
		uploadDir: uploadDir,
	}
}

func (s *uploadService) Upload(ctx context.Context, filename, contentType string, data []byte) (*domain.UploadedFile, error) {
	if !s.ingestor.Supported(contentType) {
		return nil, ingest.ErrInvalidFileType
	}

	baseName := filepath.Base(filename)
	path := filepath.Join(s.uploadDir, uuid.NewString()+"_"+baseName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	sheets, err := s.ingestor.SheetNames(data, contentType)
	if err != nil {
		// A file that cannot be read as tabular data must not linger.
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("WARN: could not clean up unparseable upload %s: %v", path, rmErr)
		}
		return nil, err
	}

	meta := s.registry.Register(domain.UploadedFile{
		FileName:    baseName,
		FilePath:    path,
		ContentType: contentType,
		Sheets:      sheets,
	})
	return &meta, nil
}

func (s *uploadService) SheetData(ctx context.Context, id string) (*domain.UploadedFile, map[string][][]string, error) {
	meta, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}

	data, err := os.ReadFile(meta.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload %s: %w", meta.FilePath, err)
	}
	grids, err := s.ingestor.Grids(data, meta.ContentType)
	if err != nil {
		return nil, nil, err
	}
	return &meta, grids, nil
}

func (s *uploadService) List(ctx context.Context) []domain.UploadedFile {
	return s.registry.List()
}

func (s *uploadService) Delete(ctx context.Context, id string) error {
	if err := s.registry.Remove(id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *uploadService) ClearAll(ctx context.Context) domain.ClearResult {
	return s.registry.Clear()
}
