package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"slidegen/internal/domain"
	"slidegen/internal/registry"
	"slidegen/internal/render"
	"slidegen/internal/storage"
)

var (
	ErrPreviewNotFound = errors.New("preview artifact not found")
)

// PreviewService generates the presentation/image artifact pair from a
// customization and serves generated artifacts for download.
type PreviewService interface {
	// Generate composes the pptx and renders the png for the given
	// upload. Each call produces a fresh pair; identical customizations
	// are deliberately not deduplicated. A failed image render is
	// replaced with a flat fallback image and never fails the call.
	Generate(ctx context.Context, fileID string, cust domain.Customization) (*domain.ArtifactPair, error)

	// OpenPresentation streams a stored pptx by filename.
	OpenPresentation(ctx context.Context, filename string) (io.ReadCloser, error)
	// OpenImage streams a stored preview png by filename.
	OpenImage(ctx context.Context, filename string) (io.ReadCloser, error)
}

type previewService struct {
	registry registry.Registry
	composer *render.Composer
	renderer *render.PreviewRenderer
	store    storage.ArtifactStore
}

func NewPreviewService(reg registry.Registry, composer *render.Composer, renderer *render.PreviewRenderer, store storage.ArtifactStore) PreviewService {
	return &previewService{
		registry: reg,
		composer: composer,
		renderer: renderer,
		store:    store,
	}
}

func (s *previewService) Generate(ctx context.Context, fileID string, cust domain.Customization) (*domain.ArtifactPair, error) {
	if _, err := s.registry.Get(fileID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	base := render.SanitizeFilename(cust.PresentationTo, render.DefaultBaseName)
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	pptxName := fmt.Sprintf("%s_%s.pptx", base, suffix)
	pngName := fmt.Sprintf("%s_%s.png", base, suffix)

	pptx, err := s.composer.Compose(cust)
	if err != nil {
		return nil, fmt.Errorf("compose presentation: %w", err)
	}
	if err := s.store.Save(ctx, storage.KindPresentation, pptxName, pptx); err != nil {
		return nil, err
	}

	img, err := s.renderer.Render(cust)
	if err != nil {
		log.Printf("WARN: preview image render failed, using fallback: %v", err)
		img = s.renderer.Fallback()
	}
	if err := s.store.Save(ctx, storage.KindImage, pngName, img); err != nil {
		return nil, err
	}

	return &domain.ArtifactPair{
		PresentationFile: pptxName,
		DownloadFilename: base + ".pptx",
		ImageFile:        pngName,
	}, nil
}

func (s *previewService) OpenPresentation(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.open(ctx, storage.KindPresentation, filename)
}

func (s *previewService) OpenImage(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.open(ctx, storage.KindImage, filename)
}

func (s *previewService) open(ctx context.Context, kind storage.Kind, filename string) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, kind, filename)
	if err != nil {
		if errors.Is(err, storage.ErrArtifactNotFound) {
			return nil, ErrPreviewNotFound
		}
		return nil, err
	}
	return rc, nil
}
