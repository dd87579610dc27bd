package storage

import (
	"context"
	"errors"
	"io"
)

// Kind distinguishes the two artifact families the service generates.
type Kind string

const (
	KindPresentation Kind = "presentation"
	KindImage        Kind = "image"
)

// ErrArtifactNotFound is returned when no artifact with the requested
// filename exists. Existence is defined solely by presence on disk.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore defines the interface for generated-artifact storage.
// Filenames are caller-supplied; uniqueness comes from the suffix the
// caller embeds.
type ArtifactStore interface {
	// Save persists an artifact, overwriting any same-named file.
	Save(ctx context.Context, kind Kind, filename string, data []byte) error

	// Exists reports whether an artifact with this filename is on disk.
	Exists(ctx context.Context, kind Kind, filename string) bool

	// Open returns a reader over the stored bytes, or ErrArtifactNotFound.
	Open(ctx context.Context, kind Kind, filename string) (io.ReadCloser, error)
}
