package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// localStore implements ArtifactStore on the local filesystem, one
// directory per artifact kind.
type localStore struct {
	dirs map[Kind]string
}

// NewLocalStore creates the artifact directories and returns a store
// over them.
func NewLocalStore(previewDir, imageDir string) (ArtifactStore, error) {
	dirs := map[Kind]string{
		KindPresentation: previewDir,
		KindImage:        imageDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
		}
	}
	log.Printf("Artifact store initialized (presentations: %s, images: %s)", previewDir, imageDir)
	return &localStore{dirs: dirs}, nil
}

func (s *localStore) Save(_ context.Context, kind Kind, filename string, data []byte) error {
	path, err := s.path(kind, filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", filename, err)
	}
	return nil
}

func (s *localStore) Exists(_ context.Context, kind Kind, filename string) bool {
	path, err := s.path(kind, filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *localStore) Open(_ context.Context, kind Kind, filename string) (io.ReadCloser, error) {
	path, err := s.path(kind, filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", filename, err)
	}
	return f, nil
}

// path resolves a filename inside the kind's directory, rejecting
// anything that would escape it.
func (s *localStore) path(kind Kind, filename string) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrArtifactNotFound
	}
	return filepath.Join(dir, filename), nil
}
