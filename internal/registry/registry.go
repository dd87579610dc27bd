package registry

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"slidegen/internal/domain"
)

// ErrNotFound is returned when an identifier has no registry entry.
// Absence from the registry means the upload is considered deleted
// regardless of actual disk state.
var ErrNotFound = errors.New("file not found in registry")

const (
	deleteAttempts   = 3
	deleteRetryDelay = 150 * time.Millisecond

	// pendingDeletesFile journals paths that could not be deleted so
	// they can be swept on the next startup.
	pendingDeletesFile = ".pending-deletes"
)

// Registry is the process-wide mapping from opaque identifiers to
// uploaded-file metadata. It governs the lifecycle of on-disk uploads.
type Registry interface {
	// Register generates a fresh unique identifier, stores the metadata
	// and returns the stored entry with ID and timestamp populated.
	Register(meta domain.UploadedFile) domain.UploadedFile
	// Get returns the entry for id or ErrNotFound.
	Get(id string) (domain.UploadedFile, error)
	// List returns all entries ordered by upload time.
	List() []domain.UploadedFile
	// Remove drops the entry and best-effort deletes the backing file.
	// A locked or missing file never fails the call; only an unknown id
	// yields ErrNotFound.
	Remove(id string) error
	// Clear empties the registry and sweeps every file in the upload
	// directory, orphans included.
	Clear() domain.ClearResult
}

// entry pairs stored metadata with its insertion sequence so listing
// order is stable even for same-instant registrations.
type entry struct {
	meta domain.UploadedFile
	seq  uint64
}

// uploadRegistry is the in-memory Registry implementation. All state is
// volatile; on restart only the files under uploadDir remain.
type uploadRegistry struct {
	mu        sync.Mutex
	files     map[string]entry
	nextSeq   uint64
	uploadDir string
}

// New creates an empty registry over uploadDir and sweeps any paths
// journaled for deferred deletion by a previous run.
func New(uploadDir string) Registry {
	r := &uploadRegistry{
		files:     make(map[string]entry),
		uploadDir: uploadDir,
	}
	r.sweepPending()
	return r
}

func (r *uploadRegistry) Register(meta domain.UploadedFile) domain.UploadedFile {
	meta.ID = uuid.NewString()
	meta.UploadedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[meta.ID] = entry{meta: meta, seq: r.nextSeq}
	r.nextSeq++
	return meta
}

func (r *uploadRegistry) Get(id string) (domain.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.files[id]
	if !ok {
		return domain.UploadedFile{}, ErrNotFound
	}
	return e.meta, nil
}

func (r *uploadRegistry) List() []domain.UploadedFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]entry, 0, len(r.files))
	for _, e := range r.files {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	out := make([]domain.UploadedFile, len(entries))
	for i, e := range entries {
		out[i] = e.meta
	}
	return out
}

func (r *uploadRegistry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.files[id]
	meta := e.meta
	if ok {
		delete(r.files, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	// The entry is gone either way; disk deletion is best effort.
	if err := r.deleteFile(meta.FilePath); err != nil {
		log.Printf("WARN: could not delete upload %s (%s): %v", id, meta.FilePath, err)
		r.journalPending(meta.FilePath)
	}
	return nil
}

func (r *uploadRegistry) Clear() domain.ClearResult {
	r.mu.Lock()
	r.files = make(map[string]entry)
	r.mu.Unlock()

	// Sweep the whole directory, not just registered files, so orphans
	// from earlier runs are collected too.
	result := domain.ClearResult{
		DeletedFiles: []string{},
		Errors:       []string{},
	}
	entries, err := os.ReadDir(r.uploadDir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read upload directory: %v", err))
		return result
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == pendingDeletesFile {
			continue
		}
		path := filepath.Join(r.uploadDir, entry.Name())
		if err := r.deleteFile(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", entry.Name(), err))
			r.journalPending(path)
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, entry.Name())
	}
	return result
}

// deleteFile removes path with a bounded retry loop. An already-absent
// file counts as success.
func (r *uploadRegistry) deleteFile(path string) error {
	var lastErr error
	for attempt := 0; attempt < deleteAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(deleteRetryDelay)
		}
		err := os.Remove(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// journalPending records a path that could not be deleted so the next
// startup can retry it.
func (r *uploadRegistry) journalPending(path string) {
	journal := filepath.Join(r.uploadDir, pendingDeletesFile)
	f, err := os.OpenFile(journal, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("WARN: could not open pending-deletes journal: %v", err)
		return
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, path); err != nil {
		log.Printf("WARN: could not journal pending delete for %s: %v", path, err)
	}
}

// sweepPending replays the pending-deletes journal left by a previous
// run, then truncates it.
func (r *uploadRegistry) sweepPending() {
	journal := filepath.Join(r.uploadDir, pendingDeletesFile)
	f, err := os.Open(journal)
	if err != nil {
		return
	}

	var remaining []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			remaining = append(remaining, path)
		}
	}
	f.Close()

	if len(remaining) == 0 {
		if err := os.Remove(journal); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: could not remove pending-deletes journal: %v", err)
		}
		return
	}
	if err := os.WriteFile(journal, []byte(strings.Join(remaining, "\n")+"\n"), 0o644); err != nil {
		log.Printf("WARN: could not rewrite pending-deletes journal: %v", err)
	}
}
