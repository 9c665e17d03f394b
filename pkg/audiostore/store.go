// Package audiostore keeps generated prompt audio in a temp directory so
// the telephony provider can fetch it over a short-lived URL.
package audiostore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store writes audio artifacts under a single directory. Artifact ids are
// file names of the form {sessionID}_{rand}.wav.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating it if needed. An empty dir
// defaults to a subdirectory of the OS temp dir.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "riya_audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes one synthesized prompt and returns its artifact id.
func (s *Store) Put(sessionID string, data []byte) (string, error) {
	id := fmt.Sprintf("%s_%s.wav", sessionID, uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o644); err != nil {
		return "", fmt.Errorf("write audio artifact: %w", err)
	}
	return id, nil
}

// Path resolves an artifact id to a file path. Ids containing path
// separators or traversal elements are rejected.
func (s *Store) Path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid audio id %q", id)
	}
	p := filepath.Join(s.dir, id)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("audio artifact %q: %w", id, err)
	}
	return p, nil
}

// Sweep deletes artifacts older than maxAge and returns how many were removed.
func (s *Store) Sweep(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(s.dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps on the given interval until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 || maxAge <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(maxAge)
			}
		}
	}()
}
