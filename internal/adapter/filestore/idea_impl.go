package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/user/hallucination-cache/internal/repository"
)

// IdeaStore persists used idea IDs as a JSON array in a single file.
type IdeaStore struct {
	path string

	mu   sync.Mutex
	used map[string]struct{}
}

var _ repository.IdeaRepository = (*IdeaStore)(nil)

// NewIdeaStore loads the existing file, if any.
func NewIdeaStore(path string) (*IdeaStore, error) {
	s := &IdeaStore{path: path, used: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idea file: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode idea file %s: %w", path, err)
	}
	for _, id := range ids {
		s.used[id] = struct{}{}
	}
	return s, nil
}

func (s *IdeaStore) HasBeenUsed(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.used[id]
	return ok, nil
}

// MarkUsed records id and rewrites the file atomically.
func (s *IdeaStore) MarkUsed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.used[id]; ok {
		return nil
	}
	s.used[id] = struct{}{}
	if err := s.flushLocked(); err != nil {
		delete(s.used, id)
		return err
	}
	return nil
}

func (s *IdeaStore) flushLocked() error {
	ids := make([]string, 0, len(s.used))
	for id := range s.used {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create idea directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ideas-*")
	if err != nil {
		return fmt.Errorf("failed to write idea file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write idea file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write idea file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace idea file: %w", err)
	}
	return nil
}
