package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

const pageExt = ".json"

type cachedPage struct {
	modTime time.Time
	page    *entity.StoredPage
}

// PageStore keeps one JSON file per page in a directory. Files are written
// once and never replaced.
type PageStore struct {
	dir    string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]cachedPage // file name -> decoded page

	watching atomic.Bool
	dirty    atomic.Bool
	count    atomic.Int64
}

var _ repository.PageRepository = (*PageStore)(nil)

// NewPageStore creates the directory if needed.
func NewPageStore(dir string, logger *zap.Logger) (*PageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create page directory: %w", err)
	}
	s := &PageStore{dir: dir, logger: logger, cache: make(map[string]cachedPage)}
	s.dirty.Store(true)
	return s, nil
}

func (s *PageStore) path(id string) string {
	return filepath.Join(s.dir, id+pageExt)
}

// Save writes the page to a temp file and hard-links it into place, so readers
// never see a partial record and an existing ID is never overwritten.
func (s *PageStore) Save(ctx context.Context, page *entity.StoredPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page.ID == "" || strings.ContainsAny(page.ID, `/\`) || strings.HasPrefix(page.ID, ".") {
		return fmt.Errorf("invalid page id %q", page.ID)
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode page %s: %w", page.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write page %s: %w", page.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync page %s: %w", page.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write page %s: %w", page.ID, err)
	}

	if err := os.Link(tmpName, s.path(page.ID)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", repository.ErrPageExists, page.ID)
		}
		return fmt.Errorf("failed to publish page %s: %w", page.ID, err)
	}
	s.dirty.Store(true)
	return nil
}

// List returns pages newest first. Only files that are new or modified since
// the previous call are decoded again.
func (s *PageStore) List(ctx context.Context, opts entity.ListOptions) ([]*entity.StoredPage, error) {
	entries, err := s.pageEntries()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		name := e.Name()
		seen[name] = true
		info, err := e.Info()
		if err != nil {
			delete(s.cache, name)
			continue
		}
		if c, ok := s.cache[name]; ok && c.modTime.Equal(info.ModTime()) {
			continue
		}
		page, err := s.readPage(name)
		if err != nil {
			s.logger.Warn("Skipping unreadable page file", zap.String("file", name), zap.Error(err))
			delete(s.cache, name)
			continue
		}
		s.cache[name] = cachedPage{modTime: info.ModTime(), page: page}
	}
	for name := range s.cache {
		if !seen[name] {
			delete(s.cache, name)
		}
	}

	out := make([]*entity.StoredPage, 0, len(s.cache))
	for _, c := range s.cache {
		cp := *c.page
		out = append(out, &cp)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Count returns the number of page files. While Watch runs the result is
// cached until the directory changes.
func (s *PageStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.watching.Load() && !s.dirty.Load() {
		return int(s.count.Load()), nil
	}
	s.dirty.Store(false)
	entries, err := s.pageEntries()
	if err != nil {
		s.dirty.Store(true)
		return 0, err
	}
	s.count.Store(int64(len(entries)))
	return len(entries), nil
}

// Watch invalidates the cached count whenever the directory changes. It
// blocks until ctx is done.
func (s *PageStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	s.dirty.Store(true)
	s.watching.Store(true)
	defer s.watching.Store(false)
	s.logger.Info("Watching page directory", zap.String("dir", s.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasSuffix(ev.Name, pageExt) {
				s.dirty.Store(true)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.dirty.Store(true)
			s.logger.Warn("Page directory watch error", zap.Error(err))
		}
	}
}

func (s *PageStore) pageEntries() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory: %w", err)
	}
	out := entries[:0]
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasSuffix(name, pageExt) && !strings.HasPrefix(name, ".") {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *PageStore) readPage(name string) (*entity.StoredPage, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	var page entity.StoredPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	if page.ID == "" {
		page.ID = strings.TrimSuffix(name, pageExt)
	}
	return &page, nil
}
