package repository

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/fsnotify/fsnotify"
)

// FileStore keeps the board document as a JSON file. Writes are atomic and
// leave a .bak of the previous version. A non-zero quota makes oversized
// documents drop their inline images before giving up.
type FileStore struct {
	path   string
	quota  int
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	lastHash [sha256.Size]byte
}

type FileOption func(*FileStore)

// WithQuota limits the encoded document size in bytes.
func WithQuota(bytes int) FileOption {
	return func(s *FileStore) { s.quota = bytes }
}

func WithFileLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) { s.logger = l }
}

func WithFileClock(now func() time.Time) FileOption {
	return func(s *FileStore) { s.now = now }
}

func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path:   path,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) ([]domain.Project, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", s.path, err)
	}
	projects, err := decodeDocument(data)
	if err != nil {
		return nil, false, err
	}
	return projects, true, nil
}

func (s *FileStore) Save(ctx context.Context, projects []domain.Project) (SaveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return SaveOutcome{}, err
	}
	now := s.now()
	data, outcome, err := fitQuota(projects, s.quota, func(ps []domain.Project) ([]byte, error) {
		return encodeDocument(ps, now)
	})
	if err != nil {
		return SaveOutcome{}, err
	}

	// The hash is recorded before the rename so a watcher event racing
	// this save already recognizes the content as ours.
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lastHash
	s.lastHash = sha256.Sum256(data)
	if err := atomicWrite(s.path, data); err != nil {
		s.lastHash = prev
		return SaveOutcome{}, fmt.Errorf("writing %s: %w", s.path, err)
	}
	return outcome, nil
}

// Subscribe watches the document's directory and delivers the document
// whenever another writer replaces it. Writes made through this store are
// recognized by content hash and skipped.
func (s *FileStore) Subscribe(fn func([]domain.Project)) func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("file_subscribe", "error", err.Error())
		return func() {}
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err == nil {
		err = watcher.Add(dir)
	}
	if err != nil {
		s.logger.Error("file_subscribe", "path", dir, "error", err.Error())
		_ = watcher.Close()
		return func() {}
	}

	target := filepath.Clean(s.path)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					s.deliver(fn)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("file_watch", "error", err.Error())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = watcher.Close()
			<-done
		})
	}
}

func (s *FileStore) deliver(fn func([]domain.Project)) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("file_watch", "error", err.Error())
		}
		return
	}
	hash := sha256.Sum256(data)
	s.mu.Lock()
	own := hash == s.lastHash
	if !own {
		s.lastHash = hash
	}
	s.mu.Unlock()
	if own {
		return
	}
	projects, err := decodeDocument(data)
	if err != nil {
		// Another writer may still be mid-write; the next event retries.
		s.logger.Debug("file_watch", "error", err.Error())
		return
	}
	fn(projects)
}
