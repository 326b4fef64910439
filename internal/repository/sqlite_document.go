package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/google/uuid"
)

const (
	defaultDocumentID   = "board"
	defaultPollInterval = 2 * time.Second
)

// SQLiteDocumentStore keeps the board document in a single row. Every save
// bumps the row version; subscribers poll the version to notice writes made
// by other processes.
type SQLiteDocumentStore struct {
	db       db.DBTX
	uow      db.UnitOfWork
	id       string
	writer   string
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type DocumentOption func(*SQLiteDocumentStore)

func WithDocumentID(id string) DocumentOption {
	return func(s *SQLiteDocumentStore) { s.id = id }
}

func WithPollInterval(d time.Duration) DocumentOption {
	return func(s *SQLiteDocumentStore) { s.interval = d }
}

// WithWriterID fixes the identity recorded on saves. Defaults to a random id.
func WithWriterID(id string) DocumentOption {
	return func(s *SQLiteDocumentStore) { s.writer = id }
}

func WithDocumentLogger(l *slog.Logger) DocumentOption {
	return func(s *SQLiteDocumentStore) { s.logger = l }
}

func WithDocumentClock(now func() time.Time) DocumentOption {
	return func(s *SQLiteDocumentStore) { s.now = now }
}

// NewSQLiteDocumentStore creates a store reading through conn and writing
// through uow.
func NewSQLiteDocumentStore(conn db.DBTX, uow db.UnitOfWork, opts ...DocumentOption) *SQLiteDocumentStore {
	s := &SQLiteDocumentStore{
		db:       conn,
		uow:      uow,
		id:       defaultDocumentID,
		writer:   uuid.NewString(),
		interval: defaultPollInterval,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLiteDocumentStore) Load(ctx context.Context) ([]domain.Project, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM board_documents WHERE id = ?`, s.id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading board document: %w", err)
	}
	projects, err := decodeDocument([]byte(payload))
	if err != nil {
		return nil, false, err
	}
	return projects, true, nil
}

func (s *SQLiteDocumentStore) Save(ctx context.Context, projects []domain.Project) (SaveOutcome, error) {
	now := s.now()
	payload, err := encodeDocument(projects, now)
	if err != nil {
		return SaveOutcome{}, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var version int64
		err := tx.QueryRowContext(ctx, `SELECT version FROM board_documents WHERE id = ?`, s.id).Scan(&version)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reading document version: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO board_documents (id, payload, last_update, version, writer)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				payload = excluded.payload,
				last_update = excluded.last_update,
				version = excluded.version,
				writer = excluded.writer`,
			s.id, string(payload), now.UTC().Format(time.RFC3339), version+1, s.writer,
		)
		if err != nil {
			return fmt.Errorf("upserting board document: %w", err)
		}
		return nil
	})
	if err != nil {
		return SaveOutcome{}, err
	}
	return SaveOutcome{}, nil
}

// Version returns the current row version and the id of its last writer.
func (s *SQLiteDocumentStore) Version(ctx context.Context) (int64, string, error) {
	var version int64
	var writer string
	err := s.db.QueryRowContext(ctx, `SELECT version, writer FROM board_documents WHERE id = ?`, s.id).Scan(&version, &writer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", fmt.Errorf("reading document version: %w", err)
	}
	return version, writer, nil
}

// Subscribe polls for versions written by other writers and hands their
// documents to fn. Own saves are never delivered.
func (s *SQLiteDocumentStore) Subscribe(fn func([]domain.Project)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	seen, _, err := s.Version(ctx)
	if err != nil {
		s.logger.Warn("document_subscribe", "error", err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				seen = s.poll(ctx, seen, fn)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

func (s *SQLiteDocumentStore) poll(ctx context.Context, seen int64, fn func([]domain.Project)) int64 {
	version, writer, err := s.Version(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("document_poll", "error", err.Error())
		}
		return seen
	}
	if version <= seen {
		return seen
	}
	if writer == s.writer {
		return version
	}
	projects, ok, err := s.Load(ctx)
	if err != nil || !ok {
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("document_poll", "error", err.Error())
		}
		return seen
	}
	fn(projects)
	return version
}
