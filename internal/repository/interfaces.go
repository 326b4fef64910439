package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/history"
)

var (
	// ErrQuotaExceeded means the document does not fit the store's quota
	// even after dropping inline images.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("not found")
)

// SaveOutcome describes a save that went through. Degraded saves persisted
// everything except what Notes lists.
type SaveOutcome struct {
	Degraded bool
	Notes    []string
}

// DocumentStore persists the whole project collection as one document.
// Load reports false when nothing has been saved yet. Subscribe delivers
// documents written by someone else; the returned func stops delivery.
type DocumentStore interface {
	Load(ctx context.Context) ([]domain.Project, bool, error)
	Save(ctx context.Context, projects []domain.Project) (SaveOutcome, error)
	Subscribe(fn func([]domain.Project)) (unsubscribe func())
}

type HistoryRepo interface {
	Load(ctx context.Context) (history.Stacks, bool, error)
	Save(ctx context.Context, stacks history.Stacks) error
}
