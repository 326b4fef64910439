package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

// MemoryStore is an in-process DocumentStore. Publish simulates a document
// arriving from another writer.
type MemoryStore struct {
	mu          sync.Mutex
	projects    []domain.Project
	saved       bool
	saves       int
	outcome     repository.SaveOutcome
	failOn      int
	failErr     error
	subscribers map[int]func([]domain.Project)
	nextSub     int
}

var _ repository.DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore starts with projects as the saved document. With no
// projects the store reports nothing saved.
func NewMemoryStore(projects ...domain.Project) *MemoryStore {
	return &MemoryStore{
		projects:    domain.CloneProjects(projects),
		saved:       len(projects) > 0,
		subscribers: make(map[int]func([]domain.Project)),
	}
}

func (m *MemoryStore) Load(context.Context) ([]domain.Project, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneProjects(m.projects), m.saved, nil
}

func (m *MemoryStore) Save(_ context.Context, projects []domain.Project) (repository.SaveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failErr != nil && (m.failOn == 0 || m.saves == m.failOn) {
		return repository.SaveOutcome{}, m.failErr
	}
	m.projects = domain.CloneProjects(projects)
	m.saved = true
	return m.outcome, nil
}

func (m *MemoryStore) Subscribe(fn func([]domain.Project)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Publish replaces the document and notifies subscribers synchronously.
func (m *MemoryStore) Publish(projects []domain.Project) {
	m.mu.Lock()
	m.projects = domain.CloneProjects(projects)
	m.saved = true
	subs := make([]func([]domain.Project), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(domain.CloneProjects(projects))
	}
}

// FailSaves makes every later save return err. Nil restores normal saves.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr, m.failOn = err, 0
}

// FailOnNthSave makes only save number n (counted from the first save
// ever) return err.
func (m *MemoryStore) FailOnNthSave(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr, m.failOn = err, n
}

// Degrade makes successful saves report outcome.
func (m *MemoryStore) Degrade(outcome repository.SaveOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcome = outcome
}

func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Projects returns a copy of the last saved document.
func (m *MemoryStore) Projects() []domain.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneProjects(m.projects)
}

// NewFailingStore returns a store whose loads and saves all fail with err.
func NewFailingStore(err error) repository.DocumentStore {
	return failingStore{err: err}
}

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) ([]domain.Project, bool, error) {
	return nil, false, f.err
}

func (f failingStore) Save(context.Context, []domain.Project) (repository.SaveOutcome, error) {
	return repository.SaveOutcome{}, f.err
}

func (f failingStore) Subscribe(func([]domain.Project)) func() { return func() {} }
