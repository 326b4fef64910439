package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/history"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/schedule"
	"github.com/alexanderramin/planboard/internal/scheduler"
	"github.com/alexanderramin/planboard/internal/workflow"
)

const DefaultAutosaveDelay = 650 * time.Millisecond

// RiskEvaluator scores one project. The store only branches on the level.
type RiskEvaluator func(scheduler.RiskInput) scheduler.RiskResult

type StoreConfig struct {
	Workflow      workflow.Config
	HistoryLimit  int
	AutosaveDelay time.Duration
	Clock         calendar.Clock
	// History persists the undo/redo stacks. Optional.
	History repository.HistoryRepo
	Risk    RiskEvaluator
}

// ScheduleStore owns the project collection, the selection and the undo
// history. Every mutation snapshots, applies, normalizes and saves under
// one lock; a failed save restores the snapshot.
type ScheduleStore struct {
	mu           sync.Mutex
	repo         repository.DocumentStore
	historyRepo  repository.HistoryRepo
	wf           *workflow.Engine
	normalizer   *schedule.Normalizer
	history      *history.Manager
	clock        calendar.Clock
	risk         RiskEvaluator
	observer     UseCaseObserver
	autosaver    *Autosaver
	projects     []domain.Project
	editingID    int
	currentIndex int
	syncing      bool
	lastErr      error

	eventsMu     sync.Mutex
	listeners    map[int]func(Event)
	nextListener int
}

func NewScheduleStore(repo repository.DocumentStore, cfg StoreConfig, observers ...UseCaseObserver) *ScheduleStore {
	if cfg.Clock == nil {
		cfg.Clock = calendar.SystemClock
	}
	if cfg.Risk == nil {
		cfg.Risk = scheduler.ComputeRisk
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = DefaultAutosaveDelay
	}
	if len(cfg.Workflow.Intake.Required) == 0 && len(cfg.Workflow.Execution.Required) == 0 &&
		len(cfg.Workflow.Intake.DefaultOptional) == 0 && len(cfg.Workflow.Execution.DefaultOptional) == 0 {
		cfg.Workflow = workflow.DefaultConfig()
	}
	wf := workflow.NewEngine(cfg.Workflow, workflow.GateFunc(scheduler.BlockingDependencies))
	s := &ScheduleStore{
		repo:        repo,
		historyRepo: cfg.History,
		wf:          wf,
		normalizer:  schedule.NewNormalizer(wf, cfg.Clock),
		history:     history.NewManager(cfg.HistoryLimit),
		clock:       cfg.Clock,
		risk:        cfg.Risk,
		observer:    useCaseObserverOrNoop(observers),
		listeners:   make(map[int]func(Event)),
	}
	s.autosaver = newAutosaver(cfg.AutosaveDelay, s.EditProject)
	return s
}

// Engine exposes the workflow rules the store applies.
func (s *ScheduleStore) Engine() *workflow.Engine { return s.wf }

// Load reads the persisted board, repairs it and re-saves when the repair
// changed anything.
func (s *ScheduleStore) Load(ctx context.Context) (app.Result, error) {
	start := time.Now()
	s.mu.Lock()
	res, err := s.loadLocked(ctx)
	s.mu.Unlock()
	s.observe(ctx, "Load", start, res, err, nil)
	return res, err
}

func (s *ScheduleStore) loadLocked(ctx context.Context) (app.Result, error) {
	projects, found, err := s.repo.Load(ctx)
	if err != nil {
		return app.Failed(err.Error()), fmt.Errorf("loading projects: %w", err)
	}
	s.projects = domain.CloneProjects(projects)
	if s.historyRepo != nil {
		stacks, ok, err := s.historyRepo.Load(ctx)
		if err != nil {
			return app.Failed(err.Error()), fmt.Errorf("loading history: %w", err)
		}
		if ok {
			s.history.Restore(stacks)
		}
	}
	repaired := s.normalizeLocked()
	s.clampSelectionLocked()
	if found && repaired {
		return s.persistLocked(ctx)
	}
	return app.Succeeded(), nil
}

// Watch applies documents pushed by the repository until the returned func
// is called.
func (s *ScheduleStore) Watch() func() {
	return s.repo.Subscribe(s.ApplyRemote)
}

// ApplyRemote replaces local state with a document written elsewhere. The
// last writer wins. Nothing is saved, and mutations made by event listeners
// while the update is being applied are not saved either.
func (s *ScheduleStore) ApplyRemote(projects []domain.Project) {
	start := time.Now()
	s.mu.Lock()
	s.syncing = true
	s.projects = domain.CloneProjects(projects)
	s.normalizeLocked()
	s.clampSelectionLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventRemoteApplied})

	s.mu.Lock()
	s.syncing = false
	s.mu.Unlock()
	s.observe(context.Background(), "ApplyRemote", start, app.Succeeded(), nil, map[string]any{"projects": len(projects)})
}

// Syncing reports whether a remote update is being applied.
func (s *ScheduleStore) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// LastError is the most recent persistence failure, cleared by the next
// successful save.
func (s *ScheduleStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ScheduleStore) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *ScheduleStore) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Selection returns the edited project id and the displayed index.
func (s *ScheduleStore) Selection() (editingID, currentIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID, s.currentIndex
}

// Select flushes pending edits and then points the selection at projectID.
func (s *ScheduleStore) Select(ctx context.Context, projectID int) (app.Result, error) {
	if res, err := s.autosaver.Flush(ctx); err != nil {
		return res, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			s.editingID = projectID
			s.currentIndex = i
			return app.Succeeded(), nil
		}
	}
	return app.Failed(notFoundMessage(projectID)), nil
}

// QueueEdit merges patch into the pending edits of projectID. They are
// committed after the autosave delay or on the next flush.
func (s *ScheduleStore) QueueEdit(projectID int, patch app.ProjectPatch) {
	s.autosaver.Queue(projectID, patch)
}

// FlushEdits commits queued edits now.
func (s *ScheduleStore) FlushEdits(ctx context.Context) (app.Result, error) {
	return s.autosaver.Flush(ctx)
}

// Close stops the autosave timer. Queued edits stay pending until the next
// flush.
func (s *ScheduleStore) Close() {
	s.autosaver.Stop()
}

// change describes one mutation. apply runs under the store lock and
// returns a non-empty message to reject the edit.
type change struct {
	useCase   string
	projectID int
	source    string
	event     *Event
	fields    map[string]any
	apply     func() string
}

func (s *ScheduleStore) commit(ctx context.Context, c change) (app.Result, error) {
	start := time.Now()
	s.mu.Lock()
	res, changed, err := s.commitLocked(ctx, c)
	s.mu.Unlock()
	s.observe(ctx, c.useCase, start, res, err, c.fields)
	if changed {
		ev := *c.event
		ev.Degraded = res.Degraded
		s.emit(ev)
	}
	return res, err
}

func (s *ScheduleStore) commitLocked(ctx context.Context, c change) (app.Result, bool, error) {
	before := s.snapshotLocked()
	if msg := c.apply(); msg != "" {
		s.restoreLocked(before)
		return app.Failed(msg), false, nil
	}
	if before.Equal(s.snapshotLocked()) {
		return app.Succeeded(), false, nil
	}
	if c.source != "" {
		if p := domain.FindProject(s.projects, c.projectID); p != nil {
			p.TouchActivity(s.clock(), c.source)
		}
	}
	pushed := s.history.Push(before)
	s.normalizeLocked()

	res, err := s.persistLocked(ctx)
	if err != nil {
		s.restoreLocked(before)
		if pushed {
			s.history.DiscardLatest()
		}
		return res, false, err
	}
	s.saveHistoryLocked(ctx)
	return res, true, nil
}

// persistLocked saves the current collection. While a remote update is
// being applied it reports success without saving.
func (s *ScheduleStore) persistLocked(ctx context.Context) (app.Result, error) {
	if s.syncing {
		return app.Succeeded(), nil
	}
	outcome, err := s.repo.Save(ctx, domain.CloneProjects(s.projects))
	if err != nil {
		s.lastErr = fmt.Errorf("%w: %w", ErrSaveFailed, err)
		return app.Failed("Could not save changes: " + err.Error()), s.lastErr
	}
	s.lastErr = nil
	res := app.Succeeded()
	res.Degraded = outcome.Degraded
	res.Message = strings.Join(outcome.Notes, "; ")
	return res, nil
}

func (s *ScheduleStore) saveHistoryLocked(ctx context.Context) {
	if s.historyRepo == nil {
		return
	}
	start := time.Now()
	if err := s.historyRepo.Save(ctx, s.history.Stacks()); err != nil {
		s.observe(ctx, "SaveHistory", start, app.Failed(err.Error()), err, nil)
	}
}

// normalizeLocked repairs every project and applies auto-regression. It
// never raises a status.
func (s *ScheduleStore) normalizeLocked() bool {
	changed := false
	for i := range s.projects {
		if s.normalizer.NormalizeProject(&s.projects[i], i, nil) {
			changed = true
		}
		if s.wf.ApplyAutoRegression(&s.projects[i]) {
			changed = true
		}
	}
	return changed
}

func (s *ScheduleStore) snapshotLocked() history.Snapshot {
	return history.NewSnapshot(s.projects, s.editingID, s.currentIndex)
}

func (s *ScheduleStore) restoreLocked(snap history.Snapshot) {
	s.projects = domain.CloneProjects(snap.Projects)
	s.editingID = snap.EditingID
	s.currentIndex = snap.CurrentIndex
}

func (s *ScheduleStore) clampSelectionLocked() {
	if s.editingID != 0 && domain.FindProject(s.projects, s.editingID) == nil {
		s.editingID = 0
	}
	if s.currentIndex >= len(s.projects) {
		s.currentIndex = max(0, len(s.projects)-1)
	}
	if s.currentIndex < 0 {
		s.currentIndex = 0
	}
}

// withProject adapts fn into an apply func that first resolves projectID.
func (s *ScheduleStore) withProject(projectID int, fn func(p *domain.Project) string) func() string {
	return func() string {
		p := domain.FindProject(s.projects, projectID)
		if p == nil {
			return notFoundMessage(projectID)
		}
		return fn(p)
	}
}

func (s *ScheduleStore) observe(ctx context.Context, name string, start time.Time, res app.Result, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: start,
		Duration:  time.Since(start),
		Result:    res,
		Err:       err,
		Fields:    fields,
	})
}

func notFoundMessage(projectID int) string {
	return fmt.Sprintf("Project #%d not found", projectID)
}

func sortedInts(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
