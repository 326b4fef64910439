package service

import "github.com/alexanderramin/planboard/internal/domain"

type EventKind string

const (
	EventTaskToggled    EventKind = "task-toggled"
	EventTaskAdded      EventKind = "task-added"
	EventTaskRenamed    EventKind = "task-renamed"
	EventTaskRemoved    EventKind = "task-removed"
	EventStatusChanged  EventKind = "status-changed"
	EventScheduleEdited EventKind = "schedule-edited"
	EventProjectChanged EventKind = "project-changed"
	EventHistoryApplied EventKind = "history-applied"
	EventRemoteApplied  EventKind = "remote-applied"
)

// Event tells views that committed state changed. ProjectID is zero for
// board-wide changes.
type Event struct {
	Kind      EventKind
	ProjectID int
	Phase     domain.PhaseName
	TaskID    string
	Degraded  bool
}

// OnEvent registers fn for every committed change and returns a func that
// removes it. fn runs after the store lock is released and may call back
// into the store.
func (s *ScheduleStore) OnEvent(fn func(Event)) func() {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.eventsMu.Lock()
		defer s.eventsMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *ScheduleStore) emit(ev Event) {
	s.eventsMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	for _, id := range sortedInts(ids) {
		fns = append(fns, s.listeners[id])
	}
	s.eventsMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
