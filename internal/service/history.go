package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/history"
)

// Undo restores the previous snapshot. Pending autosave edits are flushed
// first so they become undoable. The stacks only move if the restored state
// is saved.
func (s *ScheduleStore) Undo(ctx context.Context) (app.Result, error) {
	return s.travel(ctx, "Undo", s.history.Undo)
}

func (s *ScheduleStore) Redo(ctx context.Context) (app.Result, error) {
	return s.travel(ctx, "Redo", s.history.Redo)
}

type historyStep func(current history.Snapshot, apply func(history.Snapshot) error) error

func (s *ScheduleStore) travel(ctx context.Context, name string, step historyStep) (app.Result, error) {
	start := time.Now()
	if res, err := s.autosaver.Flush(ctx); err != nil {
		s.observe(ctx, name, start, res, err, nil)
		return res, err
	}

	s.mu.Lock()
	current := s.snapshotLocked()
	res := app.Succeeded()
	err := step(current, func(target history.Snapshot) error {
		s.restoreLocked(target)
		s.clampSelectionLocked()
		saved, err := s.persistLocked(ctx)
		if err != nil {
			s.restoreLocked(current)
			res = saved
			return err
		}
		res = saved
		return nil
	})
	if err == nil {
		s.saveHistoryLocked(ctx)
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, history.ErrNothingToUndo):
		res, err = app.Failed("Nothing to undo"), nil
	case errors.Is(err, history.ErrNothingToRedo):
		res, err = app.Failed("Nothing to redo"), nil
	case err == nil:
		defer s.emit(Event{Kind: EventHistoryApplied, Degraded: res.Degraded})
	}
	s.observe(ctx, name, start, res, err, nil)
	return res, err
}
