// Package history keeps bounded undo/redo stacks of full-state snapshots.
package history

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/alexanderramin/planboard/internal/domain"
)

// DefaultLimit bounds the undo stack.
const DefaultLimit = 80

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is a deep copy of every project plus the selection pointers.
type Snapshot struct {
	Projects     []domain.Project `json:"projects"`
	EditingID    int              `json:"editingId"`
	CurrentIndex int              `json:"currentIndex"`
}

// NewSnapshot deep-copies projects so later edits cannot reach the snapshot.
func NewSnapshot(projects []domain.Project, editingID, currentIndex int) Snapshot {
	return Snapshot{Projects: domain.CloneProjects(projects), EditingID: editingID, CurrentIndex: currentIndex}
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Projects, s.EditingID, s.CurrentIndex)
}

// Equal compares snapshots structurally through their JSON encoding.
func (s Snapshot) Equal(other Snapshot) bool {
	a, errA := json.Marshal(s)
	b, errB := json.Marshal(other)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// Stacks is the persisted form of a Manager.
type Stacks struct {
	Undo []Snapshot `json:"undo"`
	Redo []Snapshot `json:"redo"`
}

// Manager is not safe for concurrent use; its owner serializes access.
type Manager struct {
	limit int
	undo  []Snapshot
	redo  []Snapshot
}

func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Push records s as the state to return to on the next undo. A snapshot
// equal to the current top is ignored. Any push clears redo.
func (m *Manager) Push(s Snapshot) bool {
	if n := len(m.undo); n > 0 && m.undo[n-1].Equal(s) {
		return false
	}
	m.undo = append(m.undo, s.Clone())
	if len(m.undo) > m.limit {
		m.undo = append([]Snapshot(nil), m.undo[len(m.undo)-m.limit:]...)
	}
	m.redo = nil
	return true
}

// DiscardLatest drops the most recent undo entry. Used when the mutation it
// guarded was rolled back.
func (m *Manager) DiscardLatest() {
	if n := len(m.undo); n > 0 {
		m.undo = m.undo[:n-1]
	}
}

// Undo hands the latest snapshot to apply. Only if apply succeeds are the
// stacks rotated, with current moving onto the redo stack.
func (m *Manager) Undo(current Snapshot, apply func(Snapshot) error) error {
	n := len(m.undo)
	if n == 0 {
		return ErrNothingToUndo
	}
	target := m.undo[n-1]
	if err := apply(target.Clone()); err != nil {
		return err
	}
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, current.Clone())
	return nil
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current Snapshot, apply func(Snapshot) error) error {
	n := len(m.redo)
	if n == 0 {
		return ErrNothingToRedo
	}
	target := m.redo[n-1]
	if err := apply(target.Clone()); err != nil {
		return err
	}
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, current.Clone())
	if len(m.undo) > m.limit {
		m.undo = append([]Snapshot(nil), m.undo[len(m.undo)-m.limit:]...)
	}
	return nil
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }
func (m *Manager) UndoDepth() int { return len(m.undo) }
func (m *Manager) RedoDepth() int { return len(m.redo) }

// Stacks exports deep copies of both stacks.
func (m *Manager) Stacks() Stacks {
	return Stacks{Undo: cloneAll(m.undo), Redo: cloneAll(m.redo)}
}

// Restore replaces both stacks, trimming undo to the limit.
func (m *Manager) Restore(s Stacks) {
	m.undo = cloneAll(s.Undo)
	if len(m.undo) > m.limit {
		m.undo = m.undo[len(m.undo)-m.limit:]
	}
	m.redo = cloneAll(s.Redo)
}

func cloneAll(in []Snapshot) []Snapshot {
	if len(in) == 0 {
		return nil
	}
	out := make([]Snapshot, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
