package workflow

import (
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// SetTaskDone marks a task in either list. changed is false when the task
// already had the requested state. Unchecking a derived execution task
// reopens the done subtasks it mirrors, so a later sync keeps the uncheck.
func (e *Engine) SetTaskDone(p *domain.Project, phase domain.PhaseName, id string, done bool) (bool, error) {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return false, ErrUnknownPhase
	}
	t := ph.FindTask(id)
	if t == nil {
		return false, ErrTaskNotFound
	}
	if t.Done == done {
		return false, nil
	}
	t.Done = done
	if !done && phase == domain.PhaseExecution && t.Required && !e.cfg.IsFixedRequired(phase, t.Name) {
		reopenSubtasks(p.Subtasks, domain.TaskKey(t.Name))
	}
	return true, nil
}

func reopenSubtasks(tree []domain.Subtask, key string) {
	for i := range tree {
		s := &tree[i]
		if s.Status == domain.StatusDone && domain.TaskKey(s.Name) == key {
			s.Status = domain.StatusPending
		}
		reopenSubtasks(s.Children, key)
	}
}

// AddOptional appends a user task, rejecting any name whose key already
// exists among required or optional tasks of the phase.
func (e *Engine) AddOptional(p *domain.Project, phase domain.PhaseName, name string) (domain.Task, error) {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return domain.Task{}, ErrUnknownPhase
	}
	name = strings.TrimSpace(name)
	key := domain.TaskKey(name)
	if key == "" {
		return domain.Task{}, ErrBlankName
	}
	if ph.HasKey(key) {
		return domain.Task{}, ErrDuplicateTask
	}

	taken := make(map[string]bool)
	for _, t := range ph.Tasks() {
		taken[t.ID] = true
	}
	task := domain.Task{ID: uniqueID(taken, optionalTaskID(phase, name)), Name: name}
	ph.Optional = append(ph.Optional, task)
	return task, nil
}

// RenameOptional changes an optional task's display name. Its id is kept so
// default-task tracking survives the rename.
func (e *Engine) RenameOptional(p *domain.Project, phase domain.PhaseName, id, name string) error {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return ErrUnknownPhase
	}
	idx := optionalIndex(ph, id)
	if idx < 0 {
		if ph.FindTask(id) != nil {
			return ErrRequiredTask
		}
		return ErrTaskNotFound
	}
	name = strings.TrimSpace(name)
	key := domain.TaskKey(name)
	if key == "" {
		return ErrBlankName
	}
	for _, t := range ph.Tasks() {
		if t.ID != id && domain.TaskKey(t.Name) == key {
			return ErrDuplicateTask
		}
	}
	ph.Optional[idx].Name = name
	return nil
}

// RemoveOptional deletes an optional task. recordedDefault is true when the
// task was a configured default and has been remembered as deleted so that
// normalization does not bring it back.
func (e *Engine) RemoveOptional(p *domain.Project, phase domain.PhaseName, id string) (removed domain.Task, recordedDefault bool, err error) {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return domain.Task{}, false, ErrUnknownPhase
	}
	idx := optionalIndex(ph, id)
	if idx < 0 {
		if ph.FindTask(id) != nil {
			return domain.Task{}, false, ErrRequiredTask
		}
		return domain.Task{}, false, ErrTaskNotFound
	}
	removed = ph.Optional[idx]
	ph.Optional = append(ph.Optional[:idx], ph.Optional[idx+1:]...)

	if e.cfg.IsDefaultOptional(phase, id) {
		for _, d := range ph.DeletedDefaultOptionals {
			if d == id {
				return removed, false, nil
			}
		}
		ph.DeletedDefaultOptionals = append(ph.DeletedDefaultOptionals, id)
		recordedDefault = true
	}
	return removed, recordedDefault, nil
}

func optionalIndex(ph *domain.Phase, id string) int {
	for i := range ph.Optional {
		if ph.Optional[i].ID == id {
			return i
		}
	}
	return -1
}
