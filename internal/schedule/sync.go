package schedule

import (
	"strconv"

	"github.com/alexanderramin/planboard/internal/domain"
)

// SyncRequiredTasksFromSubtasks rebuilds the execution required list as the
// configured tasks followed by one derived task per distinct subtask name.
// A derived task is done if it was done before or any matching subtask is
// done. Derived tasks whose subtask no longer exists are dropped.
func (n *Normalizer) SyncRequiredTasksFromSubtasks(p *domain.Project, subtasks []domain.Subtask) bool {
	cfg := n.wf.Config()
	exec := &p.Workflow.Execution

	previous := make(map[string]domain.Task, len(exec.Required))
	for _, t := range exec.Required {
		key := domain.TaskKey(t.Name)
		if _, ok := previous[key]; !ok {
			previous[key] = t
		}
	}

	next := make([]domain.Task, 0, len(exec.Required))
	keys := make(map[string]bool)
	for _, t := range exec.Required {
		if cfg.IsFixedRequired(domain.PhaseExecution, t.Name) {
			next = append(next, t)
			keys[domain.TaskKey(t.Name)] = true
		}
	}

	subDone := make(map[string]bool)
	flat := Flatten(subtasks)
	for _, f := range flat {
		if f.Status == domain.StatusDone {
			subDone[domain.TaskKey(f.Name)] = true
		}
	}

	ids := make(map[string]bool)
	for _, t := range next {
		ids[t.ID] = true
	}
	for _, f := range flat {
		key := domain.TaskKey(f.Name)
		if key == "" || keys[key] {
			continue
		}
		keys[key] = true
		old, had := previous[key]
		task := domain.Task{
			ID:       "execution-req-" + key,
			Name:     f.Name,
			Done:     (had && old.Done) || subDone[key],
			Required: true,
		}
		if had && old.ID != "" && !ids[old.ID] {
			task.ID = old.ID
		}
		for i := 2; ids[task.ID]; i++ {
			task.ID = "execution-req-" + key + "-" + strconv.Itoa(i)
		}
		ids[task.ID] = true
		next = append(next, task)
	}

	if encode(exec.Required) == encode(next) {
		return false
	}
	exec.Required = next
	return true
}

// SyncSubtasksFromRequiredTasks makes every derived execution task visible
// in the subtask tree. Matching subtasks anywhere in the tree have their
// status aligned with the task; tasks with no subtask gain a root subtask
// spanning the project. The tree shape is never altered otherwise.
func (n *Normalizer) SyncSubtasksFromRequiredTasks(p *domain.Project) bool {
	cfg := n.wf.Config()
	changed := false

	for _, t := range p.Workflow.Execution.Required {
		if cfg.IsFixedRequired(domain.PhaseExecution, t.Name) {
			continue
		}
		key := domain.TaskKey(t.Name)
		if key == "" {
			continue
		}
		matched := false
		Walk(p.Subtasks, func(s *domain.Subtask) {
			if domain.TaskKey(s.Name) != key {
				return
			}
			matched = true
			switch {
			case t.Done && s.Status != domain.StatusDone:
				s.Status = domain.StatusDone
				changed = true
			case !t.Done && s.Status == domain.StatusDone:
				s.Status = domain.StatusPending
				changed = true
			}
		})
		if matched {
			continue
		}

		status := domain.StatusPending
		if t.Done {
			status = domain.StatusDone
		}
		id := "sub-req-" + key
		for i := 2; Find(p.Subtasks, id) != nil; i++ {
			id = "sub-req-" + key + "-" + strconv.Itoa(i)
		}
		p.Subtasks = append(p.Subtasks, domain.Subtask{
			ID:     id,
			Name:   t.Name,
			Status: status,
			Start:  p.Start,
			End:    p.End,
		})
		changed = true
	}
	return changed
}

// MarkDerivedTask sets the done flag of the derived execution task that
// mirrors a subtask name. Used when a subtask leaves the done state so the
// sync does not restore it from the stale task.
func MarkDerivedTask(p *domain.Project, name string, done bool) bool {
	key := domain.TaskKey(name)
	for i := range p.Workflow.Execution.Required {
		t := &p.Workflow.Execution.Required[i]
		if domain.TaskKey(t.Name) == key && t.Done != done {
			t.Done = done
			return true
		}
	}
	return false
}
