package service

import (
	"context"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/domain"
)

// SetTaskDone checks or unchecks a checklist task. Unchecking a task that
// mirrors a subtask reopens the subtask.
func (s *ScheduleStore) SetTaskDone(ctx context.Context, projectID int, phase domain.PhaseName, taskID string, done bool) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "SetTaskDone",
		projectID: projectID,
		source:    "workflow-" + string(phase),
		event:     &Event{Kind: EventTaskToggled, ProjectID: projectID, Phase: phase, TaskID: taskID},
		fields:    map[string]any{"project_id": projectID, "phase": string(phase), "task_id": taskID, "done": done},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if _, err := s.wf.SetTaskDone(p, phase, taskID, done); err != nil {
				return err.Error()
			}
			if phase == domain.PhaseExecution {
				s.normalizer.SyncSubtasksFromRequiredTasks(p)
			}
			return ""
		}),
	})
}

func (s *ScheduleStore) AddOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, name string) (app.Result, error) {
	ev := &Event{Kind: EventTaskAdded, ProjectID: projectID, Phase: phase}
	return s.commit(ctx, change{
		useCase:   "AddOptionalTask",
		projectID: projectID,
		source:    "add-optional-" + string(phase),
		event:     ev,
		fields:    map[string]any{"project_id": projectID, "phase": string(phase)},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			task, err := s.wf.AddOptional(p, phase, name)
			if err != nil {
				return err.Error()
			}
			ev.TaskID = task.ID
			return ""
		}),
	})
}

func (s *ScheduleStore) RenameOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, taskID, name string) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "RenameOptionalTask",
		projectID: projectID,
		source:    "rename-optional-" + string(phase),
		event:     &Event{Kind: EventTaskRenamed, ProjectID: projectID, Phase: phase, TaskID: taskID},
		fields:    map[string]any{"project_id": projectID, "phase": string(phase), "task_id": taskID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if err := s.wf.RenameOptional(p, phase, taskID, name); err != nil {
				return err.Error()
			}
			return ""
		}),
	})
}

// RemoveOptionalTask deletes an optional task. Removing a configured default
// records it so normalization does not bring it back.
func (s *ScheduleStore) RemoveOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, taskID string) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "RemoveOptionalTask",
		projectID: projectID,
		source:    "remove-optional-" + string(phase),
		event:     &Event{Kind: EventTaskRemoved, ProjectID: projectID, Phase: phase, TaskID: taskID},
		fields:    map[string]any{"project_id": projectID, "phase": string(phase), "task_id": taskID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if _, _, err := s.wf.RemoveOptional(p, phase, taskID); err != nil {
				return err.Error()
			}
			return ""
		}),
	})
}

// TransitionStatus moves a project to target if the workflow allows it.
// Reopening to pending clears the execution checklist.
func (s *ScheduleStore) TransitionStatus(ctx context.Context, projectID int, target domain.Status) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "TransitionStatus",
		projectID: projectID,
		source:    "status-" + string(target),
		event:     &Event{Kind: EventStatusChanged, ProjectID: projectID},
		fields:    map[string]any{"project_id": projectID, "target": string(target)},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			decision := s.wf.CanTransition(p, target, s.projects)
			if !decision.OK {
				return decision.Message
			}
			from := p.Status
			p.Status = target
			if target == domain.StatusPending && from != domain.StatusPending {
				if s.wf.ResetPhase(p, domain.PhaseExecution) {
					s.normalizer.SyncSubtasksFromRequiredTasks(p)
				}
			}
			return ""
		}),
	})
}
