package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/schedule"
)

// AddSubtask inserts a subtask at the root of the project tree or under
// in.ParentID. Subtasks feed the execution checklist.
func (s *ScheduleStore) AddSubtask(ctx context.Context, projectID int, in app.SubtaskInput) (domain.Subtask, app.Result, error) {
	id := uuid.NewString()
	res, err := s.commit(ctx, change{
		useCase:   "AddSubtask",
		projectID: projectID,
		source:    "subtask-add",
		event:     &Event{Kind: EventScheduleEdited, ProjectID: projectID, TaskID: id},
		fields:    map[string]any{"project_id": projectID, "parent_id": in.ParentID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			name := strings.TrimSpace(in.Name)
			if name == "" {
				return "Subtask name is required"
			}
			status := in.Status
			if status == "" {
				status = domain.StatusPending
			}
			if !status.Valid() {
				return "Unknown status " + string(status)
			}
			if msg := checkOptionalDates(in.Start, in.End); msg != "" {
				return msg
			}
			node := domain.Subtask{ID: id, Name: name, Status: status, Start: in.Start, End: in.End}
			if in.ParentID == "" {
				p.Subtasks = append(p.Subtasks, node)
				return ""
			}
			if !schedule.Insert(&p.Subtasks, in.ParentID, node) {
				return subtaskNotFoundMessage(in.ParentID)
			}
			return ""
		}),
	})
	if err != nil || !res.OK {
		return domain.Subtask{}, res, err
	}
	sub, err := s.Subtask(projectID, id)
	return sub, res, err
}

// UpdateSubtask edits one subtask. Moving a finished subtask back out of
// done reopens its checklist task as well.
func (s *ScheduleStore) UpdateSubtask(ctx context.Context, projectID int, subtaskID string, patch app.SubtaskPatch) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "UpdateSubtask",
		projectID: projectID,
		source:    "subtask-update",
		event:     &Event{Kind: EventScheduleEdited, ProjectID: projectID, TaskID: subtaskID},
		fields:    map[string]any{"project_id": projectID, "subtask_id": subtaskID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			node := schedule.Find(p.Subtasks, subtaskID)
			if node == nil {
				return subtaskNotFoundMessage(subtaskID)
			}
			next := *node
			if patch.Name != nil {
				next.Name = strings.TrimSpace(*patch.Name)
				if next.Name == "" {
					return "Subtask name is required"
				}
			}
			if patch.Status != nil {
				if !patch.Status.Valid() {
					return "Unknown status " + string(*patch.Status)
				}
				next.Status = *patch.Status
			}
			if patch.Start != nil {
				next.Start = strings.TrimSpace(*patch.Start)
			}
			if patch.End != nil {
				next.End = strings.TrimSpace(*patch.End)
			}
			if msg := checkOptionalDates(next.Start, next.End); msg != "" {
				return msg
			}
			reopened := node.Status == domain.StatusDone && next.Status != domain.StatusDone
			schedule.Update(p.Subtasks, subtaskID, func(n *domain.Subtask) {
				n.Name, n.Status, n.Start, n.End = next.Name, next.Status, next.Start, next.End
			})
			if reopened {
				schedule.MarkDerivedTask(p, next.Name, false)
			}
			return ""
		}),
	})
}

// RemoveSubtask deletes a subtask and everything below it.
func (s *ScheduleStore) RemoveSubtask(ctx context.Context, projectID int, subtaskID string) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "RemoveSubtask",
		projectID: projectID,
		source:    "subtask-remove",
		event:     &Event{Kind: EventScheduleEdited, ProjectID: projectID, TaskID: subtaskID},
		fields:    map[string]any{"project_id": projectID, "subtask_id": subtaskID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if !schedule.Remove(&p.Subtasks, subtaskID) {
				return subtaskNotFoundMessage(subtaskID)
			}
			return ""
		}),
	})
}

// checkOptionalDates accepts blank dates, which normalization fills.
func checkOptionalDates(start, end string) string {
	if (start != "" && !calendar.Valid(start)) || (end != "" && !calendar.Valid(end)) {
		return "Dates must be YYYY-MM-DD"
	}
	if start != "" && end != "" && calendar.Before(end, start) {
		return "End date cannot be before start date"
	}
	return ""
}
