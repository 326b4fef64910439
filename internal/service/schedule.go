package service

import (
	"context"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/schedule"
)

// EditScheduleRange sets the dates of a project or one of its subtasks. It
// is the single write path for timeline gestures.
func (s *ScheduleStore) EditScheduleRange(ctx context.Context, target app.ScheduleTarget, start, end string) (app.Result, error) {
	source := "gantt-project-dates"
	if target.IsSubtask() {
		source = "gantt-subtask-dates"
	}
	return s.commit(ctx, change{
		useCase:   "EditScheduleRange",
		projectID: target.ProjectID,
		source:    source,
		event:     &Event{Kind: EventScheduleEdited, ProjectID: target.ProjectID, TaskID: target.SubtaskID},
		fields: map[string]any{
			"project_id": target.ProjectID,
			"subtask_id": target.SubtaskID,
			"start":      start,
			"end":        end,
		},
		apply: s.withProject(target.ProjectID, func(p *domain.Project) string {
			if msg := checkRange(start, end); msg != "" {
				return msg
			}
			if !target.IsSubtask() {
				p.Start, p.End = start, end
				return ""
			}
			found := schedule.Update(p.Subtasks, target.SubtaskID, func(n *domain.Subtask) {
				n.Start, n.End = start, end
			})
			if !found {
				return subtaskNotFoundMessage(target.SubtaskID)
			}
			return ""
		}),
	})
}

func checkRange(start, end string) string {
	if !calendar.Valid(start) || !calendar.Valid(end) {
		return "Dates must be YYYY-MM-DD"
	}
	if calendar.Before(end, start) {
		return "End date cannot be before start date"
	}
	return ""
}

func subtaskNotFoundMessage(id string) string {
	return "Subtask " + id + " not found"
}
