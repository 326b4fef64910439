package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

// CreateProject appends a pending project with the default checklist.
// Missing dates are filled by normalization.
func (s *ScheduleStore) CreateProject(ctx context.Context, in app.ProjectInput) (domain.Project, app.Result, error) {
	var createdID int
	ev := &Event{Kind: EventProjectChanged}
	res, err := s.commit(ctx, change{
		useCase: "CreateProject",
		event:   ev,
		fields:  map[string]any{"name": in.Name},
		apply: func() string {
			p := domain.Project{
				ID:     domain.NextProjectID(s.projects),
				Name:   strings.TrimSpace(in.Name),
				Owner:  strings.TrimSpace(in.Owner),
				Tag:    strings.TrimSpace(in.Tag),
				Image:  strings.TrimSpace(in.Image),
				Start:  strings.TrimSpace(in.Start),
				End:    strings.TrimSpace(in.End),
				Status: domain.StatusPending,
			}
			if msg := s.checkDependencies(p.ID, in.Dependencies); msg != "" {
				return msg
			}
			p.Dependencies = append([]int(nil), in.Dependencies...)
			if err := p.Validate(); err != nil {
				return err.Error()
			}
			p.Workflow = s.wf.DefaultWorkflow()
			p.TouchActivity(s.clock(), "project-create")
			s.projects = append(s.projects, p)
			createdID = p.ID
			ev.ProjectID = p.ID
			return ""
		},
	})
	if err != nil || !res.OK {
		return domain.Project{}, res, err
	}
	p, err := s.Project(createdID)
	return p, res, err
}

// EditProject applies direct field edits.
func (s *ScheduleStore) EditProject(ctx context.Context, projectID int, patch app.ProjectPatch) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "EditProject",
		projectID: projectID,
		source:    "project-edit",
		event:     &Event{Kind: EventProjectChanged, ProjectID: projectID},
		fields:    map[string]any{"project_id": projectID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if patch.Name != nil {
				p.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Owner != nil {
				p.Owner = strings.TrimSpace(*patch.Owner)
			}
			if patch.Tag != nil {
				p.Tag = strings.TrimSpace(*patch.Tag)
			}
			if patch.Image != nil {
				p.Image = strings.TrimSpace(*patch.Image)
			}
			if patch.End != nil {
				end := strings.TrimSpace(*patch.End)
				if end != "" && calendar.Valid(p.Start) && calendar.Before(end, p.Start) {
					return "End date cannot be before start date"
				}
				p.End = end
			}
			if err := p.Validate(); err != nil {
				return err.Error()
			}
			return ""
		}),
	})
}

// SetDependencies replaces the projects that must be done before projectID
// can start.
func (s *ScheduleStore) SetDependencies(ctx context.Context, projectID int, deps []int) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "SetDependencies",
		projectID: projectID,
		source:    "project-dependencies",
		event:     &Event{Kind: EventProjectChanged, ProjectID: projectID},
		fields:    map[string]any{"project_id": projectID, "dependencies": domain.FormatDependencies(deps)},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			if msg := s.checkDependencies(projectID, deps); msg != "" {
				return msg
			}
			p.Dependencies = append([]int(nil), deps...)
			return ""
		}),
	})
}

func (s *ScheduleStore) checkDependencies(self int, deps []int) string {
	for _, dep := range deps {
		if dep == self {
			return fmt.Sprintf("Project #%d cannot depend on itself", self)
		}
		if domain.FindProject(s.projects, dep) == nil {
			return fmt.Sprintf("Dependency #%d does not exist", dep)
		}
	}
	return ""
}

// DeleteProject removes a project. Dependencies pointing at it are left in
// place and ignored from then on.
func (s *ScheduleStore) DeleteProject(ctx context.Context, projectID int) (app.Result, error) {
	return s.commit(ctx, change{
		useCase: "DeleteProject",
		event:   &Event{Kind: EventProjectChanged, ProjectID: projectID},
		fields:  map[string]any{"project_id": projectID},
		apply: func() string {
			idx := -1
			for i := range s.projects {
				if s.projects[i].ID == projectID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return notFoundMessage(projectID)
			}
			s.projects = append(s.projects[:idx:idx], s.projects[idx+1:]...)
			if s.editingID == projectID {
				s.editingID = 0
			}
			s.clampSelectionLocked()
			return ""
		},
	})
}

// AddComment appends a comment to the project's discussion.
func (s *ScheduleStore) AddComment(ctx context.Context, projectID int, author, body string) (app.Result, error) {
	return s.commit(ctx, change{
		useCase:   "AddComment",
		projectID: projectID,
		source:    "comment",
		event:     &Event{Kind: EventProjectChanged, ProjectID: projectID},
		fields:    map[string]any{"project_id": projectID},
		apply: s.withProject(projectID, func(p *domain.Project) string {
			body = strings.TrimSpace(body)
			if body == "" {
				return "Comment cannot be empty"
			}
			p.Comments = append(p.Comments, domain.Comment{
				ID:        uuid.NewString(),
				Author:    domain.CoalesceStr(strings.TrimSpace(author), "Anonymous"),
				Body:      body,
				CreatedAt: s.clock().UTC().Format(time.RFC3339),
			})
			return ""
		}),
	})
}
