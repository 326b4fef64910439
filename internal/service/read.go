package service

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/alexanderramin/planboard/internal/schedule"
	"github.com/alexanderramin/planboard/internal/scheduler"
)

// PhaseView is one checklist phase with its derived counters.
type PhaseView struct {
	Name    domain.PhaseName
	Phase   domain.Phase
	Missing []string
	Total   int
	Done    int
}

// ProjectView is everything a detail screen shows about one project.
type ProjectView struct {
	Project   domain.Project
	Progress  int
	Derived   domain.Status
	Intake    PhaseView
	Execution PhaseView
	Blocking  []int
	Risk      scheduler.RiskResult
}

// Projects returns a copy of the board in stored order.
func (s *ScheduleStore) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneProjects(s.projects)
}

func (s *ScheduleStore) Project(projectID int) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.FindProject(s.projects, projectID)
	if p == nil {
		return domain.Project{}, projectNotFound(projectID)
	}
	return p.Clone(), nil
}

func (s *ScheduleStore) Subtask(projectID int, subtaskID string) (domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.FindProject(s.projects, projectID)
	if p == nil {
		return domain.Subtask{}, projectNotFound(projectID)
	}
	node := schedule.Find(p.Subtasks, subtaskID)
	if node == nil {
		return domain.Subtask{}, fmt.Errorf("subtask %s: %w", subtaskID, ErrSubtaskNotFound)
	}
	return node.Clone(), nil
}

func (s *ScheduleStore) View(projectID int) (ProjectView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.FindProject(s.projects, projectID)
	if p == nil {
		return ProjectView{}, projectNotFound(projectID)
	}
	return ProjectView{
		Project:   p.Clone(),
		Progress:  s.wf.Progress(p),
		Derived:   s.wf.DeriveStatus(p),
		Intake:    s.phaseViewLocked(p, domain.PhaseIntake),
		Execution: s.phaseViewLocked(p, domain.PhaseExecution),
		Blocking:  scheduler.BlockingDependencies(p, s.projects),
		Risk:      s.riskLocked(p),
	}, nil
}

func (s *ScheduleStore) phaseViewLocked(p *domain.Project, name domain.PhaseName) PhaseView {
	total, done := s.wf.PhaseCounters(p, name)
	return PhaseView{
		Name:    name,
		Phase:   p.Workflow.Phase(name).Clone(),
		Missing: s.wf.MissingRequired(p, name),
		Total:   total,
		Done:    done,
	}
}

func (s *ScheduleStore) Progress(projectID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.FindProject(s.projects, projectID)
	if p == nil {
		return 0, projectNotFound(projectID)
	}
	return s.wf.Progress(p), nil
}

func (s *ScheduleStore) riskLocked(p *domain.Project) scheduler.RiskResult {
	return s.risk(scheduler.RiskInput{
		Project:          p,
		All:              s.projects,
		Today:            calendar.Today(s.clock),
		Progress:         s.wf.Progress(p),
		MissingIntake:    s.wf.MissingRequired(p, domain.PhaseIntake),
		MissingExecution: s.wf.MissingRequired(p, domain.PhaseExecution),
	})
}

func (s *ScheduleStore) summaryLocked(p *domain.Project) app.RiskSummary {
	r := s.riskLocked(p)
	return app.RiskSummary{
		ProjectID:    p.ID,
		ProjectName:  p.DisplayName(),
		Level:        r.Level,
		Score:        r.Score,
		Alerts:       append([]string(nil), r.Alerts...),
		Progress:     s.wf.Progress(p),
		DelayPercent: r.DelayPercent,
		DaysLeft:     r.DaysLeft,
	}
}

// Risk evaluates one project against the rest of the board.
func (s *ScheduleStore) Risk(projectID int) (app.RiskSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.FindProject(s.projects, projectID)
	if p == nil {
		return app.RiskSummary{}, projectNotFound(projectID)
	}
	return s.summaryLocked(p), nil
}

// RiskAll evaluates every project, in stored order.
func (s *ScheduleStore) RiskAll() []app.RiskSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]app.RiskSummary, 0, len(s.projects))
	for i := range s.projects {
		out = append(out, s.summaryLocked(&s.projects[i]))
	}
	return out
}

// Gantt lays out the current board. Progress and risk come from the store
// unless opts overrides them.
func (s *ScheduleStore) Gantt(opts gantt.Options) gantt.Chart {
	s.mu.Lock()
	projects := domain.CloneProjects(s.projects)
	progress := make(map[int]int, len(s.projects))
	risk := make(map[int]domain.RiskLevel, len(s.projects))
	for i := range s.projects {
		p := &s.projects[i]
		progress[p.ID] = s.wf.Progress(p)
		risk[p.ID] = s.riskLocked(p).Level
	}
	if opts.Today.IsZero() {
		opts.Today = s.clock()
	}
	s.mu.Unlock()

	if opts.Progress == nil {
		opts.Progress = func(p *domain.Project) int { return progress[p.ID] }
	}
	if opts.Risk == nil {
		opts.Risk = func(p *domain.Project) domain.RiskLevel { return risk[p.ID] }
	}
	return gantt.Layout(projects, opts)
}
