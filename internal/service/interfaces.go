package service

import (
	"context"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
)

// Board is the surface the command line and the board view drive.
type Board interface {
	app.ChecklistUseCase
	app.StatusUseCase
	app.ScheduleUseCase
	app.HistoryUseCase
	app.ProjectUseCase
	app.SubtaskUseCase

	Load(ctx context.Context) (app.Result, error)
	Watch() func()
	OnEvent(fn func(Event)) func()

	Projects() []domain.Project
	Project(projectID int) (domain.Project, error)
	View(projectID int) (ProjectView, error)
	Gantt(opts gantt.Options) gantt.Chart
	Risk(projectID int) (app.RiskSummary, error)
	RiskAll() []app.RiskSummary
	CanUndo() bool
	CanRedo() bool
	LastError() error

	Select(ctx context.Context, projectID int) (app.Result, error)
	Selection() (editingID, currentIndex int)
	QueueEdit(projectID int, patch app.ProjectPatch)
	FlushEdits(ctx context.Context) (app.Result, error)
	ImportFile(ctx context.Context, path string, opts ImportOptions) (ImportReport, app.Result, error)
	Close()
}

var _ Board = (*ScheduleStore)(nil)
