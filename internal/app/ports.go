package app

import (
	"context"

	"github.com/alexanderramin/planboard/internal/domain"
)

type ChecklistUseCase interface {
	SetTaskDone(ctx context.Context, projectID int, phase domain.PhaseName, taskID string, done bool) (Result, error)
	AddOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, name string) (Result, error)
	RenameOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, taskID, name string) (Result, error)
	RemoveOptionalTask(ctx context.Context, projectID int, phase domain.PhaseName, taskID string) (Result, error)
}

type StatusUseCase interface {
	TransitionStatus(ctx context.Context, projectID int, target domain.Status) (Result, error)
}

type ScheduleUseCase interface {
	EditScheduleRange(ctx context.Context, target ScheduleTarget, start, end string) (Result, error)
}

type HistoryUseCase interface {
	Undo(ctx context.Context) (Result, error)
	Redo(ctx context.Context) (Result, error)
}

type ProjectUseCase interface {
	CreateProject(ctx context.Context, in ProjectInput) (domain.Project, Result, error)
	EditProject(ctx context.Context, projectID int, patch ProjectPatch) (Result, error)
	SetDependencies(ctx context.Context, projectID int, deps []int) (Result, error)
	DeleteProject(ctx context.Context, projectID int) (Result, error)
	AddComment(ctx context.Context, projectID int, author, body string) (Result, error)
}

type SubtaskUseCase interface {
	AddSubtask(ctx context.Context, projectID int, in SubtaskInput) (domain.Subtask, Result, error)
	UpdateSubtask(ctx context.Context, projectID int, subtaskID string, patch SubtaskPatch) (Result, error)
	RemoveSubtask(ctx context.Context, projectID int, subtaskID string) (Result, error)
}
