package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/history"
	"github.com/alexanderramin/planboard/internal/workflow"
)

var testProjectIDCounter atomic.Int64

// FixedNow is the instant every fixture and fixed clock agrees on.
var FixedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// FixedClock always returns FixedNow.
func FixedClock() time.Time { return FixedNow }

// Project options
type ProjectOption func(*domain.Project)

func WithID(id int) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithStatus(s domain.Status) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithDates(start, end string) ProjectOption {
	return func(p *domain.Project) {
		p.Start = start
		p.End = end
	}
}

func WithOwner(owner string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = owner
	}
}

func WithImage(image string) ProjectOption {
	return func(p *domain.Project) {
		p.Image = image
	}
}

func WithDependencies(ids ...int) ProjectOption {
	return func(p *domain.Project) {
		p.Dependencies = append([]int(nil), ids...)
	}
}

func WithSubtasks(nodes ...domain.Subtask) ProjectOption {
	return func(p *domain.Project) {
		p.Subtasks = domain.CloneSubtasks(nodes)
	}
}

// WithDefaultWorkflow installs the checklist of the default configuration.
func WithDefaultWorkflow() ProjectOption {
	return func(p *domain.Project) {
		p.Workflow = workflow.NewEngine(workflow.DefaultConfig(), nil).DefaultWorkflow()
	}
}

// WithIntakeDone ticks every intake required task. Apply after the
// workflow is in place.
func WithIntakeDone() ProjectOption {
	return func(p *domain.Project) {
		for i := range p.Workflow.Intake.Required {
			p.Workflow.Intake.Required[i].Done = true
		}
	}
}

// NewTestProject returns a pending project with fixed timestamps. Unless
// WithID is given, ids come from a package counter.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	stamp := FixedNow.Format(time.RFC3339)
	p := &domain.Project{
		ID:             int(testProjectIDCounter.Add(1)) + 1000,
		Name:           name,
		Status:         domain.StatusPending,
		CreatedAt:      stamp,
		LastActivityAt: stamp,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subtask options
type SubtaskOption func(*domain.Subtask)

func WithSubtaskStatus(s domain.Status) SubtaskOption {
	return func(n *domain.Subtask) {
		n.Status = s
	}
}

func WithSubtaskDates(start, end string) SubtaskOption {
	return func(n *domain.Subtask) {
		n.Start = start
		n.End = end
	}
}

func WithChildren(children ...domain.Subtask) SubtaskOption {
	return func(n *domain.Subtask) {
		n.Children = domain.CloneSubtasks(children)
	}
}

func NewTestSubtask(id, name string, opts ...SubtaskOption) domain.Subtask {
	n := domain.Subtask{ID: id, Name: name, Status: domain.StatusPending}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// NewTestStacks builds history stacks with one snapshot per board on the
// undo stack, oldest first.
func NewTestStacks(boards ...[]domain.Project) history.Stacks {
	var stacks history.Stacks
	for _, b := range boards {
		stacks.Undo = append(stacks.Undo, history.NewSnapshot(b, 0, 0))
	}
	return stacks
}
