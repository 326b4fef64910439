package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/schedule"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, projects ...*domain.Project) (*ScheduleStore, *testutil.MemoryStore) {
	t.Helper()
	values := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		values = append(values, *p)
	}
	mem := testutil.NewMemoryStore(values...)
	s := NewScheduleStore(mem, StoreConfig{Clock: testutil.FixedClock, AutosaveDelay: time.Hour})
	t.Cleanup(s.Close)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, mem
}

func kitchen(opts ...testutil.ProjectOption) *domain.Project {
	base := []testutil.ProjectOption{
		testutil.WithID(1),
		testutil.WithDates("2026-02-01", "2026-02-20"),
		testutil.WithDefaultWorkflow(),
	}
	return testutil.NewTestProject("Kitchen", append(base, opts...)...)
}

func mustProject(t *testing.T, s *ScheduleStore, id int) domain.Project {
	t.Helper()
	p, err := s.Project(id)
	require.NoError(t, err)
	return p
}

func TestLoad_RepairsAndResaves(t *testing.T) {
	p := testutil.NewTestProject("Undated", testutil.WithID(1))
	s, mem := newTestStore(t, p)

	assert.Equal(t, 1, mem.Saves())
	saved := mem.Projects()[0]
	assert.True(t, calendar.Valid(saved.Start))
	assert.True(t, calendar.Valid(saved.End))
	assert.Len(t, saved.Workflow.Intake.Required, 2)
	assert.Equal(t, saved, mustProject(t, s, 1))
}

func TestLoad_EmptyRepositoryDoesNotSave(t *testing.T) {
	s, mem := newTestStore(t)
	assert.Empty(t, s.Projects())
	assert.Zero(t, mem.Saves())
}

func TestLoad_CanonicalDocumentIsNotResaved(t *testing.T) {
	_, mem := newTestStore(t, kitchen())
	before := mem.Saves()
	for i := 0; i < 3; i++ {
		s := NewScheduleStore(mem, StoreConfig{Clock: testutil.FixedClock})
		_, err := s.Load(context.Background())
		require.NoError(t, err)
		s.Close()
		assert.Equal(t, before, mem.Saves(), "load %d", i)
	}
}

func TestLoad_RepositoryError(t *testing.T) {
	s := NewScheduleStore(testutil.NewFailingStore(errors.New("offline")), StoreConfig{Clock: testutil.FixedClock})
	defer s.Close()
	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestTransitionStatus_IntakeGate(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, kitchen())

	res, err := s.TransitionStatus(ctx, 1, domain.StatusActive)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "Materials")
	assert.Contains(t, res.Message, "Blueprints")
	assert.Equal(t, domain.StatusPending, mustProject(t, s, 1).Status)

	for _, id := range []string{"intake-materials", "intake-blueprints"} {
		res, err = s.SetTaskDone(ctx, 1, domain.PhaseIntake, id, true)
		require.NoError(t, err)
		require.True(t, res.OK)
	}
	res, err = s.TransitionStatus(ctx, 1, domain.StatusActive)
	require.NoError(t, err)
	require.True(t, res.OK, res.Message)
	assert.Equal(t, domain.StatusActive, mustProject(t, s, 1).Status)
	assert.Equal(t, domain.StatusActive, mem.Projects()[0].Status)
	assert.Equal(t, "status-active", mustProject(t, s, 1).LastActivitySource)
}

func TestTransitionStatus_BlockedByDependency(t *testing.T) {
	a := testutil.NewTestProject("A", testutil.WithID(1), testutil.WithDefaultWorkflow(), testutil.WithIntakeDone(), testutil.WithDependencies(2))
	b := testutil.NewTestProject("B", testutil.WithID(2), testutil.WithDefaultWorkflow())
	s, _ := newTestStore(t, a, b)

	res, err := s.TransitionStatus(context.Background(), 1, domain.StatusActive)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "dependency")
}

func TestSetTaskDone_UncheckRegressesStatus(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen(testutil.WithIntakeDone(), testutil.WithStatus(domain.StatusActive)))

	res, err := s.SetTaskDone(ctx, 1, domain.PhaseIntake, "intake-materials", false)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, domain.StatusPending, mustProject(t, s, 1).Status)
}

func TestSetTaskDone_UnknownTaskIsValidationFailure(t *testing.T) {
	s, mem := newTestStore(t, kitchen())
	before := mem.Saves()

	res, err := s.SetTaskDone(context.Background(), 1, domain.PhaseIntake, "nope", true)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, before, mem.Saves())
	assert.False(t, s.CanUndo())

	res, err = s.SetTaskDone(context.Background(), 99, domain.PhaseIntake, "intake-materials", true)
	require.NoError(t, err)
	assert.Equal(t, "Project #99 not found", res.Message)
}

func TestOptionalTasks_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	res, err := s.AddOptionalTask(ctx, 1, domain.PhaseIntake, "Permits")
	require.NoError(t, err)
	require.True(t, res.OK)
	view, err := s.View(1)
	require.NoError(t, err)
	var permitID string
	for _, task := range view.Intake.Phase.Optional {
		if task.Name == "Permits" {
			permitID = task.ID
		}
	}
	require.NotEmpty(t, permitID)
	assert.Equal(t, "add-optional-intake", view.Project.LastActivitySource)

	res, err = s.AddOptionalTask(ctx, 1, domain.PhaseIntake, "permits")
	require.NoError(t, err)
	assert.False(t, res.OK, "duplicate names are rejected")

	res, err = s.RenameOptionalTask(ctx, 1, domain.PhaseIntake, permitID, "Building permits")
	require.NoError(t, err)
	require.True(t, res.OK)

	res, err = s.RemoveOptionalTask(ctx, 1, domain.PhaseIntake, "intake-validate")
	require.NoError(t, err)
	require.True(t, res.OK)
	view, err = s.View(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"intake-validate"}, view.Intake.Phase.DeletedDefaultOptionals)
	require.Len(t, view.Intake.Phase.Optional, 1)
	assert.Equal(t, "Building permits", view.Intake.Phase.Optional[0].Name)
}

func TestSubtasks_FeedExecutionChecklist(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen(testutil.WithIntakeDone(), testutil.WithStatus(domain.StatusActive)))

	sub, res, err := s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "Wire frame"})
	require.NoError(t, err)
	require.True(t, res.OK, res.Message)
	assert.NotEmpty(t, sub.ID)

	required := func() []domain.Task {
		view, err := s.View(1)
		require.NoError(t, err)
		return view.Execution.Phase.Required
	}
	require.Len(t, required(), 1)
	assert.Equal(t, "Wire frame", required()[0].Name)
	assert.False(t, required()[0].Done)

	done := domain.StatusDone
	res, err = s.UpdateSubtask(ctx, 1, sub.ID, app.SubtaskPatch{Status: &done})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.True(t, required()[0].Done)
	assert.Equal(t, domain.StatusActive, mustProject(t, s, 1).Status, "status never advances on its own")

	active := domain.StatusActive
	res, err = s.UpdateSubtask(ctx, 1, sub.ID, app.SubtaskPatch{Status: &active})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.False(t, required()[0].Done, "reopening the subtask reopens its task")

	res, err = s.RemoveSubtask(ctx, 1, sub.ID)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Empty(t, required())
}

func TestSetTaskDone_UncheckingDerivedTaskReopensSubtask(t *testing.T) {
	ctx := context.Background()
	p := kitchen(testutil.WithIntakeDone(), testutil.WithStatus(domain.StatusActive),
		testutil.WithSubtasks(testutil.NewTestSubtask("s1", "Paint", testutil.WithSubtaskStatus(domain.StatusDone))))
	s, _ := newTestStore(t, p)

	view, err := s.View(1)
	require.NoError(t, err)
	require.Len(t, view.Execution.Phase.Required, 1)
	taskID := view.Execution.Phase.Required[0].ID
	require.True(t, view.Execution.Phase.Required[0].Done)

	res, err := s.SetTaskDone(ctx, 1, domain.PhaseExecution, taskID, false)
	require.NoError(t, err)
	require.True(t, res.OK)

	sub, err := s.Subtask(1, "s1")
	require.NoError(t, err)
	assert.NotEqual(t, domain.StatusDone, sub.Status)
	view, err = s.View(1)
	require.NoError(t, err)
	assert.False(t, view.Execution.Phase.Required[0].Done)
}

func TestAddSubtask_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	_, res, err := s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "  "})
	require.NoError(t, err)
	assert.False(t, res.OK)

	_, res, err = s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "x", ParentID: "missing"})
	require.NoError(t, err)
	assert.False(t, res.OK)

	_, res, err = s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "x", Start: "2026-02-05", End: "2026-02-01"})
	require.NoError(t, err)
	assert.False(t, res.OK)

	parent, res, err := s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "Walls"})
	require.NoError(t, err)
	require.True(t, res.OK)
	child, res, err := s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "Plaster", ParentID: parent.ID})
	require.NoError(t, err)
	require.True(t, res.OK)

	p := mustProject(t, s, 1)
	require.Len(t, p.Subtasks, 1)
	require.Len(t, p.Subtasks[0].Children, 1)
	assert.Equal(t, child.ID, p.Subtasks[0].Children[0].ID)
}

func TestEditScheduleRange_GestureCommitsAndRevertsOnFailure(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, kitchen())
	ctrl := gantt.NewController(s, gantt.DefaultDayWidth)

	drag := func() (app.Result, error) {
		chart := s.Gantt(gantt.Options{})
		row, ok := chart.Row(gantt.ProjectRowID(1))
		require.True(t, ok)
		require.NoError(t, ctrl.PointerDown(row, gantt.ZoneBody, 100))
		return ctrl.PointerUp(ctx, 100+3*gantt.DefaultDayWidth)
	}

	mem.FailSaves(errors.New("disk full"))
	res, err := drag()
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.False(t, res.OK)
	p := mustProject(t, s, 1)
	assert.Equal(t, "2026-02-01", p.Start)
	assert.Equal(t, "2026-02-20", p.End)
	assert.False(t, s.CanUndo(), "failed edits leave no history")
	assert.ErrorIs(t, s.LastError(), ErrSaveFailed)

	mem.FailSaves(nil)
	res, err = drag()
	require.NoError(t, err)
	require.True(t, res.OK)
	p = mustProject(t, s, 1)
	assert.Equal(t, "2026-02-04", p.Start)
	assert.Equal(t, "2026-02-23", p.End)
	assert.Equal(t, "gantt-project-dates", p.LastActivitySource)
	assert.NoError(t, s.LastError())
	assert.Equal(t, "2026-02-04", mem.Projects()[0].Start)
}

func TestEditScheduleRange_Subtask(t *testing.T) {
	ctx := context.Background()
	p := kitchen(testutil.WithSubtasks(testutil.NewTestSubtask("s1", "Paint", testutil.WithSubtaskDates("2026-02-02", "2026-02-04"))))
	s, _ := newTestStore(t, p)

	res, err := s.EditScheduleRange(ctx, app.ScheduleTarget{ProjectID: 1, SubtaskID: "s1"}, "2026-02-05", "2026-02-08")
	require.NoError(t, err)
	require.True(t, res.OK)
	sub, err := s.Subtask(1, "s1")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05", sub.Start)
	assert.Equal(t, "2026-02-08", sub.End)
	assert.Equal(t, "gantt-subtask-dates", mustProject(t, s, 1).LastActivitySource)

	res, err = s.EditScheduleRange(ctx, app.ScheduleTarget{ProjectID: 1, SubtaskID: "nope"}, "2026-02-05", "2026-02-08")
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = s.EditScheduleRange(ctx, app.ScheduleTarget{ProjectID: 1}, "2026-02-09", "2026-02-05")
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = s.EditScheduleRange(ctx, app.ScheduleTarget{ProjectID: 1}, "02/09/2026", "2026-02-05")
	require.NoError(t, err)
	assert.False(t, res.OK)
}

func TestUndoRedo_TwoStepsInOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())
	original := s.Projects()

	first, second := "Kitchen v2", "Kitchen v3"
	_, err := s.EditProject(ctx, 1, app.ProjectPatch{Name: &first})
	require.NoError(t, err)
	afterFirst := s.Projects()
	_, err = s.EditProject(ctx, 1, app.ProjectPatch{Name: &second})
	require.NoError(t, err)
	afterSecond := s.Projects()

	_, err = s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, s.Projects())
	_, err = s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, s.Projects())

	res, err := s.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Nothing to undo", res.Message)

	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, s.Projects())
	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, afterSecond, s.Projects())
	assert.False(t, s.CanRedo())
}

func TestUndo_SaveFailureKeepsStacks(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, kitchen())
	name := "Renamed"
	_, err := s.EditProject(ctx, 1, app.ProjectPatch{Name: &name})
	require.NoError(t, err)

	mem.FailSaves(errors.New("offline"))
	res, err := s.Undo(ctx)
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.False(t, res.OK)
	assert.Equal(t, "Renamed", mustProject(t, s, 1).Name)
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())

	mem.FailSaves(nil)
	_, err = s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", mustProject(t, s, 1).Name)
	assert.True(t, s.CanRedo())
}

func TestCommit_NoChangeIsNotRecorded(t *testing.T) {
	s, mem := newTestStore(t, kitchen())
	before := mem.Saves()
	same := "Kitchen"

	res, err := s.EditProject(context.Background(), 1, app.ProjectPatch{Name: &same})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, before, mem.Saves())
	assert.False(t, s.CanUndo())
}

func TestCommit_DegradedSave(t *testing.T) {
	s, mem := newTestStore(t, kitchen())
	mem.Degrade(repository.SaveOutcome{Degraded: true, Notes: []string{"inline images dropped to fit local storage: #1"}})

	var events []Event
	s.OnEvent(func(ev Event) { events = append(events, ev) })
	owner := "Ana"
	res, err := s.EditProject(context.Background(), 1, app.ProjectPatch{Owner: &owner})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Message, "inline images dropped")
	require.Len(t, events, 1)
	assert.True(t, events[0].Degraded)
}

func TestDateInvariantAfterOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	_, res, err := s.CreateProject(ctx, app.ProjectInput{Name: "Inverted", Start: "2026-02-10", End: "2026-02-01"})
	require.NoError(t, err)
	require.True(t, res.OK)
	_, res, err = s.CreateProject(ctx, app.ProjectInput{Name: "Undated"})
	require.NoError(t, err)
	require.True(t, res.OK)
	_, _, err = s.AddSubtask(ctx, 1, app.SubtaskInput{Name: "Tiles", Start: "2026-02-03"})
	require.NoError(t, err)
	_, err = s.EditScheduleRange(ctx, app.ScheduleTarget{ProjectID: 1}, "2026-02-05", "2026-02-06")
	require.NoError(t, err)

	for _, p := range s.Projects() {
		assert.False(t, calendar.Before(p.End, p.Start), "project %d", p.ID)
		schedule.Walk(p.Subtasks, func(n *domain.Subtask) {
			assert.True(t, calendar.Valid(n.Start) && calendar.Valid(n.End))
			assert.False(t, calendar.Before(n.End, n.Start), "subtask %s", n.ID)
		})
	}
	inverted := mustProject(t, s, 2)
	assert.Equal(t, "2026-02-11", inverted.End)
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	p, res, err := s.CreateProject(ctx, app.ProjectInput{Name: " Roof ", Owner: "Luis", Dependencies: []int{1}})
	require.NoError(t, err)
	require.True(t, res.OK, res.Message)
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "Roof", p.Name)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Equal(t, []int{1}, p.Dependencies)
	assert.Len(t, p.Workflow.Intake.Required, 2)
	assert.Equal(t, "project-create", p.LastActivitySource)

	_, res, err = s.CreateProject(ctx, app.ProjectInput{Name: ""})
	require.NoError(t, err)
	assert.False(t, res.OK)

	_, res, err = s.CreateProject(ctx, app.ProjectInput{Name: "Bad", Dependencies: []int{42}})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "#42")
}

func TestSetDependenciesAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen(), testutil.NewTestProject("Roof", testutil.WithID(2)))

	res, err := s.SetDependencies(ctx, 2, []int{2})
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = s.SetDependencies(ctx, 2, []int{1})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, []int{1}, mustProject(t, s, 2).Dependencies)

	_, err = s.Select(ctx, 1)
	require.NoError(t, err)
	res, err = s.DeleteProject(ctx, 1)
	require.NoError(t, err)
	require.True(t, res.OK)
	editing, index := s.Selection()
	assert.Zero(t, editing)
	assert.Zero(t, index)
	_, err = s.Project(1)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	view, err := s.View(2)
	require.NoError(t, err)
	assert.Empty(t, view.Blocking, "dependencies on deleted projects are ignored")

	res, err = s.DeleteProject(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.OK)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	res, err := s.AddComment(ctx, 1, "", "   ")
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = s.AddComment(ctx, 1, "", "Tiles arrive Monday")
	require.NoError(t, err)
	require.True(t, res.OK)
	comments := mustProject(t, s, 1).Comments
	require.Len(t, comments, 1)
	assert.Equal(t, "Anonymous", comments[0].Author)
	assert.NotEmpty(t, comments[0].ID)
	assert.Equal(t, testutil.FixedNow.Format(time.RFC3339), comments[0].CreatedAt)
}

func TestApplyRemote_ListenerMutationsAreNotSaved(t *testing.T) {
	s, mem := newTestStore(t, kitchen())
	stop := s.Watch()
	defer stop()

	var syncingSeen bool
	s.OnEvent(func(ev Event) {
		if ev.Kind != EventRemoteApplied {
			return
		}
		syncingSeen = s.Syncing()
		owner := "Listener"
		_, err := s.EditProject(context.Background(), 1, app.ProjectPatch{Owner: &owner})
		assert.NoError(t, err)
	})

	remote := mem.Projects()
	remote[0].Name = "Kitchen (remote)"
	before := mem.Saves()
	mem.Publish(remote)

	assert.True(t, syncingSeen)
	assert.False(t, s.Syncing())
	assert.Equal(t, before, mem.Saves())
	p := mustProject(t, s, 1)
	assert.Equal(t, "Kitchen (remote)", p.Name)
	assert.Equal(t, "Listener", p.Owner)
}

func TestAutosave_FlushBeforeUndo(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())
	name, owner := "Queued", "Ana"
	s.QueueEdit(1, app.ProjectPatch{Name: &name})
	s.QueueEdit(1, app.ProjectPatch{Owner: &owner})
	assert.Equal(t, "Kitchen", mustProject(t, s, 1).Name, "nothing commits before the flush")

	_, err := s.Undo(ctx)
	require.NoError(t, err)
	p := mustProject(t, s, 1)
	assert.Equal(t, "Kitchen", p.Name)
	assert.Empty(t, p.Owner)

	_, err = s.Redo(ctx)
	require.NoError(t, err)
	p = mustProject(t, s, 1)
	assert.Equal(t, "Queued", p.Name)
	assert.Equal(t, "Ana", p.Owner)
}

func TestAutosave_FailedFlushKeepsEdits(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, kitchen(), kitchen(testutil.WithID(2)))
	first, second := "Kitchen A", "Kitchen B"
	s.QueueEdit(1, app.ProjectPatch{Name: &first})
	s.QueueEdit(2, app.ProjectPatch{Name: &second})

	mem.FailSaves(errors.New("offline"))
	_, err := s.FlushEdits(ctx)
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.True(t, s.autosaver.Pending())
	assert.Equal(t, "Kitchen", mustProject(t, s, 1).Name)
	assert.Equal(t, "Kitchen", mustProject(t, s, 2).Name)

	later := "Kitchen B2"
	s.QueueEdit(2, app.ProjectPatch{Name: &later})
	mem.FailSaves(nil)
	res, err := s.FlushEdits(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.False(t, s.autosaver.Pending())
	assert.Equal(t, "Kitchen A", mustProject(t, s, 1).Name)
	assert.Equal(t, "Kitchen B2", mustProject(t, s, 2).Name)
}

func TestAutosave_TimerCommits(t *testing.T) {
	mem := testutil.NewMemoryStore(*kitchen())
	s := NewScheduleStore(mem, StoreConfig{Clock: testutil.FixedClock, AutosaveDelay: 10 * time.Millisecond})
	defer s.Close()
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	tag := "Renovation"
	s.QueueEdit(1, app.ProjectPatch{Tag: &tag})
	require.Eventually(t, func() bool {
		p, err := s.Project(1)
		return err == nil && p.Tag == "Renovation"
	}, time.Second, 5*time.Millisecond)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, kitchen())

	var events []Event
	stop := s.OnEvent(func(ev Event) { events = append(events, ev) })

	_, err := s.SetTaskDone(ctx, 1, domain.PhaseIntake, "intake-materials", true)
	require.NoError(t, err)
	_, err = s.SetTaskDone(ctx, 1, domain.PhaseIntake, "missing", true)
	require.NoError(t, err)
	_, err = s.Undo(ctx)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventTaskToggled, ProjectID: 1, Phase: domain.PhaseIntake, TaskID: "intake-materials"}, events[0])
	assert.Equal(t, EventHistoryApplied, events[1].Kind)

	stop()
	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestObserver_LogsUseCases(t *testing.T) {
	var buf bytes.Buffer
	mem := testutil.NewMemoryStore(*kitchen())
	s := NewScheduleStore(mem, StoreConfig{Clock: testutil.FixedClock}, NewLogUseCaseObserver(&buf))
	defer s.Close()
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	_, err = s.SetTaskDone(ctx, 1, domain.PhaseIntake, "intake-materials", true)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "use_case=SetTaskDone")
	assert.Contains(t, out, "ok=true")
	assert.Contains(t, out, "task_id=intake-materials")

	_, err = s.SetTaskDone(ctx, 1, domain.PhaseIntake, "no-such-task", true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "reason=")

	mem.FailSaves(errors.New("disk full"))
	_, err = s.SetTaskDone(ctx, 1, domain.PhaseIntake, "intake-blueprints", true)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestRiskAndGantt(t *testing.T) {
	late := kitchen(testutil.WithDates("2026-01-01", "2026-01-20"))
	s, _ := newTestStore(t, late)

	summary, err := s.Risk(1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProjectID)
	assert.Equal(t, 50, summary.Progress)
	assert.Contains(t, summary.Alerts, "Required materials missing")
	assert.Equal(t, domain.RiskHigh, summary.Level)
	assert.Len(t, s.RiskAll(), 1)

	chart := s.Gantt(gantt.Options{})
	row, ok := chart.Row(gantt.ProjectRowID(1))
	require.True(t, ok)
	assert.True(t, row.Delayed)
	assert.Equal(t, summary.Progress, row.Progress)
	assert.True(t, row.Critical)

	_, err = s.Risk(7)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
