package schedule

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func derivedTask(p *domain.Project, name string) *domain.Task {
	key := domain.TaskKey(name)
	for i := range p.Workflow.Execution.Required {
		if domain.TaskKey(p.Workflow.Execution.Required[i].Name) == key {
			return &p.Workflow.Execution.Required[i]
		}
	}
	return nil
}

func activeProject(wf *workflow.Engine) *domain.Project {
	return &domain.Project{
		ID: 1, Name: "Kitchen", Status: domain.StatusActive,
		Start: "2026-02-01", End: "2026-02-20",
		Workflow: wf.DefaultWorkflow(),
	}
}

func TestSync_SubtaskAddedBecomesRequiredTask(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	require.True(t, Insert(&p.Subtasks, "", domain.Subtask{ID: "s1", Name: "Wire frame", Status: domain.StatusPending}))

	assert.True(t, n.SyncRequiredTasksFromSubtasks(p, p.Subtasks))
	task := derivedTask(p, "Wire frame")
	require.NotNil(t, task)
	assert.False(t, task.Done)
	assert.True(t, task.Required)

	Update(p.Subtasks, "s1", func(s *domain.Subtask) { s.Status = domain.StatusDone })
	n.Sync(p)
	assert.True(t, derivedTask(p, "Wire frame").Done)
}

func TestSync_TaskCheckedMarksSubtaskDone(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s1", Name: "Paint", Status: domain.StatusActive}}
	n.Sync(p)

	_, err := wf.SetTaskDone(p, domain.PhaseExecution, derivedTask(p, "Paint").ID, true)
	require.NoError(t, err)
	n.Sync(p)
	assert.Equal(t, domain.StatusDone, p.Subtasks[0].Status)

	_, err = wf.SetTaskDone(p, domain.PhaseExecution, derivedTask(p, "Paint").ID, false)
	require.NoError(t, err)
	n.Sync(p)
	assert.Equal(t, domain.StatusPending, p.Subtasks[0].Status)
	assert.False(t, derivedTask(p, "Paint").Done)
}

func TestNormalizeProject_KeepsUncheckedDerivedTask(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s1", Name: "Paint", Status: domain.StatusDone, Start: "2026-02-02", End: "2026-02-04"}}
	n.NormalizeProject(p, 0, nil)
	require.True(t, derivedTask(p, "Paint").Done)

	_, err := wf.SetTaskDone(p, domain.PhaseExecution, derivedTask(p, "Paint").ID, false)
	require.NoError(t, err)
	n.NormalizeProject(p, 0, nil)
	assert.False(t, derivedTask(p, "Paint").Done)
	assert.Equal(t, domain.StatusPending, p.Subtasks[0].Status)
}

func TestSync_ActiveSubtaskKeptWhileTaskOpen(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s1", Name: "Paint", Status: domain.StatusActive}}
	n.Sync(p)
	assert.Equal(t, domain.StatusActive, p.Subtasks[0].Status)
}

func TestSync_SubtaskReopenedNeedsMarkDerived(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s1", Name: "Paint", Status: domain.StatusDone}}
	n.Sync(p)
	require.True(t, derivedTask(p, "Paint").Done)

	p.Subtasks[0].Status = domain.StatusActive
	assert.True(t, MarkDerivedTask(p, "Paint", false))
	n.Sync(p)
	assert.Equal(t, domain.StatusActive, p.Subtasks[0].Status)
	assert.False(t, derivedTask(p, "Paint").Done)
}

func TestSync_RemovedSubtaskDropsDerivedTask(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s1", Name: "Paint"}, {ID: "s2", Name: "Tile"}}
	n.Sync(p)
	require.Len(t, p.Workflow.Execution.Required, 2)

	Remove(&p.Subtasks, "s1")
	n.Sync(p)
	require.Len(t, p.Workflow.Execution.Required, 1)
	assert.Equal(t, "Tile", p.Workflow.Execution.Required[0].Name)
}

func TestSync_NestedSubtasksStayNested(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "a", Name: "Structure", Children: []domain.Subtask{{ID: "a1", Name: "Beams"}}}}
	n.Sync(p)

	assert.Equal(t, 2, Count(p.Subtasks))
	assert.Len(t, p.Subtasks, 1)
	assert.NotNil(t, derivedTask(p, "Beams"))
}

func TestSync_OrphanDerivedTaskGetsSubtask(t *testing.T) {
	n, wf := newNormalizer()
	p := activeProject(wf)
	p.Workflow.Execution.Required = []domain.Task{{ID: "x", Name: "Inspection", Required: true, Done: true}}

	assert.True(t, n.SyncSubtasksFromRequiredTasks(p))
	require.Len(t, p.Subtasks, 1)
	assert.Equal(t, "Inspection", p.Subtasks[0].Name)
	assert.Equal(t, domain.StatusDone, p.Subtasks[0].Status)
	assert.Equal(t, p.Start, p.Subtasks[0].Start)
	assert.Equal(t, p.End, p.Subtasks[0].End)
}

func TestSync_FixedExecutionRequirementsUntouched(t *testing.T) {
	cfg := workflow.DefaultConfig()
	cfg.Execution.Required = []workflow.TaskDef{{ID: "execution-inspection", Name: "Inspection"}}
	wf := workflow.NewEngine(cfg, nil)
	n := NewNormalizer(wf, fixedClock)
	p := activeProject(wf)
	p.Subtasks = []domain.Subtask{{ID: "s", Name: "inspection"}, {ID: "t", Name: "Paint"}}

	n.Sync(p)
	require.Len(t, p.Workflow.Execution.Required, 2)
	assert.Equal(t, "execution-inspection", p.Workflow.Execution.Required[0].ID)
	assert.Equal(t, "Paint", p.Workflow.Execution.Required[1].Name)
	assert.Len(t, p.Subtasks, 2, "fixed tasks do not spawn subtasks")
}

func snapshotJSON(t *testing.T, p *domain.Project) string {
	t.Helper()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return string(b)
}

func TestSync_ConvergesAfterOnePair(t *testing.T) {
	n, wf := newNormalizer()
	r := rand.New(rand.NewSource(7))
	statuses := []domain.Status{domain.StatusPending, domain.StatusActive, domain.StatusDone}

	for i := 0; i < 200; i++ {
		p := activeProject(wf)
		p.Subtasks = normalizeTree(randomTree(r, 0), p.Start, p.End, testToday)
		for j := 0; j < r.Intn(3); j++ {
			p.Workflow.Execution.Required = append(p.Workflow.Execution.Required, domain.Task{
				ID: "legacy", Name: []string{"Paint", "Inspection", "Wire frame"}[r.Intn(3)],
				Required: true, Done: r.Intn(2) == 0,
			})
		}
		Walk(p.Subtasks, func(s *domain.Subtask) { s.Status = statuses[r.Intn(3)] })

		n.SyncRequiredTasksFromSubtasks(p, p.Subtasks)
		n.SyncSubtasksFromRequiredTasks(p)
		after := snapshotJSON(t, p)

		assert.False(t, n.SyncRequiredTasksFromSubtasks(p, p.Subtasks), "iteration %d", i)
		assert.False(t, n.SyncSubtasksFromRequiredTasks(p), "iteration %d", i)
		require.Equal(t, after, snapshotJSON(t, p))
	}
}
