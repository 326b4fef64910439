package workflow

import (
	"testing"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTaskDone(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)

	changed, err := e.SetTaskDone(p, domain.PhaseIntake, "intake-materials", true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.SetTaskDone(p, domain.PhaseIntake, "intake-materials", true)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = e.SetTaskDone(p, domain.PhaseIntake, "missing", true)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = e.SetTaskDone(p, "bogus", "intake-materials", true)
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestSetTaskDone_UncheckReopensMirroredSubtasks(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)
	p.Workflow.Execution.Required = []domain.Task{{ID: "execution-req-paint", Name: "Paint", Required: true, Done: true}}
	p.Subtasks = []domain.Subtask{
		{ID: "a", Name: "Walls", Status: domain.StatusDone, Children: []domain.Subtask{
			{ID: "a1", Name: "paint", Status: domain.StatusDone},
		}},
		{ID: "b", Name: "Paint", Status: domain.StatusDone},
	}

	changed, err := e.SetTaskDone(p, domain.PhaseExecution, "execution-req-paint", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusDone, p.Subtasks[0].Status)
	assert.Equal(t, domain.StatusPending, p.Subtasks[0].Children[0].Status)
	assert.Equal(t, domain.StatusPending, p.Subtasks[1].Status)
}

func TestAddOptional_RejectsDuplicates(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)

	task, err := e.AddOptional(p, domain.PhaseIntake, "  Call supplier ")
	require.NoError(t, err)
	assert.Equal(t, "Call supplier", task.Name)
	assert.Equal(t, "intake-opt-call-supplier", task.ID)

	_, err = e.AddOptional(p, domain.PhaseIntake, "CALL supplier!")
	assert.ErrorIs(t, err, ErrDuplicateTask)
	_, err = e.AddOptional(p, domain.PhaseIntake, "materials")
	assert.ErrorIs(t, err, ErrDuplicateTask, "collides with a required task")
	_, err = e.AddOptional(p, domain.PhaseIntake, " ?? ")
	assert.ErrorIs(t, err, ErrBlankName)
}

func TestAddOptional_UniqueIDAfterRename(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)
	first, err := e.AddOptional(p, domain.PhaseExecution, "Paint")
	require.NoError(t, err)
	require.NoError(t, e.RenameOptional(p, domain.PhaseExecution, first.ID, "Varnish"))

	second, err := e.AddOptional(p, domain.PhaseExecution, "Paint")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRenameOptional(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)
	_, err := e.AddOptional(p, domain.PhaseIntake, "Call supplier")
	require.NoError(t, err)

	assert.ErrorIs(t, e.RenameOptional(p, domain.PhaseIntake, "intake-validate", "call SUPPLIER"), ErrDuplicateTask)
	assert.ErrorIs(t, e.RenameOptional(p, domain.PhaseIntake, "intake-materials", "Stuff"), ErrRequiredTask)
	assert.ErrorIs(t, e.RenameOptional(p, domain.PhaseIntake, "nope", "Stuff"), ErrTaskNotFound)
	assert.ErrorIs(t, e.RenameOptional(p, domain.PhaseIntake, "intake-validate", ""), ErrBlankName)

	require.NoError(t, e.RenameOptional(p, domain.PhaseIntake, "intake-validate", "validate "))
	require.NoError(t, e.RenameOptional(p, domain.PhaseIntake, "intake-validate", "Review"))
	assert.Equal(t, "Review", p.Workflow.Intake.FindTask("intake-validate").Name)
}

func TestRemoveOptional_RecordsDefault(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)

	removed, recorded, err := e.RemoveOptional(p, domain.PhaseIntake, "intake-validate")
	require.NoError(t, err)
	assert.True(t, recorded)
	assert.Equal(t, "Validate", removed.Name)
	assert.Equal(t, []string{"intake-validate"}, p.Workflow.Intake.DeletedDefaultOptionals)

	assert.False(t, e.NormalizeWorkflow(p, nil), "normalization does not resurrect the default")
	assert.Empty(t, p.Workflow.Intake.Optional)
}

func TestRemoveOptional_UserTaskNotRecorded(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)
	task, err := e.AddOptional(p, domain.PhaseIntake, "Call supplier")
	require.NoError(t, err)

	_, recorded, err := e.RemoveOptional(p, domain.PhaseIntake, task.ID)
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Empty(t, p.Workflow.Intake.DeletedDefaultOptionals)
}

func TestRemoveOptional_Errors(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	p := newTestProject(e)

	_, _, err := e.RemoveOptional(p, domain.PhaseIntake, "intake-blueprints")
	assert.ErrorIs(t, err, ErrRequiredTask)
	_, _, err = e.RemoveOptional(p, domain.PhaseIntake, "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
