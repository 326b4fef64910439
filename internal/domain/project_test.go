package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	p := &Project{ID: 1, Name: "Kitchen", Start: "2026-02-01", End: "2026-02-20", Dependencies: []int{2}}
	assert.NoError(t, p.Validate())
}

func TestValidate_BlankName(t *testing.T) {
	p := &Project{ID: 1, Name: "  "}
	require.Error(t, p.Validate())
	assert.Contains(t, p.Validate().Error(), "name is required")
}

func TestValidate_ImpossibleDate(t *testing.T) {
	p := &Project{ID: 1, Name: "x", End: "2024-02-30"}
	assert.ErrorContains(t, p.Validate(), "YYYY-MM-DD")
}

func TestValidate_SelfDependency(t *testing.T) {
	p := &Project{ID: 3, Name: "x", Dependencies: []int{3}}
	assert.ErrorContains(t, p.Validate(), "depend on itself")
}

func TestDisplayName_FallsBackToID(t *testing.T) {
	p := &Project{ID: 7}
	assert.Equal(t, "Project #7", p.DisplayName())
}

func TestParseDependencies(t *testing.T) {
	assert.Equal(t, []int{1, 2, 5}, ParseDependencies("1, 2,2,x,-4,0,5, 9", 9))
	assert.Nil(t, ParseDependencies("", 1))
	assert.Equal(t, "1, 2, 5", FormatDependencies([]int{1, 2, 5}))
}

func TestClone_IsDeep(t *testing.T) {
	orig := Project{
		ID:           1,
		Dependencies: []int{2},
		Workflow: Workflow{Intake: Phase{
			Required: []Task{{ID: "a", Name: "A"}},
		}},
		Subtasks: []Subtask{{ID: "s1", Children: []Subtask{{ID: "s2"}}}},
		Comments: []Comment{{ID: "c"}},
	}
	cp := orig.Clone()
	cp.Dependencies[0] = 9
	cp.Workflow.Intake.Required[0].Done = true
	cp.Subtasks[0].Children[0].Name = "changed"
	cp.Comments[0].Body = "changed"

	assert.Equal(t, 2, orig.Dependencies[0])
	assert.False(t, orig.Workflow.Intake.Required[0].Done)
	assert.Empty(t, orig.Subtasks[0].Children[0].Name)
	assert.Empty(t, orig.Comments[0].Body)
}

func TestClone_KeepsEmptyLists(t *testing.T) {
	empty := Phase{Required: []Task{}, Optional: []Task{}, DeletedDefaultOptionals: []string{}}
	orig := Project{ID: 1, Dependencies: []int{}, Workflow: Workflow{Intake: empty, Execution: empty}, Subtasks: []Subtask{}}

	want, err := json.Marshal(orig)
	require.NoError(t, err)
	got, err := json.Marshal(orig.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Contains(t, string(got), `"required":[]`)

	var none Project
	assert.Nil(t, none.Clone().Workflow.Intake.Required)
	assert.Nil(t, none.Clone().Dependencies)
}

func TestTouchActivity_SetsMetadata(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	p := &Project{}
	p.TouchActivity(now, "workflow-intake")
	assert.Equal(t, "2026-02-01T09:00:00Z", p.CreatedAt)
	assert.Equal(t, "2026-02-01T09:00:00Z", p.LastActivityAt)
	assert.Equal(t, "workflow-intake", p.LastActivitySource)

	later := now.Add(time.Hour)
	p.TouchActivity(later, "status-active")
	assert.Equal(t, "2026-02-01T09:00:00Z", p.CreatedAt)
	assert.Equal(t, "2026-02-01T10:00:00Z", p.LastActivityAt)
}

func TestGroupByStatus_SortsByEnd(t *testing.T) {
	projects := []Project{
		{ID: 1, Status: StatusActive, End: "2026-03-01"},
		{ID: 2, Status: StatusActive, End: "2026-02-01"},
		{ID: 3, Status: "bogus"},
		{ID: 4, Status: StatusActive},
	}
	cols := GroupByStatus(projects)
	require.Len(t, cols[StatusActive], 3)
	assert.Equal(t, []int{2, 1, 4}, []int{cols[StatusActive][0].ID, cols[StatusActive][1].ID, cols[StatusActive][2].ID})
	require.Len(t, cols[StatusPending], 1)
	assert.Equal(t, 3, cols[StatusPending][0].ID)
}

func TestStatus_RankAndPercent(t *testing.T) {
	assert.Less(t, StatusPending.Rank(), StatusActive.Rank())
	assert.Less(t, StatusActive.Rank(), StatusDone.Rank())
	assert.Equal(t, 20, StatusPending.Percent())
	assert.Equal(t, 60, StatusActive.Percent())
	assert.Equal(t, 100, StatusDone.Percent())
}

func TestParseStatus_Legacy(t *testing.T) {
	s, ok := ParseStatus("terminado")
	require.True(t, ok)
	assert.Equal(t, StatusDone, s)
	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}

func TestCoalesceStr_SkipsBlank(t *testing.T) {
	assert.Equal(t, "Ana", CoalesceStr("", "  ", " Ana ", "Luis"))
	assert.Equal(t, "", CoalesceStr(" "))
}
