package schedule

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToday = "2026-02-01"

func norm(nodes []domain.Subtask, s, e string) []domain.Subtask {
	return normalizeTree(nodes, s, e, testToday)
}

func TestNormalizeSubtasks_Defaults(t *testing.T) {
	out := norm([]domain.Subtask{{}, {Name: "  Paint  ", Status: "bogus"}}, "2026-03-01", "2026-03-10")

	require.Len(t, out, 2)
	assert.Equal(t, "Subtask 1", out[0].Name)
	assert.Equal(t, "sub-1-subtask-1", out[0].ID)
	assert.Equal(t, domain.StatusPending, out[0].Status)
	assert.Equal(t, "2026-03-01", out[0].Start)
	assert.Equal(t, "2026-03-03", out[0].End)

	assert.Equal(t, "Paint", out[1].Name)
	assert.Equal(t, domain.StatusPending, out[1].Status)
	assert.Equal(t, "2026-03-03", out[1].Start, "staggered by two days per index")
	assert.Equal(t, "2026-03-05", out[1].End)
}

func TestNormalizeSubtasks_DatePolicy(t *testing.T) {
	out := norm([]domain.Subtask{
		{ID: "a", Name: "only start", Start: "2026-03-10"},
		{ID: "b", Name: "only end", End: "2026-03-20"},
		{ID: "c", Name: "inverted", Start: "2026-03-15", End: "2026-03-11"},
		{ID: "d", Name: "impossible", Start: "2026-02-30", End: "2026-03-30"},
	}, "2026-03-01", "2026-03-31")

	byID := map[string]domain.Subtask{}
	for _, s := range out {
		byID[s.ID] = s
	}
	assert.Equal(t, "2026-03-12", byID["a"].End)
	assert.Equal(t, "2026-03-18", byID["b"].Start)
	assert.Equal(t, "2026-03-16", byID["c"].End)
	assert.Equal(t, "2026-03-28", byID["d"].Start, "invalid start treated as missing")
}

func TestNormalizeSubtasks_SortedStable(t *testing.T) {
	out := norm([]domain.Subtask{
		{ID: "late", Start: "2026-03-09", End: "2026-03-10"},
		{ID: "tie-1", Start: "2026-03-05", End: "2026-03-06"},
		{ID: "early", Start: "2026-03-01", End: "2026-03-02"},
		{ID: "tie-2", Start: "2026-03-05", End: "2026-03-07"},
	}, "2026-03-01", "2026-03-31")

	ids := []string{}
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, ids)
}

func TestNormalizeSubtasks_ChildrenUseParentWindow(t *testing.T) {
	out := norm([]domain.Subtask{{
		ID: "p", Start: "2026-04-10", End: "2026-04-20",
		Children: []domain.Subtask{{ID: "c1"}, {ID: "c2"}},
	}}, "2026-03-01", "2026-03-31")

	require.Len(t, out[0].Children, 2)
	assert.Equal(t, "2026-04-10", out[0].Children[0].Start)
	assert.Equal(t, "2026-04-12", out[0].Children[1].Start)
}

func TestNormalizeSubtasks_FallbackWindow(t *testing.T) {
	out := norm([]domain.Subtask{{ID: "x"}}, "", "")
	assert.Equal(t, testToday, out[0].Start)

	out = norm([]domain.Subtask{{ID: "x"}, {ID: "y"}, {ID: "z"}, {ID: "w"}, {ID: "v"}}, "2026-03-10", "2026-03-01")
	for _, s := range out {
		assert.False(t, calendar.Before(s.End, s.Start))
	}
}

func TestNormalizeSubtasks_DoesNotAliasInput(t *testing.T) {
	in := []domain.Subtask{{ID: "a", Name: "A", Children: []domain.Subtask{{ID: "b", Name: "B"}}}}
	out := norm(in, "2026-03-01", "2026-03-10")
	out[0].Children[0].Name = "changed"
	assert.Equal(t, "B", in[0].Children[0].Name)
	assert.Empty(t, in[0].Children[0].Start)
}

func randomTree(r *rand.Rand, depth int) []domain.Subtask {
	n := r.Intn(4)
	if depth > 2 {
		n = 0
	}
	var out []domain.Subtask
	dates := []string{"", "", "2026-03-05", "2026-03-01", "2026-03-20", "2026-02-30", "garbage", "2026-04-02"}
	statuses := []domain.Status{"", "pending", "active", "done", "weird"}
	names := []string{"", "Paint", "Wire frame", "  ", "Électricité"}
	for i := 0; i < n; i++ {
		node := domain.Subtask{
			Name:     names[r.Intn(len(names))],
			Status:   statuses[r.Intn(len(statuses))],
			Start:    dates[r.Intn(len(dates))],
			End:      dates[r.Intn(len(dates))],
			Children: randomTree(r, depth+1),
		}
		if r.Intn(2) == 0 {
			node.ID = "id-" + string(rune('a'+i)) + string(rune('a'+depth))
		}
		out = append(out, node)
	}
	return out
}

func TestNormalizeSubtasks_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	windows := [][2]string{{"2026-03-01", "2026-03-31"}, {"", ""}, {"2026-03-10", "2026-03-02"}, {"2026-03-01", ""}}
	for i := 0; i < 300; i++ {
		tree := randomTree(r, 0)
		w := windows[i%len(windows)]
		once := norm(tree, w[0], w[1])
		twice := norm(once, w[0], w[1])
		require.Equal(t, once, twice, "iteration %d", i)
		for _, f := range Flatten(once) {
			require.False(t, calendar.Before(f.End, f.Start), "end before start at %s", f.ID)
		}
	}
}

func sampleTree() []domain.Subtask {
	return []domain.Subtask{
		{ID: "a", Name: "A", Children: []domain.Subtask{
			{ID: "a1", Name: "A1"},
			{ID: "a2", Name: "A2", Children: []domain.Subtask{{ID: "a2x", Name: "A2x"}}},
		}},
		{ID: "b", Name: "B"},
	}
}

func TestFlatten_LevelsAndParents(t *testing.T) {
	flat := Flatten(sampleTree())
	require.Len(t, flat, 5)
	got := [][3]any{}
	for _, f := range flat {
		got = append(got, [3]any{f.ID, f.Level, f.ParentID})
	}
	assert.Equal(t, [][3]any{
		{"a", 0, ""}, {"a1", 1, "a"}, {"a2", 1, "a"}, {"a2x", 2, "a2"}, {"b", 0, ""},
	}, got)
	assert.True(t, flat[0].HasChildren)
	assert.False(t, flat[1].HasChildren)
}

func TestTreeHelpers(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, "A2x", Find(tree, "a2x").Name)
	assert.Nil(t, Find(tree, "zzz"))

	assert.True(t, Insert(&tree, "a2x", domain.Subtask{ID: "deep", Name: "Deep"}))
	assert.True(t, Insert(&tree, "", domain.Subtask{ID: "root", Name: "Root"}))
	assert.False(t, Insert(&tree, "zzz", domain.Subtask{ID: "lost"}))
	assert.Equal(t, 7, Count(tree))

	assert.True(t, Update(tree, "deep", func(s *domain.Subtask) { s.Status = domain.StatusDone }))
	assert.Equal(t, domain.StatusDone, Find(tree, "deep").Status)
	assert.False(t, Update(tree, "zzz", func(*domain.Subtask) {}))

	assert.Equal(t, 4, CountDescendants(tree[0]))
	assert.True(t, Remove(&tree, "a2"))
	assert.Nil(t, Find(tree, "deep"))
	assert.Equal(t, 4, Count(tree))
	assert.False(t, Remove(&tree, "a2"))
	assert.True(t, Remove(&tree, "root"))
	assert.Len(t, tree, 2)
}
