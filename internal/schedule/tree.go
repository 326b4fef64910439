// Package schedule keeps project and subtask dates consistent and mirrors
// the execution checklist onto the subtask tree.
package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

const (
	subtaskSpanDays   = 2
	subtaskStagger    = 2
	fallbackSpanDays  = 7
	minimumRepairDays = 1
)

// NormalizeSubtasks returns a well-formed copy of nodes: every node named,
// with a valid status and a valid start <= end range, sorted by start at
// every level. Missing dates are synthesized inside the fallback window;
// children use their parent's resolved range as their window. An invalid
// fallbackStart means today.
func NormalizeSubtasks(nodes []domain.Subtask, fallbackStart, fallbackEnd string) []domain.Subtask {
	return normalizeTree(nodes, fallbackStart, fallbackEnd, calendar.TodayISO(calendar.SystemClock))
}

func normalizeTree(nodes []domain.Subtask, fallbackStart, fallbackEnd, today string) []domain.Subtask {
	if len(nodes) == 0 {
		return nil
	}
	winStart := fallbackStart
	if !calendar.Valid(winStart) {
		winStart = today
	}
	winEnd := fallbackEnd
	if !calendar.Valid(winEnd) {
		winEnd = calendar.ShiftISO(winStart, fallbackSpanDays)
	}
	if calendar.Before(winEnd, winStart) {
		winEnd = calendar.ShiftISO(winStart, minimumRepairDays)
	}

	out := make([]domain.Subtask, 0, len(nodes))
	for i, node := range nodes {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			name = fmt.Sprintf("Subtask %d", i+1)
		}
		status := node.Status
		if !status.Valid() {
			status = domain.StatusPending
		}

		start, end := node.Start, node.End
		hasStart, hasEnd := calendar.Valid(start), calendar.Valid(end)
		switch {
		case !hasStart && !hasEnd:
			start = calendar.ShiftISO(winStart, i*subtaskStagger)
			end = calendar.ShiftISO(start, subtaskSpanDays)
		case hasStart && !hasEnd:
			end = calendar.ShiftISO(start, subtaskSpanDays)
		case !hasStart && hasEnd:
			start = calendar.ShiftISO(end, -subtaskSpanDays)
		}
		if calendar.Before(end, start) {
			end = calendar.ShiftISO(start, minimumRepairDays)
		}

		id := strings.TrimSpace(node.ID)
		if id == "" {
			id = fmt.Sprintf("sub-%d-%s", i+1, slug(name, 16))
		}

		out = append(out, domain.Subtask{
			ID:       id,
			Name:     name,
			Status:   status,
			Start:    start,
			End:      end,
			Children: normalizeTree(node.Children, start, end, today),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return calendar.Before(out[i].Start, out[j].Start)
	})
	return out
}

func slug(name string, limit int) string {
	key := domain.TaskKey(name)
	if len(key) > limit {
		key = strings.TrimRight(key[:limit], "-")
	}
	if key == "" {
		key = "item"
	}
	return key
}

// FlatSubtask is one node of a depth-first walk.
type FlatSubtask struct {
	domain.Subtask
	Level       int
	ParentID    string
	HasChildren bool
}

// Flatten walks the tree depth-first, parents before children.
func Flatten(tree []domain.Subtask) []FlatSubtask {
	var out []FlatSubtask
	var walk func(nodes []domain.Subtask, level int, parent string)
	walk = func(nodes []domain.Subtask, level int, parent string) {
		for _, n := range nodes {
			out = append(out, FlatSubtask{Subtask: n, Level: level, ParentID: parent, HasChildren: len(n.Children) > 0})
			walk(n.Children, level+1, n.ID)
		}
	}
	walk(tree, 0, "")
	return out
}

// Find returns a pointer to the node with id, or nil.
func Find(tree []domain.Subtask, id string) *domain.Subtask {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
		if found := Find(tree[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Insert appends node under parentID, or at the root when parentID is empty.
func Insert(tree *[]domain.Subtask, parentID string, node domain.Subtask) bool {
	if parentID == "" {
		*tree = append(*tree, node)
		return true
	}
	parent := Find(*tree, parentID)
	if parent == nil {
		return false
	}
	parent.Children = append(parent.Children, node)
	return true
}

// Update applies fn to the node with id.
func Update(tree []domain.Subtask, id string, fn func(*domain.Subtask)) bool {
	node := Find(tree, id)
	if node == nil {
		return false
	}
	fn(node)
	return true
}

// Remove deletes the node with id together with its descendants.
func Remove(tree *[]domain.Subtask, id string) bool {
	nodes := *tree
	for i := range nodes {
		if nodes[i].ID == id {
			*tree = append(nodes[:i:i], nodes[i+1:]...)
			return true
		}
		if Remove(&nodes[i].Children, id) {
			return true
		}
	}
	return false
}

// CountDescendants counts every node below n.
func CountDescendants(n domain.Subtask) int {
	return Count(n.Children)
}

// Count counts every node in the tree.
func Count(tree []domain.Subtask) int {
	total := 0
	for _, n := range tree {
		total += 1 + Count(n.Children)
	}
	return total
}

// Walk visits every node depth-first with a mutable pointer.
func Walk(tree []domain.Subtask, fn func(*domain.Subtask)) {
	for i := range tree {
		fn(&tree[i])
		Walk(tree[i].Children, fn)
	}
}
