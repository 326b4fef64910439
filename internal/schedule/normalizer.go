package schedule

import (
	"encoding/json"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workflow"
)

const (
	projectDefaultSpan = 10
	projectStagger     = 3
)

// Normalizer reconciles a project's dates, checklist and subtask tree.
type Normalizer struct {
	wf    *workflow.Engine
	clock calendar.Clock
}

func NewNormalizer(wf *workflow.Engine, clock calendar.Clock) *Normalizer {
	if clock == nil {
		clock = calendar.SystemClock
	}
	return &Normalizer{wf: wf, clock: clock}
}

func (n *Normalizer) today() string { return calendar.TodayISO(n.clock) }

// NormalizeSubtasks is NormalizeSubtasks with this normalizer's notion of today.
func (n *Normalizer) NormalizeSubtasks(nodes []domain.Subtask, fallbackStart, fallbackEnd string) []domain.Subtask {
	return normalizeTree(nodes, fallbackStart, fallbackEnd, n.today())
}

func durationFor(s domain.Status) int {
	switch s {
	case domain.StatusDone:
		return 7
	case domain.StatusActive:
		return 12
	}
	return 16
}

// NormalizeProjectDates fills missing project dates and repairs inverted
// ranges. index staggers undated projects so they do not all start today.
func (n *Normalizer) NormalizeProjectDates(p *domain.Project, index int) bool {
	start, end := p.Start, p.End
	hasStart, hasEnd := calendar.Valid(start), calendar.Valid(end)
	switch {
	case !hasStart && !hasEnd:
		start = calendar.ShiftISO(n.today(), index*projectStagger)
		end = calendar.ShiftISO(start, durationFor(p.Status))
	case hasStart && !hasEnd:
		end = calendar.ShiftISO(start, projectDefaultSpan)
	case !hasStart && hasEnd:
		start = calendar.ShiftISO(end, -projectDefaultSpan)
	}
	if calendar.Before(end, start) {
		end = calendar.ShiftISO(start, minimumRepairDays)
	}
	changed := start != p.Start || end != p.End
	p.Start, p.End = start, end
	return changed
}

// NormalizeProject runs the full repair pipeline: metadata, dates, checklist,
// checklist/subtask sync in both directions and a final tree pass against
// the project range. legacy tasks are folded into the intake phase.
func (n *Normalizer) NormalizeProject(p *domain.Project, index int, legacy []workflow.RawTask) bool {
	before := encode(p)

	p.EnsureMetadata(n.clock())
	if !p.Status.Valid() {
		p.Status = domain.StatusPending
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Dependencies = cleanDependencies(p.Dependencies, p.ID)

	n.NormalizeProjectDates(p, index)
	n.wf.NormalizeWorkflow(p, legacy)
	p.Subtasks = n.NormalizeSubtasks(p.Subtasks, p.Start, p.End)
	n.Sync(p)
	p.Subtasks = n.NormalizeSubtasks(p.Subtasks, p.Start, p.End)
	n.wf.NormalizeWorkflow(p, nil)

	return before != encode(p)
}

// Sync runs required-from-subtasks followed by subtasks-from-required.
func (n *Normalizer) Sync(p *domain.Project) bool {
	a := n.SyncRequiredTasksFromSubtasks(p, p.Subtasks)
	b := n.SyncSubtasksFromRequiredTasks(p)
	return a || b
}

func cleanDependencies(deps []int, self int) []int {
	if deps == nil {
		return nil
	}
	seen := make(map[int]bool, len(deps))
	out := make([]int, 0, len(deps))
	for _, d := range deps {
		if d <= 0 || d == self || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
