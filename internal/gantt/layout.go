// Package gantt lays projects and subtasks out on a shared day grid and
// translates pointer gestures on that grid back into date ranges.
package gantt

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

const (
	DefaultDayWidth  = 24
	DefaultRowHeight = 34
	DefaultMinWidth  = 640
	scaleStepDays    = 7
	minElbowPx       = 18
)

type Options struct {
	DayWidth  int
	RowHeight int
	MinWidth  int
	Today     time.Time
	Collapsed CollapseSet
	// Progress returns a project's workflow progress, 0..100.
	Progress func(p *domain.Project) int
	// Risk returns a project's risk level; high marks the row critical.
	Risk func(p *domain.Project) domain.RiskLevel
}

func (o *Options) defaults() {
	if o.DayWidth <= 0 {
		o.DayWidth = DefaultDayWidth
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.Today.IsZero() {
		o.Today = time.Now()
	}
	if o.Progress == nil {
		o.Progress = func(p *domain.Project) int { return p.Status.Percent() }
	}
}

type RowKind string

const (
	RowProject RowKind = "project"
	RowSubtask RowKind = "subtask"
)

type Bar struct {
	Left  int
	Width int
}

func (b Bar) Right() int { return b.Left + b.Width }

type Row struct {
	ID          string
	ParentRowID string
	Kind        RowKind
	ProjectID   int
	SubtaskID   string
	Title       string
	Info        string
	Level       int
	Start       string
	End         string
	Status      domain.Status
	Progress    int
	HasChildren bool
	Collapsed   bool
	Visible     bool
	Delayed     bool
	Critical    bool
	Bar         Bar
	// Y is the vertical center of the row among visible rows; -1 when hidden.
	Y int
}

// Target is the schedule entity this row edits.
func (r Row) Target() (projectID int, subtaskID string) {
	return r.ProjectID, r.SubtaskID
}

type ScaleLabel struct {
	Offset int
	Date   string
}

// Link is an elbowed connector from a dependency bar to its dependent.
type Link struct {
	FromProject int
	ToProject   int
	Blocking    bool
	X1, Y1      int
	ElbowX      int
	X2, Y2      int
}

type Chart struct {
	WindowStart string
	WindowEnd   string
	TotalDays   int
	DayWidth    int
	RowHeight   int
	Width       int
	Scale       []ScaleLabel
	ShowToday   bool
	TodayOffset int
	Rows        []Row
	Links       []Link
}

// VisibleRows returns rows not hidden by a collapsed ancestor.
func (c Chart) VisibleRows() []Row {
	out := make([]Row, 0, len(c.Rows))
	for _, r := range c.Rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Row finds a row by id.
func (c Chart) Row(id string) (Row, bool) {
	for _, r := range c.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// ProjectRowID is the stable row path of a project.
func ProjectRowID(projectID int) string {
	return "project-" + strconv.Itoa(projectID)
}

// SubtaskRowID is the stable row path of a subtask under parentRowID.
func SubtaskRowID(parentRowID, subtaskID string) string {
	return parentRowID + "/sub-" + subtaskID
}

// Layout computes the timeline window and one row per project and subtask.
func Layout(projects []domain.Project, opts Options) Chart {
	opts.defaults()
	today := calendar.Noon(opts.Today)
	dw := opts.DayWidth

	sorted := domain.CloneProjects(projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return calendar.Before(sorted[i].Start, sorted[j].Start)
	})

	first, last, ok := bounds(sorted)
	if !ok {
		first, last = today, today
	}
	winStart := calendar.AddDays(first, -1)
	winEnd := calendar.AddDays(last, 1)
	total := max(1, calendar.DayDiff(winStart, winEnd)+1)

	chart := Chart{
		WindowStart: calendar.Format(winStart),
		WindowEnd:   calendar.Format(winEnd),
		TotalDays:   total,
		DayWidth:    dw,
		RowHeight:   opts.RowHeight,
		Width:       max(total*dw, opts.MinWidth),
	}
	for d := 0; d < total; d += scaleStepDays {
		chart.Scale = append(chart.Scale, ScaleLabel{Offset: d * dw, Date: calendar.Format(calendar.AddDays(winStart, d))})
	}
	if off := calendar.DayDiff(winStart, today); off >= 0 && off < total {
		chart.ShowToday = true
		chart.TodayOffset = off * dw
	}

	geometry := func(start, end string) Bar {
		s, okS := calendar.Parse(start)
		e, okE := calendar.Parse(end)
		if !okS || !okE {
			return Bar{Width: dw}
		}
		left := max(0, calendar.DayDiff(winStart, s)) * dw
		width := max(dw, (calendar.DayDiff(s, e)+1)*dw)
		return Bar{Left: left, Width: width}
	}
	delayed := func(end string, status domain.Status) bool {
		e, ok := calendar.Parse(end)
		return ok && status != domain.StatusDone && calendar.DayDiff(e, today) > 0
	}

	for i := range sorted {
		p := &sorted[i]
		progress := clampPct(opts.Progress(p))
		critical := opts.Risk != nil && opts.Risk(p) == domain.RiskHigh
		rowID := ProjectRowID(p.ID)
		row := Row{
			ID:          rowID,
			Kind:        RowProject,
			ProjectID:   p.ID,
			Title:       p.DisplayName(),
			Info:        projectInfo(p, critical),
			Start:       p.Start,
			End:         p.End,
			Status:      p.Status,
			Progress:    progress,
			HasChildren: len(p.Subtasks) > 0,
			Visible:     true,
			Delayed:     delayed(p.End, p.Status),
			Critical:    critical,
			Bar:         geometry(p.Start, p.End),
		}
		row.Collapsed = row.HasChildren && opts.Collapsed.Has(rowID)
		chart.Rows = append(chart.Rows, row)

		var walk func(nodes []domain.Subtask, parentRowID string, level int, hidden bool)
		walk = func(nodes []domain.Subtask, parentRowID string, level int, hidden bool) {
			for _, s := range nodes {
				id := SubtaskRowID(parentRowID, s.ID)
				sub := Row{
					ID:          id,
					ParentRowID: parentRowID,
					Kind:        RowSubtask,
					ProjectID:   p.ID,
					SubtaskID:   s.ID,
					Title:       s.Name,
					Info:        s.Status.Label(),
					Level:       level,
					Start:       s.Start,
					End:         s.End,
					Status:      s.Status,
					Progress:    clampPct(int(math.Round(float64(s.Status.Percent()) * float64(progress) / 100))),
					HasChildren: len(s.Children) > 0,
					Visible:     !hidden,
					Delayed:     delayed(s.End, s.Status),
					Bar:         geometry(s.Start, s.End),
				}
				sub.Collapsed = sub.HasChildren && opts.Collapsed.Has(id)
				chart.Rows = append(chart.Rows, sub)
				walk(s.Children, id, level+1, hidden || sub.Collapsed)
			}
		}
		walk(p.Subtasks, rowID, 1, row.Collapsed)
	}

	y := 0
	for i := range chart.Rows {
		if !chart.Rows[i].Visible {
			chart.Rows[i].Y = -1
			continue
		}
		chart.Rows[i].Y = y*opts.RowHeight + opts.RowHeight/2
		y++
	}

	chart.Links = links(sorted, chart)
	return chart
}

func links(projects []domain.Project, chart Chart) []Link {
	rows := make(map[int]Row)
	status := make(map[int]domain.Status)
	for _, r := range chart.Rows {
		if r.Kind == RowProject && r.Visible {
			rows[r.ProjectID] = r
		}
	}
	for _, p := range projects {
		status[p.ID] = p.Status
	}

	var out []Link
	for _, p := range projects {
		to, ok := rows[p.ID]
		if !ok {
			continue
		}
		for _, depID := range p.Dependencies {
			from, ok := rows[depID]
			if !ok {
				continue
			}
			x1, x2 := from.Bar.Right(), to.Bar.Left
			out = append(out, Link{
				FromProject: depID,
				ToProject:   p.ID,
				Blocking:    status[depID] != domain.StatusDone,
				X1:          x1,
				Y1:          from.Y,
				ElbowX:      x1 + max(minElbowPx, int(math.Round(float64(x2-x1)*0.45))),
				X2:          x2,
				Y2:          to.Y,
			})
		}
	}
	return out
}

func bounds(projects []domain.Project) (first, last time.Time, ok bool) {
	consider := func(text string) {
		d, valid := calendar.Parse(text)
		if !valid {
			return
		}
		if !ok || calendar.DayDiff(d, first) > 0 {
			first = d
		}
		if !ok || calendar.DayDiff(last, d) > 0 {
			last = d
		}
		ok = true
	}
	var walk func(nodes []domain.Subtask)
	walk = func(nodes []domain.Subtask) {
		for _, s := range nodes {
			consider(s.Start)
			consider(s.End)
			walk(s.Children)
		}
	}
	for _, p := range projects {
		consider(p.Start)
		consider(p.End)
		walk(p.Subtasks)
	}
	return first, last, ok
}

func projectInfo(p *domain.Project, critical bool) string {
	parts := []string{domain.CoalesceStr(strings.TrimSpace(p.Owner), "Unassigned"), p.Status.Label()}
	if critical {
		parts = append(parts, "critical path")
	}
	return strings.Join(parts, " | ")
}

func clampPct(v int) int {
	return max(0, min(100, v))
}
