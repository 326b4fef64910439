package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultLabelWidth = 28
	barDone           = '█'
	barOpen           = '▒'
	todayMark         = '┊'
)

type GanttOptions struct {
	LabelWidth int
	// MaxTrackWidth caps the timeline in terminal cells; longer windows
	// fold several days into one cell.
	MaxTrackWidth int
}

// GanttGeometry maps terminal coordinates of a rendered chart back onto
// rows and pixel offsets of the layout.
type GanttGeometry struct {
	TrackStart  int
	DaysPerCell int
	DayWidth    int
	HeaderLines int
	Rows        []gantt.Row
}

// RowAt returns the row drawn on screen line y.
func (g GanttGeometry) RowAt(y int) (gantt.Row, bool) {
	i := y - g.HeaderLines
	if i < 0 || i >= len(g.Rows) {
		return gantt.Row{}, false
	}
	return g.Rows[i], true
}

// Pixel converts screen column x to a layout pixel offset.
func (g GanttGeometry) Pixel(x int) int {
	return (x - g.TrackStart) * g.DaysPerCell * g.DayWidth
}

func (g GanttGeometry) barCells(b gantt.Bar) (first, count int) {
	span := max(1, g.DaysPerCell*g.DayWidth)
	first = b.Left / span
	count = max(1, int(math.Ceil(float64(b.Width)/float64(span))))
	return first, count
}

// Zone reports which part of row's bar sits under screen column x.
func (g GanttGeometry) Zone(row gantt.Row, x int) (gantt.Zone, bool) {
	first, count := g.barCells(row.Bar)
	cell := x - g.TrackStart
	if cell < first || cell >= first+count {
		return gantt.ZoneBody, false
	}
	switch {
	case count < 3:
		return gantt.ZoneBody, true
	case cell == first:
		return gantt.ZoneLeftHandle, true
	case cell == first+count-1:
		return gantt.ZoneRightHandle, true
	}
	return gantt.ZoneBody, true
}

// FormatGantt renders the visible rows of chart as a text timeline.
func FormatGantt(chart gantt.Chart, opts GanttOptions) (string, GanttGeometry) {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = defaultLabelWidth
	}
	dw := max(1, chart.DayWidth)
	perCell := 1
	if opts.MaxTrackWidth > 0 && chart.TotalDays > opts.MaxTrackWidth {
		perCell = (chart.TotalDays + opts.MaxTrackWidth - 1) / opts.MaxTrackWidth
	}
	cells := max(1, (chart.TotalDays+perCell-1)/perCell)
	geo := GanttGeometry{
		TrackStart:  opts.LabelWidth + 1,
		DaysPerCell: perCell,
		DayWidth:    dw,
		HeaderLines: 2,
		Rows:        chart.VisibleRows(),
	}
	todayCell := -1
	if chart.ShowToday {
		todayCell = chart.TodayOffset / dw / perCell
	}

	var b strings.Builder

	scale := []rune(strings.Repeat(" ", cells))
	for _, l := range chart.Scale {
		c := l.Offset / dw / perCell
		label := []rune(l.Date[5:])
		if c+len(label) <= cells {
			copy(scale[c:], label)
		}
	}
	axis := []rune(strings.Repeat("─", cells))
	if todayCell >= 0 && todayCell < cells {
		axis[todayCell] = '┬'
	}
	b.WriteString(strings.Repeat(" ", geo.TrackStart) + Dim(string(scale)) + "\n")
	b.WriteString(padRight(Dim(chart.WindowStart+" → "+chart.WindowEnd), opts.LabelWidth) + " " + Dim(string(axis)) + "\n")

	for _, row := range geo.Rows {
		b.WriteString(padRight(rowLabel(row, opts.LabelWidth), opts.LabelWidth) + " ")
		b.WriteString(track(row, geo, cells, todayCell))
		b.WriteString(fmt.Sprintf(" %3d%%", row.Progress))
		b.WriteString("\n")
	}

	if len(chart.Links) > 0 {
		b.WriteString("\n")
		for _, l := range chart.Links {
			state := StyleGreen.Render("clear")
			if l.Blocking {
				state = StyleRed.Render("blocking")
			}
			b.WriteString(fmt.Sprintf("%s %s %s  %s\n",
				StylePurple.Render(fmt.Sprintf("#%d", l.FromProject)), Dim("→"),
				StylePurple.Render(fmt.Sprintf("#%d", l.ToProject)), state))
		}
	}
	return b.String(), geo
}

func rowLabel(row gantt.Row, width int) string {
	marker := "  "
	if row.HasChildren {
		marker = "▾ "
		if row.Collapsed {
			marker = "▸ "
		}
	}
	indent := strings.Repeat("  ", row.Level)
	title := row.Title
	if row.Kind == gantt.RowProject {
		title = fmt.Sprintf("#%d %s", row.ProjectID, row.Title)
	}
	label := Truncate(indent+marker+title, width)
	if row.Kind == gantt.RowProject {
		return StyleBold.Render(label)
	}
	return StyleFg.Render(label)
}

func track(row gantt.Row, geo GanttGeometry, cells, todayCell int) string {
	first, count := geo.barCells(row.Bar)
	first = min(first, cells-1)
	count = max(1, min(count, cells-first))
	filled := int(math.Round(float64(count) * float64(row.Progress) / 100))

	blank := func(from, to int) string {
		if from >= to {
			return ""
		}
		r := []rune(strings.Repeat(" ", to-from))
		if todayCell >= from && todayCell < to {
			r[todayCell-from] = todayMark
		}
		return Dim(string(r))
	}

	body := strings.Repeat(string(barDone), filled) + strings.Repeat(string(barOpen), count-filled)
	return blank(0, first) + barStyle(row).Render(body) + blank(first+count, cells)
}

func barStyle(row gantt.Row) lipgloss.Style {
	switch {
	case row.Critical:
		return StyleRedBold
	case row.Delayed:
		return StyleRed
	case row.Status == domain.StatusDone:
		return StyleGreen
	case row.Kind == gantt.RowSubtask:
		return StylePurple
	}
	return StyleBlue
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}
