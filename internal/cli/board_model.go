package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type boardView int

const (
	viewKanban boardView = iota
	viewGantt
)

// boardTopLines is the number of screen lines above the main content.
const boardTopLines = 2

type storeEventMsg service.Event

// boardModel is the interactive board: status columns or the Gantt
// timeline over the same store.
type boardModel struct {
	app    *App
	keys   boardKeyMap
	help   help.Model
	view   boardView
	width  int
	height int

	columns []formatter.Column
	col     int
	row     int

	chart     gantt.Chart
	geo       formatter.GanttGeometry
	collapsed gantt.CollapseSet
	ganttRow  int
	drag      *gantt.Controller

	status    string
	statusErr bool

	events      chan service.Event
	unsubscribe func()
}

func newBoardModel(a *App) *boardModel {
	m := &boardModel{
		app:       a,
		keys:      newBoardKeyMap(),
		help:      help.New(),
		width:     120,
		height:    40,
		collapsed: gantt.NewCollapseSet(),
		events:    make(chan service.Event, 16),
	}
	m.unsubscribe = a.Board.OnEvent(func(ev service.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
	m.refresh()
	return m
}

func (m *boardModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *boardModel) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg { return storeEventMsg(<-ch) }
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case storeEventMsg:
		m.refresh()
		if msg.Kind == service.EventRemoteApplied {
			m.setStatus("Remote change applied", false)
		}
		return m, m.waitForEvent()

	case tea.MouseMsg:
		if m.view == viewGantt {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.SwitchView):
		if m.view == viewKanban {
			m.view = viewGantt
		} else {
			m.view = viewKanban
		}
		m.refresh()
	case key.Matches(msg, m.keys.Undo):
		m.apply(func(ctx context.Context) (app.Result, error) { return m.app.Board.Undo(ctx) }, "Undone")
	case key.Matches(msg, m.keys.Redo):
		m.apply(func(ctx context.Context) (app.Result, error) { return m.app.Board.Redo(ctx) }, "Redone")
	case m.view == viewKanban:
		m.handleKanbanKey(msg)
	default:
		m.handleGanttKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKanbanKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.col = max(0, m.col-1)
		m.row = min(m.row, max(0, len(m.columns[m.col].Cards)-1))
	case key.Matches(msg, m.keys.Right):
		m.col = min(len(m.columns)-1, m.col+1)
		m.row = min(m.row, max(0, len(m.columns[m.col].Cards)-1))
	case key.Matches(msg, m.keys.Up):
		m.row = max(0, m.row-1)
	case key.Matches(msg, m.keys.Down):
		m.row = min(max(0, len(m.columns[m.col].Cards)-1), m.row+1)
	case key.Matches(msg, m.keys.Advance):
		m.transition(+1)
	case key.Matches(msg, m.keys.Retreat):
		m.transition(-1)
	}
}

func (m *boardModel) selectedCard() (formatter.Card, bool) {
	if m.col >= len(m.columns) {
		return formatter.Card{}, false
	}
	cards := m.columns[m.col].Cards
	if m.row >= len(cards) {
		return formatter.Card{}, false
	}
	return cards[m.row], true
}

// transition moves the selected project one lifecycle step and keeps the
// cursor on it.
func (m *boardModel) transition(step int) {
	card, ok := m.selectedCard()
	if !ok {
		return
	}
	rank := card.Project.Status.Rank() + step
	if rank < 0 || rank >= len(domain.Statuses) {
		return
	}
	target := domain.Statuses[rank]
	id := card.Project.ID
	m.apply(func(ctx context.Context) (app.Result, error) {
		return m.app.Board.TransitionStatus(ctx, id, target)
	}, fmt.Sprintf("#%d is now %s", id, target.Label()))
	m.focusProject(id)
}

func (m *boardModel) focusProject(id int) {
	for c, col := range m.columns {
		for r, card := range col.Cards {
			if card.Project.ID == id {
				m.col, m.row = c, r
				return
			}
		}
	}
}

func (m *boardModel) handleGanttKey(msg tea.KeyMsg) {
	rows := m.geo.Rows
	switch {
	case key.Matches(msg, m.keys.Up):
		m.ganttRow = max(0, m.ganttRow-1)
	case key.Matches(msg, m.keys.Down):
		m.ganttRow = min(max(0, len(rows)-1), m.ganttRow+1)
	case key.Matches(msg, m.keys.Collapse):
		if m.ganttRow < len(rows) && rows[m.ganttRow].HasChildren {
			m.collapsed.Toggle(rows[m.ganttRow].ID)
			m.refresh()
		}
	case key.Matches(msg, m.keys.ShiftEarlier):
		m.nudge(gantt.ZoneBody, -1)
	case key.Matches(msg, m.keys.ShiftLater):
		m.nudge(gantt.ZoneBody, +1)
	case key.Matches(msg, m.keys.Shrink):
		m.nudge(gantt.ZoneRightHandle, -1)
	case key.Matches(msg, m.keys.Extend):
		m.nudge(gantt.ZoneRightHandle, +1)
	}
}

// nudge replays a one-day drag on the selected bar.
func (m *boardModel) nudge(zone gantt.Zone, days int) {
	if m.ganttRow >= len(m.geo.Rows) {
		return
	}
	row := m.geo.Rows[m.ganttRow]
	ctrl := gantt.NewController(m.app.Board, m.chart.DayWidth)
	if err := ctrl.PointerDown(row, zone, 0); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.apply(func(ctx context.Context) (app.Result, error) {
		return ctrl.PointerUp(ctx, days*m.chart.DayWidth)
	}, "Moved "+row.Title)
}

func (m *boardModel) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	y := msg.Y - boardTopLines
	px := m.geo.Pixel(msg.X)

	switch msg.Action {
	case tea.MouseActionPress:
		row, ok := m.geo.RowAt(y)
		if !ok {
			return
		}
		zone, hit := m.geo.Zone(row, msg.X)
		if !hit {
			return
		}
		ctrl := gantt.NewController(m.app.Board, m.chart.DayWidth)
		if err := ctrl.PointerDown(row, zone, px); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.drag = ctrl
		m.ganttRow = y - m.geo.HeaderLines
	case tea.MouseActionMotion:
		if m.drag == nil {
			return
		}
		if _, err := m.drag.PointerMove(px); err == nil {
			start, end, _ := m.drag.Preview()
			m.setStatus(fmt.Sprintf("%s → %s", start, end), false)
		}
	case tea.MouseActionRelease:
		if m.drag == nil {
			return
		}
		ctrl := m.drag
		m.drag = nil
		m.apply(func(ctx context.Context) (app.Result, error) {
			return ctrl.PointerUp(ctx, px)
		}, "Schedule updated")
	}
}

// apply runs one store mutation and reports its outcome on the status line.
func (m *boardModel) apply(fn func(context.Context) (app.Result, error), success string) {
	res, err := fn(context.Background())
	switch {
	case err != nil:
		m.setStatus(res.Message, true)
	case !res.OK:
		m.setStatus(res.Message, true)
	case res.Degraded:
		m.setStatus(success+" (degraded: "+res.Message+")", false)
	default:
		m.setStatus(success, false)
	}
	m.refresh()
}

func (m *boardModel) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

// refresh rebuilds the columns and the chart from the store.
func (m *boardModel) refresh() {
	groups := domain.GroupByStatus(m.app.Board.Projects())
	m.columns = m.columns[:0]
	for _, st := range domain.Statuses {
		col := formatter.Column{Status: st}
		for _, p := range groups[st] {
			card := formatter.Card{Project: p}
			if v, err := m.app.Board.View(p.ID); err == nil {
				card.Progress = v.Progress
				card.Risk = v.Risk.Level
				card.Blocked = len(v.Blocking) > 0
			}
			col.Cards = append(col.Cards, card)
		}
		m.columns = append(m.columns, col)
	}
	m.col = min(m.col, len(m.columns)-1)
	m.row = min(m.row, max(0, len(m.columns[m.col].Cards)-1))

	m.chart = m.app.Board.Gantt(gantt.Options{DayWidth: m.app.Config.DayWidth, Collapsed: m.collapsed})
	_, m.geo = formatter.FormatGantt(m.chart, m.ganttOptions())
	m.ganttRow = min(m.ganttRow, max(0, len(m.geo.Rows)-1))
}

func (m *boardModel) ganttOptions() formatter.GanttOptions {
	return formatter.GanttOptions{LabelWidth: ganttLabelWidth, MaxTrackWidth: trackWidth(m.width)}
}

func (m *boardModel) View() string {
	var b strings.Builder

	tabs := []string{"Board", "Gantt"}
	for i, t := range tabs {
		if boardView(i) == m.view {
			tabs[i] = formatter.StyleHeader.Render("[" + t + "]")
		} else {
			tabs[i] = formatter.Dim(" " + t + " ")
		}
	}
	title := formatter.Bold("planboard") + "  " + strings.Join(tabs, " ")
	if m.app.Board.CanUndo() {
		title += formatter.Dim("  undo")
	}
	if m.app.Board.CanRedo() {
		title += formatter.Dim("  redo")
	}
	b.WriteString(title + "\n\n")

	if m.view == viewKanban {
		b.WriteString(formatter.RenderBoard(m.columns, m.width, m.col, m.row))
	} else if len(m.geo.Rows) == 0 {
		b.WriteString(formatter.Dim("No projects yet."))
	} else {
		out, _ := formatter.FormatGantt(m.chart, m.ganttOptions())
		b.WriteString(out)
		row := m.geo.Rows[m.ganttRow]
		b.WriteString(fmt.Sprintf("\n%s %s  %s", formatter.StyleHeader.Render("›"), row.Title, formatter.DateRange(row.Start, row.End)))
	}
	b.WriteString("\n\n")

	switch {
	case m.status != "" && m.statusErr:
		b.WriteString(formatter.StyleRed.Render(m.status))
	case m.status != "":
		b.WriteString(formatter.StyleGreen.Render(m.status))
	case m.app.Board.LastError() != nil:
		b.WriteString(formatter.StyleRed.Render(m.app.Board.LastError().Error()))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
