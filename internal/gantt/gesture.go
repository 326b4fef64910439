package gantt

import (
	"context"
	"errors"
	"math"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/calendar"
)

type Mode string

const (
	ModeMove        Mode = "move"
	ModeResizeLeft  Mode = "resize-left"
	ModeResizeRight Mode = "resize-right"
)

// Zone is the part of a bar under the pointer.
type Zone int

const (
	ZoneBody Zone = iota
	ZoneLeftHandle
	ZoneRightHandle
)

func (z Zone) Mode() Mode {
	switch z {
	case ZoneLeftHandle:
		return ModeResizeLeft
	case ZoneRightHandle:
		return ModeResizeRight
	}
	return ModeMove
}

var (
	ErrNoGesture     = errors.New("no gesture in progress")
	ErrGestureActive = errors.New("a gesture is already in progress")
	ErrUndatedRow    = errors.New("row has no valid date range")
)

// RangeByDelta applies a whole-day delta. A resize that would invert the
// range clamps the moving edge onto the fixed one.
func RangeByDelta(start, end string, mode Mode, delta int) (string, string) {
	switch mode {
	case ModeResizeLeft:
		next := calendar.ShiftISO(start, delta)
		if calendar.Before(end, next) {
			next = end
		}
		return next, end
	case ModeResizeRight:
		next := calendar.ShiftISO(end, delta)
		if calendar.Before(next, start) {
			next = start
		}
		return start, next
	}
	return calendar.ShiftISO(start, delta), calendar.ShiftISO(end, delta)
}

// DayDelta converts a pixel offset to whole days.
func DayDelta(deltaPx, dayWidth int) int {
	if dayWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(deltaPx) / float64(dayWidth)))
}

type gesture struct {
	target    app.ScheduleTarget
	mode      Mode
	origin    int
	origStart string
	origEnd   string
	start     string
	end       string
	origBar   Bar
}

// Controller tracks one drag at a time. Moves only change the preview;
// the schedule is edited once, on PointerUp.
type Controller struct {
	editor   app.ScheduleUseCase
	dayWidth int
	active   *gesture
}

func NewController(editor app.ScheduleUseCase, dayWidth int) *Controller {
	if dayWidth <= 0 {
		dayWidth = DefaultDayWidth
	}
	return &Controller{editor: editor, dayWidth: dayWidth}
}

func (c *Controller) Active() bool { return c.active != nil }

// PointerDown starts a gesture on row at pointer x.
func (c *Controller) PointerDown(row Row, zone Zone, x int) error {
	if c.active != nil {
		return ErrGestureActive
	}
	if !calendar.Valid(row.Start) || !calendar.Valid(row.End) {
		return ErrUndatedRow
	}
	c.active = &gesture{
		target:    app.ScheduleTarget{ProjectID: row.ProjectID, SubtaskID: row.SubtaskID},
		mode:      zone.Mode(),
		origin:    x,
		origStart: row.Start,
		origEnd:   row.End,
		start:     row.Start,
		end:       row.End,
		origBar:   row.Bar,
	}
	return nil
}

// PointerMove updates the preview range and returns the bar to draw.
func (c *Controller) PointerMove(x int) (Bar, error) {
	g := c.active
	if g == nil {
		return Bar{}, ErrNoGesture
	}
	delta := DayDelta(x-g.origin, c.dayWidth)
	g.start, g.end = RangeByDelta(g.origStart, g.origEnd, g.mode, delta)
	return c.preview(g), nil
}

// Preview returns the range currently shown for the active gesture.
func (c *Controller) Preview() (start, end string, ok bool) {
	if c.active == nil {
		return "", "", false
	}
	return c.active.start, c.active.end, true
}

func (c *Controller) preview(g *gesture) Bar {
	leftShift, _ := calendar.DiffISO(g.origStart, g.start)
	span, _ := calendar.DiffISO(g.start, g.end)
	return Bar{
		Left:  g.origBar.Left + leftShift*c.dayWidth,
		Width: max(c.dayWidth, (span+1)*c.dayWidth),
	}
}

// PointerUp ends the gesture at x and commits the new range if it differs
// from where the drag started.
func (c *Controller) PointerUp(ctx context.Context, x int) (app.Result, error) {
	if _, err := c.PointerMove(x); err != nil {
		return app.Result{}, err
	}
	g := c.active
	c.active = nil
	if g.start == g.origStart && g.end == g.origEnd {
		return app.Succeeded(), nil
	}
	return c.editor.EditScheduleRange(ctx, g.target, g.start, g.end)
}

// Cancel abandons the active gesture without editing anything.
func (c *Controller) Cancel() {
	c.active = nil
}
