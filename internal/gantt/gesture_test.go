package gantt

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editCall struct {
	target     app.ScheduleTarget
	start, end string
}

type recordingEditor struct {
	calls []editCall
	err   error
}

func (e *recordingEditor) EditScheduleRange(_ context.Context, target app.ScheduleTarget, start, end string) (app.Result, error) {
	e.calls = append(e.calls, editCall{target: target, start: start, end: end})
	if e.err != nil {
		return app.Failed(e.err.Error()), e.err
	}
	return app.Succeeded(), nil
}

func projectRow() Row {
	return Row{
		ID: ProjectRowID(1), Kind: RowProject, ProjectID: 1,
		Start: "2026-02-01", End: "2026-02-20",
		Bar: Bar{Left: 24, Width: 480},
	}
}

func TestRangeByDelta(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		delta     int
		wantStart string
		wantEnd   string
	}{
		{"move right", ModeMove, 3, "2026-02-04", "2026-02-23"},
		{"move left", ModeMove, -1, "2026-01-31", "2026-02-19"},
		{"resize left", ModeResizeLeft, 2, "2026-02-03", "2026-02-20"},
		{"resize right", ModeResizeRight, -5, "2026-02-01", "2026-02-15"},
		{"resize left past end clamps", ModeResizeLeft, 40, "2026-02-20", "2026-02-20"},
		{"resize right past start clamps", ModeResizeRight, -40, "2026-02-01", "2026-02-01"},
		{"zero delta", ModeMove, 0, "2026-02-01", "2026-02-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := RangeByDelta("2026-02-01", "2026-02-20", tt.mode, tt.delta)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestDayDelta(t *testing.T) {
	assert.Equal(t, 3, DayDelta(72, 24))
	assert.Equal(t, 1, DayDelta(12, 24))
	assert.Equal(t, 0, DayDelta(11, 24))
	assert.Equal(t, -2, DayDelta(-50, 24))
	assert.Equal(t, 0, DayDelta(50, 0))
}

func TestZoneMode(t *testing.T) {
	assert.Equal(t, ModeMove, ZoneBody.Mode())
	assert.Equal(t, ModeResizeLeft, ZoneLeftHandle.Mode())
	assert.Equal(t, ModeResizeRight, ZoneRightHandle.Mode())
}

func TestController_MoveCommitsOnPointerUp(t *testing.T) {
	editor := &recordingEditor{}
	c := NewController(editor, 24)

	require.NoError(t, c.PointerDown(projectRow(), ZoneBody, 100))
	bar, err := c.PointerMove(100 + 3*24)
	require.NoError(t, err)
	assert.Equal(t, Bar{Left: 24 + 3*24, Width: 480}, bar)
	assert.Empty(t, editor.calls, "moves only preview")

	start, end, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, "2026-02-04", start)
	assert.Equal(t, "2026-02-23", end)

	res, err := c.PointerUp(context.Background(), 100+3*24)
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.Len(t, editor.calls, 1)
	assert.Equal(t, editCall{
		target: app.ScheduleTarget{ProjectID: 1},
		start:  "2026-02-04",
		end:    "2026-02-23",
	}, editor.calls[0])
	assert.False(t, c.Active())
}

func TestController_UnchangedRangeDoesNotEdit(t *testing.T) {
	editor := &recordingEditor{}
	c := NewController(editor, 24)

	require.NoError(t, c.PointerDown(projectRow(), ZoneBody, 100))
	_, err := c.PointerMove(200)
	require.NoError(t, err)
	res, err := c.PointerUp(context.Background(), 105)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Empty(t, editor.calls)
}

func TestController_ResizeSubtask(t *testing.T) {
	editor := &recordingEditor{}
	c := NewController(editor, 24)
	row := Row{
		ID: "project-1/sub-s1", Kind: RowSubtask, ProjectID: 1, SubtaskID: "s1",
		Start: "2026-02-03", End: "2026-02-05", Bar: Bar{Left: 72, Width: 72},
	}

	require.NoError(t, c.PointerDown(row, ZoneRightHandle, 0))
	bar, err := c.PointerMove(-24 * 10)
	require.NoError(t, err)
	assert.Equal(t, Bar{Left: 72, Width: 24}, bar, "clamped to zero length")

	_, err = c.PointerUp(context.Background(), -24*10)
	require.NoError(t, err)
	require.Len(t, editor.calls, 1)
	assert.Equal(t, app.ScheduleTarget{ProjectID: 1, SubtaskID: "s1"}, editor.calls[0].target)
	assert.Equal(t, "2026-02-03", editor.calls[0].end)
}

func TestController_EditErrorPropagates(t *testing.T) {
	editor := &recordingEditor{err: errors.New("save failed")}
	c := NewController(editor, 24)

	require.NoError(t, c.PointerDown(projectRow(), ZoneBody, 0))
	res, err := c.PointerUp(context.Background(), 48)
	require.Error(t, err)
	assert.False(t, res.OK)
	assert.False(t, c.Active(), "gesture ends even when the edit fails")
}

func TestController_Guards(t *testing.T) {
	c := NewController(&recordingEditor{}, 0)

	_, err := c.PointerMove(10)
	assert.ErrorIs(t, err, ErrNoGesture)
	_, err = c.PointerUp(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoGesture)

	assert.ErrorIs(t, c.PointerDown(Row{ProjectID: 1}, ZoneBody, 0), ErrUndatedRow)

	require.NoError(t, c.PointerDown(projectRow(), ZoneBody, 0))
	assert.ErrorIs(t, c.PointerDown(projectRow(), ZoneBody, 0), ErrGestureActive)

	c.Cancel()
	assert.False(t, c.Active())
	_, _, ok := c.Preview()
	assert.False(t, ok)
}
