package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
)

type patchCommitter func(ctx context.Context, projectID int, patch app.ProjectPatch) (app.Result, error)

// Autosaver debounces direct field edits. Each Queue restarts the timer;
// when it fires, or on Flush, the merged patches are committed one project
// at a time in id order.
type Autosaver struct {
	delay  time.Duration
	commit patchCommitter

	mu      sync.Mutex
	pending map[int]app.ProjectPatch
	timer   *time.Timer
	lastErr error
}

func newAutosaver(delay time.Duration, commit patchCommitter) *Autosaver {
	return &Autosaver{delay: delay, commit: commit, pending: make(map[int]app.ProjectPatch)}
}

func (a *Autosaver) Queue(projectID int, patch app.ProjectPatch) {
	if patch.Empty() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[projectID] = a.pending[projectID].Merge(patch)
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		_, err := a.Flush(context.Background())
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
	})
}

// Pending reports whether edits are waiting to be committed.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending) > 0
}

// LastError is the error of the most recent timer-driven flush.
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Flush commits every pending patch now. It stops at the first save
// failure and requeues the failed patch with every one not yet attempted;
// validation messages are collected and the rest still commit.
func (a *Autosaver) Flush(ctx context.Context) (app.Result, error) {
	a.mu.Lock()
	pending := a.pending
	a.pending = make(map[int]app.ProjectPatch)
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	ids := make([]int, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := app.Succeeded()
	var messages []string
	for i, id := range ids {
		res, err := a.commit(ctx, id, pending[id])
		if err != nil {
			a.requeue(ids[i:], pending)
			return res, err
		}
		if !res.OK {
			out.OK = false
		}
		if res.Degraded {
			out.Degraded = true
		}
		if res.Message != "" {
			messages = append(messages, res.Message)
		}
	}
	out.Message = strings.Join(messages, "; ")
	return out, nil
}

// requeue puts unsaved patches back underneath anything queued since the
// flush began, so newer edits still win.
func (a *Autosaver) requeue(ids []int, patches map[int]app.ProjectPatch) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		a.pending[id] = patches[id].Merge(a.pending[id])
	}
}

// Stop cancels the timer. Pending edits stay queued until the next Flush.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
