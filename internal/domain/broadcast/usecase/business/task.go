package business

import (
	"context"
	"sync"
	"time"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/entities"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

// Task is one running broadcast. Only the pipeline and its owning operator touch it.
type Task struct {
	operator   int64
	content    chat.Content
	recipients []int64
	startedAt  time.Time

	mu       sync.Mutex
	progress entities.Progress
	statusID int
	// resume is non-nil while paused and closed on resume
	resume  chan struct{}
	stopped bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newTask(operator int64, content chat.Content, recipients []int64, cancel context.CancelFunc, now time.Time) *Task {
	return &Task{
		operator:   operator,
		content:    content,
		recipients: recipients,
		startedAt:  now,
		progress: entities.Progress{
			Operator: operator,
			Status:   entities.StatusPreparing,
			Total:    len(recipients),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Progress returns a snapshot of the counters and status
func (t *Task) Progress() entities.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Done is closed when the task has stopped sending
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) setStatusID(id int) {
	t.mu.Lock()
	t.statusID = id
	t.mu.Unlock()
}

func (t *Task) status() (int, entities.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusID, t.progress
}

func (t *Task) record(sent bool) entities.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sent {
		t.progress.Sent++
	} else {
		t.progress.Failed++
	}
	return t.progress
}

// begin moves a preparing task to running; a pause that came first is kept
func (t *Task) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.progress.Status == entities.StatusPreparing {
		t.progress.Status = entities.StatusRunning
	}
}

func (t *Task) setStatus(s entities.Status) entities.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.progress.Status.Terminal() {
		t.progress.Status = s
	}
	return t.progress
}

// pause is idempotent; it reports whether the state changed
func (t *Task) pause() (entities.Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resume != nil || t.stopped || t.progress.Status.Terminal() {
		return t.progress, false
	}
	t.resume = make(chan struct{})
	t.progress.Status = entities.StatusPaused
	return t.progress, true
}

// unpause is a no-op when not paused
func (t *Task) unpause() (entities.Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resume == nil {
		return t.progress, false
	}
	close(t.resume)
	t.resume = nil
	if !t.progress.Status.Terminal() {
		t.progress.Status = entities.StatusRunning
	}
	return t.progress, true
}

// stop cancels the run before waking a paused loop
func (t *Task) stop() {
	t.cancel()
	t.mu.Lock()
	t.stopped = true
	if t.resume != nil {
		close(t.resume)
		t.resume = nil
	}
	t.mu.Unlock()
}

// waitWhilePaused blocks until the task is resumed, stopped or ctx is done.
// A stopped task always yields an error.
func (t *Task) waitWhilePaused(ctx context.Context) error {
	for {
		t.mu.Lock()
		resume, stopped := t.resume, t.stopped
		t.mu.Unlock()
		if stopped {
			return context.Canceled
		}
		if resume == nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resume:
		}
	}
}
