package business

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

func TestTask_StopWakesPausedWaitWithError(t *testing.T) {
	// cancel does nothing here so only the stopped flag can end the wait
	task := newTask(operator, chat.Text("hi", nil), recipients(3), func() {}, time.Now())
	_, changed := task.pause()
	require.True(t, changed)

	result := make(chan error, 1)
	go func() { result <- task.waitWhilePaused(context.Background()) }()

	task.stop()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("paused wait was not released by stop")
	}

	assert.Error(t, task.waitWhilePaused(context.Background()), "a stopped task never resumes sending")
}

func TestTask_StopCancelsBeforeWaking(t *testing.T) {
	var pausedAtCancel bool
	var task *Task
	task = newTask(operator, chat.Text("hi", nil), recipients(3), func() {
		task.mu.Lock()
		pausedAtCancel = task.resume != nil
		task.mu.Unlock()
	}, time.Now())

	_, changed := task.pause()
	require.True(t, changed)

	task.stop()
	assert.True(t, pausedAtCancel, "context is cancelled while the loop is still parked")

	_, changed = task.pause()
	assert.False(t, changed, "a stopped task cannot be paused again")
}
