// Package business contains the broadcast pipeline
package business

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/entities"
	bcerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Pipeline defaults
const (
	SendDelay       = 50 * time.Millisecond
	StatusEvery     = 10
	MaxSendAttempts = 5
)

// Pipeline runs at most one broadcast per operator
type Pipeline struct {
	messenger chat.Messenger
	events    deps.EventPublisher
	metrics   *metrics.Metrics
	sleep     chat.SleepFunc
	delay     time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	// base outlives the request that started a broadcast; Shutdown cancels it
	base     context.Context
	shutdown context.CancelFunc

	mu    sync.Mutex
	tasks map[int64]*Task
	wg    sync.WaitGroup
}

// NewPipeline creates a new Pipeline
func NewPipeline(messenger chat.Messenger, events deps.EventPublisher, m *metrics.Metrics, logger zerolog.Logger) *Pipeline {
	base, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		messenger: messenger,
		events:    events,
		metrics:   m,
		sleep:     chat.Sleep,
		delay:     SendDelay,
		now:       time.Now,
		logger:    logger,
		base:      base,
		shutdown:  cancel,
		tasks:     make(map[int64]*Task),
	}
}

// Start snapshots recipients and sends content to each of them in the background.
// It fails with ErrAlreadyRunning while the operator has an active broadcast.
func (p *Pipeline) Start(ctx context.Context, operator int64, content chat.Content, recipients []int64) (*Task, error) {
	if len(recipients) == 0 {
		return nil, bcerrors.ErrNoRecipients
	}

	p.mu.Lock()
	if _, ok := p.tasks[operator]; ok {
		p.mu.Unlock()
		return nil, bcerrors.ErrAlreadyRunning
	}
	taskCtx, cancel := context.WithCancel(p.base)
	snapshot := append([]int64(nil), recipients...)
	task := newTask(operator, content, snapshot, cancel, p.now())
	p.tasks[operator] = task
	p.mu.Unlock()

	statusID, err := p.messenger.Send(ctx, operator, chat.Text(statusText(task.Progress()), nil))
	if err != nil {
		p.logger.Warn().Err(err).Int64("operator_id", operator).Msg("Failed to send broadcast status message")
	}
	task.setStatusID(statusID)

	p.logger.Info().
		Int64("operator_id", operator).
		Str("kind", string(content.Kind)).
		Int("recipients", len(snapshot)).
		Msg("Broadcast started")

	p.wg.Add(1)
	go p.run(taskCtx, task)

	return task, nil
}

// Active returns the operator's running broadcast
func (p *Pipeline) Active(operator int64) (*Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	task, ok := p.tasks[operator]
	return task, ok
}

// Pause holds the broadcast between two sends. Pausing a paused broadcast changes nothing.
func (p *Pipeline) Pause(ctx context.Context, operator int64) (entities.Progress, error) {
	task, ok := p.Active(operator)
	if !ok {
		return entities.Progress{}, bcerrors.ErrNotRunning
	}
	progress, changed := task.pause()
	if changed {
		p.publishStatus(ctx, task)
		p.logger.Info().Int64("operator_id", operator).Msg("Broadcast paused")
	}
	return progress, nil
}

// Resume continues a paused broadcast. Resuming a running broadcast changes nothing.
func (p *Pipeline) Resume(ctx context.Context, operator int64) (entities.Progress, error) {
	task, ok := p.Active(operator)
	if !ok {
		return entities.Progress{}, bcerrors.ErrNotRunning
	}
	progress, changed := task.unpause()
	if changed {
		p.publishStatus(ctx, task)
		p.logger.Info().Int64("operator_id", operator).Msg("Broadcast resumed")
	}
	return progress, nil
}

// Stop cancels the broadcast, waits for it to wind down and returns the final progress
func (p *Pipeline) Stop(ctx context.Context, operator int64) (entities.Progress, error) {
	p.mu.Lock()
	task, ok := p.tasks[operator]
	if ok {
		delete(p.tasks, operator)
	}
	p.mu.Unlock()
	if !ok {
		return entities.Progress{}, bcerrors.ErrNotRunning
	}

	task.stop()

	select {
	case <-task.Done():
	case <-ctx.Done():
		return task.Progress(), ctx.Err()
	}
	return task.Progress(), nil
}

// Shutdown stops every broadcast and waits for them
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.shutdown()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) run(ctx context.Context, task *Task) {
	defer p.wg.Done()
	defer close(task.done)

	p.metrics.BroadcastStarted()
	defer p.metrics.BroadcastFinished()

	task.begin()

	for _, recipient := range task.recipients {
		if task.waitWhilePaused(ctx) != nil {
			p.finish(task, entities.StatusStopped)
			return
		}

		err := p.send(ctx, recipient, task.content)
		if err != nil && ctx.Err() != nil {
			p.finish(task, entities.StatusStopped)
			return
		}

		progress := task.record(err == nil)
		p.metrics.RecordBroadcastMessage(err == nil)
		if err != nil {
			p.logger.Debug().Err(err).Int64("chat_id", recipient).Msg("Broadcast send failed")
		}

		processed := progress.Processed()
		if processed%StatusEvery == 0 && processed < progress.Total {
			p.publishStatus(ctx, task)
		}

		if err := p.sleep(ctx, p.delay); err != nil {
			p.finish(task, entities.StatusStopped)
			return
		}
	}

	p.finish(task, entities.StatusCompleted)
}

// send honours rate limits and gives up on any other error
func (p *Pipeline) send(ctx context.Context, chatID int64, content chat.Content) error {
	policy := chat.RetryPolicy{
		MaxAttempts: MaxSendAttempts,
		Sleep:       p.sleep,
		OnWait: func(attempt int, wait time.Duration) {
			p.metrics.RecordRateLimit()
			p.logger.Warn().Int64("chat_id", chatID).Int("attempt", attempt).Dur("wait", wait).Msg("Broadcast rate limited")
		},
	}
	return policy.Do(ctx, func() error {
		_, err := p.messenger.Send(ctx, chatID, content)
		return err
	})
}

func (p *Pipeline) finish(task *Task, status entities.Status) {
	progress := task.setStatus(status)

	p.mu.Lock()
	if p.tasks[task.operator] == task {
		delete(p.tasks, task.operator)
	}
	p.mu.Unlock()

	// the task context may already be cancelled
	ctx := context.WithoutCancel(p.base)
	p.publishStatus(ctx, task)

	event := entities.Finished{Progress: progress, StartedAt: task.startedAt, FinishedAt: p.now()}
	if err := p.events.PublishFinished(ctx, event); err != nil {
		p.logger.Warn().Err(err).Int64("operator_id", task.operator).Msg("Failed to publish broadcast event")
	}

	p.logger.Info().
		Int64("operator_id", task.operator).
		Str("status", string(progress.Status)).
		Int("sent", progress.Sent).
		Int("failed", progress.Failed).
		Int("total", progress.Total).
		Msg("Broadcast finished")
}

func (p *Pipeline) publishStatus(ctx context.Context, task *Task) {
	statusID, progress := task.status()
	if statusID == 0 {
		return
	}
	text := statusText(progress)
	if progress.Status == entities.StatusCompleted {
		text = summaryText(progress)
	}
	err := p.messenger.EditText(ctx, task.operator, statusID, text, controls(progress.Status))
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Debug().Err(err).Int64("operator_id", task.operator).Msg("Failed to update broadcast status")
	}
}

func statusLabel(s entities.Status) string {
	switch s {
	case entities.StatusPreparing:
		return "🔄 Preparing..."
	case entities.StatusPaused:
		return "⏸️ Paused"
	case entities.StatusStopped:
		return "⏹️ Stopped"
	case entities.StatusCompleted:
		return "✅ Completed"
	default:
		return "📤 Sending..."
	}
}

func statusText(p entities.Progress) string {
	return fmt.Sprintf("📢 <b>Broadcast</b>\n\n📊 <b>Status:</b> %s\n\n📈 <b>Progress:</b>\n✅ Sent: %d/%d\n❌ Failed: %d\n⏳ Remaining: %d\n📊 Done: %.1f%%",
		statusLabel(p.Status), p.Sent, p.Total, p.Failed, p.Remaining(), p.Percent())
}

func summaryText(p entities.Progress) string {
	return fmt.Sprintf("📢 <b>Broadcast finished</b>\n\n✅ <b>Results:</b>\n📤 Sent: %d/%d\n❌ Failed: %d\n📊 Success: %.1f%%",
		p.Sent, p.Total, p.Failed, p.SuccessRate())
}

// controls are shown while the broadcast can still be steered
func controls(s entities.Status) *chat.Keyboard {
	stop := chat.Button{Text: "⏹️ Stop", Data: chat.CallbackBroadcastStop}
	switch s {
	case entities.StatusPaused:
		return chat.NewKeyboard([]chat.Button{{Text: "▶️ Resume", Data: chat.CallbackBroadcastResume}, stop})
	case entities.StatusPreparing, entities.StatusRunning:
		return chat.NewKeyboard([]chat.Button{{Text: "⏸️ Pause", Data: chat.CallbackBroadcastPause}, stop})
	default:
		return nil
	}
}
