package chat

import (
	"context"
	"time"

	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// RetryMargin is added to every server-requested wait
const RetryMargin = time.Second

// SleepFunc suspends the caller for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy retries a unit of work while the transport reports rate limiting
type RetryPolicy struct {
	MaxAttempts int
	Sleep       SleepFunc
	// OnWait is called before each backoff with the attempt that hit the limit
	OnWait func(attempt int, wait time.Duration)
}

// Do runs fn until it succeeds, fails with a non rate-limit error,
// or MaxAttempts is exhausted. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		wait, limited := pkgerrors.RetryAfter(err)
		if !limited || attempt >= attempts {
			return err
		}

		if p.OnWait != nil {
			p.OnWait(attempt, wait)
		}
		if serr := sleep(ctx, wait+RetryMargin); serr != nil {
			return serr
		}
	}
}
