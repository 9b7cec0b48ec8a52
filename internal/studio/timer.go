package studio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/prima/internal/models"
)

// Elapsed returns how long shift has been running at now. Completed shifts report their final duration.
func Elapsed(shift models.Shift, now time.Time) time.Duration {
	if shift.EndTime != nil {
		return shift.Duration()
	}
	if now.Before(shift.StartTime) {
		return 0
	}
	return now.Sub(shift.StartTime)
}

// FormatElapsed renders d as HH:MM:SS; hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// Timer reports the elapsed time of a running shift once per interval until stopped.
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartTimer calls onTick with the elapsed time of shift immediately and then every interval.
//
// The goroutine exits when ctx is cancelled, when [Timer.Stop] is called, or when stillActive
// reports false. now defaults to [time.Now].
func StartTimer(
	ctx context.Context,
	shift models.Shift,
	interval time.Duration,
	now func() time.Time,
	stillActive func() bool,
	onTick func(time.Duration),
) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	if stillActive == nil {
		stillActive = func() bool { return true }
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Timer{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if !shift.IsActive() || !stillActive() {
				return
			}
			onTick(Elapsed(shift, now()))

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return t
}

// Stop halts the timer and waits for its goroutine to exit. It is safe to call more than once.
func (t *Timer) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
