package session

import (
	"context"
	"sync"
	"time"

	"github.com/yavirac/inventario/core"
)

const tickInterval = time.Second

// Timer produces a monotonically-decreasing time-remaining signal for a
// fixed session window and notifies at two points: when the warning
// threshold is crossed and when the window expires. The window is measured
// from the persisted start timestamp; activity never renews it.
type Timer struct {
	duration time.Duration
	warning  time.Duration
	clock    Clock
	store    Store
	logger   core.Logger

	mu           sync.Mutex
	start        time.Time // zero = no session
	warningShown bool
	expired      bool // one-shot guard per session
	stopTick     chan struct{}

	remainingCh chan time.Duration
	expiredCh   chan struct{}
}

type TimerOption func(*Timer)

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) TimerOption {
	return func(t *Timer) { t.clock = c }
}

func NewTimer(store Store, logger core.Logger, conf core.SessionConfig, opts ...TimerOption) *Timer {
	t := &Timer{
		duration:    conf.Duration,
		warning:     conf.WarningThreshold,
		clock:       RealClock(),
		store:       store,
		logger:      logger,
		remainingCh: make(chan time.Duration, 1),
		expiredCh:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Remaining emits the time left roughly once per second while a session is
// active. Slow consumers miss updates rather than block the timer.
func (t *Timer) Remaining() <-chan time.Duration { return t.remainingCh }

// Expired emits exactly once per expired session.
func (t *Timer) Expired() <-chan struct{} { return t.expiredCh }

// StartSession records now as the session start, persists it, re-arms the
// warning, and begins ticking. It returns the recorded start time.
func (t *Timer) StartSession(ctx context.Context) (time.Time, error) {
	now := t.clock.Now()
	if err := t.store.SaveStartTime(ctx, now); err != nil {
		return time.Time{}, err
	}

	t.mu.Lock()
	t.start = now
	t.warningShown = false
	t.expired = false
	t.mu.Unlock()

	t.startTicker()
	return now, nil
}

// Resume continues a persisted session after a process restart. It is
// defensive: a missing start time or token simply skips resumption. An
// already-elapsed window triggers expiry immediately.
func (t *Timer) Resume(ctx context.Context) error {
	token, err := t.store.GetToken(ctx)
	if err != nil || token == "" {
		if err == nil || err == ErrNoSession {
			return nil
		}
		return err
	}
	start, err := t.store.GetStartTime(ctx)
	if err != nil {
		if err == ErrNoSession {
			return nil
		}
		return err
	}

	t.mu.Lock()
	t.start = start
	t.warningShown = false
	t.expired = false
	elapsed := t.clock.Now().Sub(start)
	t.mu.Unlock()

	if elapsed >= t.duration {
		t.expire(ctx)
		return nil
	}
	t.startTicker()
	return nil
}

// Stop cancels the tick, clears the in-memory and persisted start time and
// re-arms the warning. Safe to call repeatedly and from any state.
func (t *Timer) Stop(ctx context.Context) {
	t.mu.Lock()
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
	t.start = time.Time{}
	t.warningShown = false
	t.mu.Unlock()

	if err := t.store.ClearStartTime(ctx); err != nil {
		t.logger.Error("clearing persisted session start", err)
	}
}

// Halt cancels the tick loop without touching the persisted start time.
// Another Timer on the same profile keeps owning the window.
func (t *Timer) Halt() {
	t.mu.Lock()
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
	t.start = time.Time{}
	t.warningShown = false
	t.mu.Unlock()
}

// GetTimeRemaining returns the time left in the window, floored at zero.
func (t *Timer) GetTimeRemaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

func (t *Timer) remainingLocked() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	remaining := t.duration - t.clock.Now().Sub(t.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ShouldShowWarning reports whether the remaining time is within the warning
// threshold and the session has not yet expired.
func (t *Timer) ShouldShowWarning() bool {
	remaining := t.GetTimeRemaining()
	return remaining > 0 && remaining <= t.warning
}

func (t *Timer) startTicker() {
	t.mu.Lock()
	if t.stopTick != nil { // replace any previous tick
		close(t.stopTick)
	}
	stop := make(chan struct{})
	t.stopTick = stop
	t.mu.Unlock()

	ticker := t.clock.NewTicker(tickInterval)
	go t.run(stop, ticker)

	// emit the initial remaining time right away
	if remaining := t.GetTimeRemaining(); remaining > 0 {
		t.emitRemaining(remaining)
	}
}

func (t *Timer) run(stop chan struct{}, ticker Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if t.onTick() {
				return
			}
		}
	}
}

// onTick reports true when the tick loop must end.
func (t *Timer) onTick() bool {
	t.mu.Lock()
	if t.start.IsZero() {
		t.mu.Unlock()
		return false
	}
	remaining := t.remainingLocked()
	if remaining <= 0 {
		t.mu.Unlock()
		t.expire(context.Background())
		return true
	}
	if remaining <= t.warning && !t.warningShown {
		t.warningShown = true
	}
	t.mu.Unlock()

	t.emitRemaining(remaining)
	return false
}

func (t *Timer) expire(ctx context.Context) {
	t.mu.Lock()
	already := t.expired
	t.expired = true
	t.start = time.Time{}
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
	t.mu.Unlock()

	if already {
		return
	}
	if err := t.store.ClearStartTime(ctx); err != nil {
		t.logger.Error("clearing persisted session start", err)
	}
	select {
	case t.expiredCh <- struct{}{}:
	default:
	}
}

func (t *Timer) emitRemaining(remaining time.Duration) {
	select {
	case t.remainingCh <- remaining:
	default: // drop rather than block the tick
	}
}
