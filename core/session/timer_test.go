package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yavirac/inventario/core"
	testutil "github.com/yavirac/inventario/tests"
)

var testSessionConf = core.SessionConfig{
	Duration:         30 * time.Minute,
	WarningThreshold: 5 * time.Minute,
}

type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	tick chan time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start, tick: make(chan time.Time, 64)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) Ticker { return fakeTicker{ch: c.tick} }

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// step advances the clock and delivers one tick.
func (c *fakeClock) step(d time.Duration) {
	c.advance(d)
	c.tick <- c.Now()
}

type fakeTicker struct{ ch chan time.Time }

func (t fakeTicker) Chan() <-chan time.Time { return t.ch }
func (fakeTicker) Stop()                    {}

func newTestTimer(t *testing.T) (*Timer, *fakeClock, *MemStore) {
	t.Helper()
	clock := newFakeClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	store := NewMemStore()
	return NewTimer(store, testutil.NewLogger(), testSessionConf, WithClock(clock)), clock, store
}

func waitExpired(t *testing.T, timer *Timer) {
	t.Helper()
	select {
	case <-timer.Expired():
	case <-time.After(2 * time.Second):
		t.Fatal("expected an expiry event")
	}
}

func waitRemaining(t *testing.T, timer *Timer) time.Duration {
	t.Helper()
	select {
	case remaining := <-timer.Remaining():
		return remaining
	case <-time.After(2 * time.Second):
		t.Fatal("expected a remaining-time event")
		return 0
	}
}

func Test_Timer_emitsRemaining(t *testing.T) {
	timer, clock, _ := newTestTimer(t)

	if _, err := timer.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if got := waitRemaining(t, timer); got != 30*time.Minute {
		t.Errorf("initial remaining = %v; want %v", got, 30*time.Minute)
	}

	clock.step(time.Second)
	if got := waitRemaining(t, timer); got != 30*time.Minute-time.Second {
		t.Errorf("remaining after 1s = %v; want %v", got, 30*time.Minute-time.Second)
	}
}

func Test_Timer_expiresExactlyOnce(t *testing.T) {
	timer, clock, store := newTestTimer(t)
	ctx := context.Background()

	if _, err := timer.StartSession(ctx); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	clock.step(30 * time.Minute)
	waitExpired(t, timer)

	// persisted start is gone
	if _, err := store.GetStartTime(ctx); err != ErrNoSession {
		t.Errorf("GetStartTime() after expiry = %v; want ErrNoSession", err)
	}

	// further time passing must not produce a second event
	clock.step(time.Second)
	clock.step(time.Second)
	select {
	case <-timer.Expired():
		t.Error("expiry emitted more than once")
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_Timer_warningWindow(t *testing.T) {
	timer, clock, _ := newTestTimer(t)

	if _, err := timer.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if timer.ShouldShowWarning() {
		t.Error("warning shown with a full window left")
	}

	// 1795s elapsed -> ~5s remaining
	clock.advance(1795 * time.Second)
	if got := timer.GetTimeRemaining(); got != 5*time.Second {
		t.Errorf("GetTimeRemaining() = %v; want 5s", got)
	}
	if !timer.ShouldShowWarning() {
		t.Error("expected warning with 5s remaining")
	}

	// past the window the warning turns off again
	clock.advance(6 * time.Second)
	if timer.GetTimeRemaining() != 0 {
		t.Errorf("GetTimeRemaining() past the window = %v; want 0", timer.GetTimeRemaining())
	}
	if timer.ShouldShowWarning() {
		t.Error("warning shown after expiry")
	}
}

func Test_Timer_stopIsIdempotent(t *testing.T) {
	timer, _, store := newTestTimer(t)
	ctx := context.Background()

	// never started
	timer.Stop(ctx)

	if _, err := timer.StartSession(ctx); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	timer.Stop(ctx)
	timer.Stop(ctx)

	if got := timer.GetTimeRemaining(); got != 0 {
		t.Errorf("GetTimeRemaining() after Stop = %v; want 0", got)
	}
	if _, err := store.GetStartTime(ctx); err != ErrNoSession {
		t.Errorf("GetStartTime() after Stop = %v; want ErrNoSession", err)
	}
}

func Test_Timer_haltKeepsPersistedStart(t *testing.T) {
	timer, _, store := newTestTimer(t)
	ctx := context.Background()

	start, err := timer.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	timer.Halt()
	timer.Halt()

	if got := timer.GetTimeRemaining(); got != 0 {
		t.Errorf("GetTimeRemaining() after Halt = %v; want 0", got)
	}
	persisted, err := store.GetStartTime(ctx)
	if err != nil {
		t.Fatalf("GetStartTime() after Halt failed: %v", err)
	}
	if !persisted.Equal(start) {
		t.Errorf("persisted start after Halt = %v; want %v", persisted, start)
	}
}

func Test_Timer_resumeContinuesWindow(t *testing.T) {
	timer, clock, store := newTestTimer(t)
	ctx := context.Background()

	// a reload 10 minutes into a 30-minute session
	start := clock.Now().Add(-10 * time.Minute)
	if err := store.SaveSession(ctx, Session{Token: "tok-1"}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.SaveStartTime(ctx, start); err != nil {
		t.Fatalf("SaveStartTime() failed: %v", err)
	}

	if err := timer.Resume(ctx); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	if got := waitRemaining(t, timer); got != 20*time.Minute {
		t.Errorf("remaining after resume = %v; want %v", got, 20*time.Minute)
	}
}

func Test_Timer_resumeExpiresElapsedSession(t *testing.T) {
	timer, clock, store := newTestTimer(t)
	ctx := context.Background()

	start := clock.Now().Add(-31 * time.Minute)
	if err := store.SaveSession(ctx, Session{Token: "tok-1"}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.SaveStartTime(ctx, start); err != nil {
		t.Fatalf("SaveStartTime() failed: %v", err)
	}

	if err := timer.Resume(ctx); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	waitExpired(t, timer)
	if _, err := store.GetStartTime(ctx); err != ErrNoSession {
		t.Errorf("GetStartTime() after resume-expiry = %v; want ErrNoSession", err)
	}
}

func Test_Timer_resumeSkipsWithoutPersistedState(t *testing.T) {
	timer, _, _ := newTestTimer(t)

	if err := timer.Resume(context.Background()); err != nil {
		t.Fatalf("Resume() on an empty store failed: %v", err)
	}
	if got := timer.GetTimeRemaining(); got != 0 {
		t.Errorf("GetTimeRemaining() = %v; want 0 (nothing resumed)", got)
	}
}
