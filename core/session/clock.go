package session

import "time"

// Clock abstracts time so tests can drive the timer deterministically.
type (
	Clock interface {
		Now() time.Time
		NewTicker(d time.Duration) Ticker
	}

	Ticker interface {
		Chan() <-chan time.Time
		Stop()
	}
)

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (rt *realTicker) Chan() <-chan time.Time { return rt.t.C }
func (rt *realTicker) Stop()                  { rt.t.Stop() }
