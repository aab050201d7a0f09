package sessiontest

import (
	"sync"
	"time"
)

// ManualTicker is a tick source driven by the test. It satisfies session.Ticker.
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick delivers one tick and reports whether the timer goroutine received it.
func (t *ManualTicker) Tick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(time.Second):
		return false
	}
}

// Tickers hands out ManualTickers and remembers them in creation order.
type Tickers struct {
	mu  sync.Mutex
	all []*ManualTicker
}

// New matches session.TickerFunc up to the Ticker return type; wrap it with a closure
// returning session.Ticker.
func (f *Tickers) New(time.Duration) *ManualTicker {
	t := &ManualTicker{ch: make(chan time.Time)}
	f.mu.Lock()
	f.all = append(f.all, t)
	f.mu.Unlock()
	return t
}

func (f *Tickers) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

// Last returns the most recently created ticker, or nil.
func (f *Tickers) Last() *ManualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.all) == 0 {
		return nil
	}
	return f.all[len(f.all)-1]
}
