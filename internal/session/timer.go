package session

import (
	"sync"
	"time"
)

type TimerState string

const (
	TimerDisabled TimerState = "disabled"
	TimerRunning  TimerState = "running"
	TimerExpired  TimerState = "expired"
	TimerStopped  TimerState = "stopped"
)

// Ticker is the repeating tick source driving a Timer.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type TimerOption func(*Timer)

func WithTickerFunc(fn TickerFunc) TimerOption {
	return func(t *Timer) { t.newTicker = fn }
}

func WithTickInterval(d time.Duration) TimerOption {
	return func(t *Timer) { t.interval = d }
}

// Timer is a one-shot countdown. onExpire runs at most once per Start, on the timer
// goroutine and without the timer lock held.
type Timer struct {
	mu        sync.Mutex
	state     TimerState
	remaining int
	gen       uint64
	ticker    Ticker
	done      chan struct{}

	newTicker TickerFunc
	interval  time.Duration
	onExpire  func()
}

func NewTimer(onExpire func(), opts ...TimerOption) *Timer {
	t := &Timer{
		state:     TimerDisabled,
		newTicker: NewRealTicker,
		interval:  time.Second,
		onExpire:  onExpire,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a countdown of seconds, replacing any previous one.
// A non-positive duration leaves the timer disabled.
func (t *Timer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.releaseLocked()
	t.gen++
	if seconds <= 0 {
		t.state = TimerDisabled
		t.remaining = 0
		return
	}

	t.state = TimerRunning
	t.remaining = seconds
	t.ticker = t.newTicker(t.interval)
	t.done = make(chan struct{})
	go t.run(t.gen, t.ticker, t.done)
}

// Stop ends a running or expired countdown and clears the remaining time.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.releaseLocked()
	t.gen++
	if t.state == TimerRunning || t.state == TimerExpired {
		t.state = TimerStopped
	}
	t.remaining = 0
}

// Reset returns the timer to Disabled, dropping any pending tick.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.releaseLocked()
	t.gen++
	t.state = TimerDisabled
	t.remaining = 0
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the seconds left. ok is false when the timer is disabled or stopped.
func (t *Timer) Remaining() (seconds int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning && t.state != TimerExpired {
		return 0, false
	}
	return t.remaining, true
}

func (t *Timer) run(gen uint64, ticker Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			if !t.tick(gen) {
				return
			}
		}
	}
}

// tick applies one decrement. It returns false once the countdown is over or the
// tick belongs to a replaced generation.
func (t *Timer) tick(gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || t.state != TimerRunning {
		t.mu.Unlock()
		return false
	}
	if t.remaining > 1 {
		t.remaining--
		t.mu.Unlock()
		return true
	}

	t.remaining = 0
	t.state = TimerExpired
	t.releaseLocked()
	fire := t.onExpire
	t.mu.Unlock()

	if fire != nil {
		fire()
	}
	return false
}

func (t *Timer) releaseLocked() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}
