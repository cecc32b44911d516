package host

import "time"

// fakeClock hands out tickers that only fire when Tick is called, letting
// tests drive dispatchLoop's drain cycle deterministically.
type fakeClock struct {
	tickers []*fakeTicker
}

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped = true }

func (f *fakeClock) NewTicker(time.Duration) Ticker {
	ft := &fakeTicker{ch: make(chan time.Time, 1)}
	f.tickers = append(f.tickers, ft)
	return ft
}

// Tick fires every ticker this clock has handed out that hasn't been
// stopped. It never blocks: a ticker that already has a pending tick
// buffered is left alone, matching time.Ticker's own drop-if-full
// behavior.
func (f *fakeClock) Tick() {
	for _, ft := range f.tickers {
		if ft.stopped {
			continue
		}
		select {
		case ft.ch <- time.Time{}:
		default:
		}
	}
}
