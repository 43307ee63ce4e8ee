package widget

import (
	"sync"
	"time"
)

// oneShot manages a single deferred action. Scheduling again replaces
// any pending timer, so at most one instance is ever outstanding.
type oneShot struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms the timer to run fn after d, cancelling any prior
// pending run first.
func (o *oneShot) Schedule(d time.Duration, fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(d, fn)
}

// Cancel stops any pending run.
func (o *oneShot) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}
