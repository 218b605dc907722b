package mon

import "time"

// Thunk records the durations of some repeated operation into a Histogram.
// The zero value is ready to use.
type Thunk struct {
	Histogram
}

// Timer is an in progress observation started by a Thunk.
type Timer struct {
	h   *Histogram
	now time.Time
}

// Start begins timing an execution. The returned Timer must be stopped
// exactly once.
func (t *Thunk) Start() Timer {
	t.start()
	return Timer{h: &t.Histogram, now: time.Now()}
}

// Stop records the elapsed time since Start and returns it.
func (t Timer) Stop() time.Duration {
	dur := time.Since(t.now)
	t.h.done(int64(dur))
	return dur
}
