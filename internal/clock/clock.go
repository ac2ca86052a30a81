// Package clock serialises timer callbacks and input events onto a single
// goroutine.
//
// Everything that mutates metronome state runs inside a Loop, so the state
// itself needs no locking. Timers created through a Loop deliver their
// callbacks back into it; a callback belonging to a stopped timer is dropped
// even if it was already queued.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending or repeating callback.
type Timer interface {
	// Stop cancels the timer. Calling it more than once is harmless.
	Stop()
}

// Clock schedules callbacks. Callbacks never run concurrently with each
// other or with work posted to the same clock.
type Clock interface {
	Now() time.Time
	// Every runs f every d until the returned timer is stopped.
	Every(d time.Duration, f func()) Timer
	// After runs f once after d unless the returned timer is stopped first.
	After(d time.Duration, f func()) Timer
}

// Loop is the wall-clock implementation of Clock.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues f to run on the loop goroutine. It reports false when the loop
// has already exited.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.queue:
			f()
		}
	}
}

type loopTimer struct {
	stopped atomic.Bool
	quit    chan struct{}
	once    sync.Once
	timer   *time.Timer
}

func (t *loopTimer) Stop() {
	t.stopped.Store(true)
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.quit != nil {
		t.once.Do(func() { close(t.quit) })
	}
}

func (t *loopTimer) guard(f func()) func() {
	return func() {
		if t.stopped.Load() {
			return
		}
		f()
	}
}

func (l *Loop) Every(d time.Duration, f func()) Timer {
	t := &loopTimer{quit: make(chan struct{})}
	run := t.guard(f)

	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(run)
			}
		}
	}()
	return t
}

func (l *Loop) After(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	run := t.guard(func() {
		t.stopped.Store(true)
		f()
	})
	t.timer = time.AfterFunc(d, func() { l.Post(run) })
	return t
}
