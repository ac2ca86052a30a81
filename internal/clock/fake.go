package clock

import "time"

// Fake is a manually driven Clock for tests. It is not safe for concurrent
// use; callbacks run synchronously inside Advance.
type Fake struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	when    time.Time
	period  time.Duration
	fn      func()
	seq     int
	stopped bool
}

func (t *fakeTimer) Stop() {
	t.stopped = true
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	return f.now
}

func (f *Fake) Every(d time.Duration, fn func()) Timer {
	return f.add(d, d, fn)
}

func (f *Fake) After(d time.Duration, fn func()) Timer {
	return f.add(d, 0, fn)
}

func (f *Fake) add(d, period time.Duration, fn func()) *fakeTimer {
	f.seq++
	t := &fakeTimer{when: f.now.Add(d), period: period, fn: fn, seq: f.seq}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due in
// time order.
func (f *Fake) Advance(d time.Duration) {
	end := f.now.Add(d)
	for {
		t := f.next(end)
		if t == nil {
			break
		}
		f.now = t.when
		if t.period > 0 {
			t.when = t.when.Add(t.period)
		} else {
			t.stopped = true
		}
		t.fn()
	}
	f.now = end
}

// Pending reports how many timers are still live.
func (f *Fake) Pending() int {
	f.prune()
	return len(f.timers)
}

// Periodic reports how many repeating timers are still live.
func (f *Fake) Periodic() int {
	f.prune()
	n := 0
	for _, t := range f.timers {
		if t.period > 0 {
			n++
		}
	}
	return n
}

func (f *Fake) next(end time.Time) *fakeTimer {
	f.prune()
	var best *fakeTimer
	for _, t := range f.timers {
		if t.when.After(end) {
			continue
		}
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (f *Fake) prune() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}
