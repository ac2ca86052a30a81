package scheduler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dimfu/clacktap/internal/clock"
	"github.com/dimfu/clacktap/internal/tempo"
)

// NotStarted is the beat index outside of playback.
const NotStarted = -1

// maxDrift is how far a tick may stray from its expected time before the
// expectation is re-anchored.
const maxDrift = 10 * time.Millisecond

// Beat is emitted on every tick.
type Beat struct {
	Index    int
	Accented bool
}

// Scheduler drives one repeating timer that walks the beats of a measure.
// It must only be used from the goroutine its clock delivers callbacks on.
type Scheduler struct {
	clock clock.Clock
	timer clock.Timer

	index    int
	beats    tempo.Measure
	interval time.Duration
	nextTick time.Time
	onTick   func(Beat)
	resyncs  int
}

func New(c clock.Clock) *Scheduler {
	return &Scheduler{clock: c, index: NotStarted}
}

// Interval is the tick period for bpm.
func Interval(bpm int) time.Duration {
	return time.Minute / time.Duration(tempo.Clamp(bpm))
}

// Start disposes of any running timer, emits the accented first beat right
// away and then ticks every 60000/bpm milliseconds.
func (s *Scheduler) Start(bpm int, beats tempo.Measure, onTick func(Beat)) {
	s.Stop()

	if !beats.Valid() {
		beats = tempo.DefaultMeasure
	}
	s.beats = beats
	s.interval = Interval(bpm)
	s.onTick = onTick
	s.index = 0
	s.nextTick = s.clock.Now().Add(s.interval)
	s.timer = s.clock.Every(s.interval, s.tick)

	// the first beat may stop the scheduler, so the timer is armed before it
	s.emit()
}

// Stop cancels the pending timer and forgets the beat position.
func (s *Scheduler) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.index = NotStarted
}

func (s *Scheduler) Running() bool {
	return s.timer != nil
}

// Resyncs counts how often the timer was re-anchored after drifting.
func (s *Scheduler) Resyncs() int {
	return s.resyncs
}

// Index is the currently sounding beat, or NotStarted.
func (s *Scheduler) Index() int {
	return s.index
}

func (s *Scheduler) tick() {
	if s.timer == nil {
		return
	}

	now := s.clock.Now()
	drift := now.Sub(s.nextTick)
	if drift > maxDrift || drift < -maxDrift {
		log.WithField("drift", drift).Debug("beat clock drifted, resyncing")
		s.resyncs++
		s.nextTick = now
		// restart the period from this beat instead of the stale anchor
		s.timer.Stop()
		s.timer = s.clock.Every(s.interval, s.tick)
	}
	s.nextTick = s.nextTick.Add(s.interval)

	s.index = (s.index + 1) % int(s.beats)
	s.emit()
}

func (s *Scheduler) emit() {
	if s.onTick != nil {
		s.onTick(Beat{Index: s.index, Accented: s.index == 0})
	}
}
