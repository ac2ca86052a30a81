// Package metronome holds the shared session state of the metronome and
// translates input events into scheduler, estimator and audio calls.
//
// A Metronome must only be used from the goroutine that its clock delivers
// callbacks on. Observers registered with Subscribe are called on that same
// goroutine after every change.
package metronome

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dimfu/clacktap/internal/clock"
	"github.com/dimfu/clacktap/internal/scheduler"
	"github.com/dimfu/clacktap/internal/tempo"
)

// Clicker emits the audible part of a beat.
type Clicker interface {
	PlayClick(accented bool)
	SetMuted(muted bool)
}

// State is a snapshot handed to observers.
type State struct {
	Tempo     int
	Measure   tempo.Measure
	Playing   bool
	Muted     bool
	VisualAid bool
	// Beat is the sounding beat or scheduler.NotStarted.
	Beat     int
	Accented bool
	Flash    bool
}

type Options struct {
	Tempo     int
	Measure   tempo.Measure
	Muted     bool
	VisualAid bool
	Smoothing float64
}

type observer struct {
	id int
	fn func(State)
}

type Metronome struct {
	clock     clock.Clock
	clicker   Clicker
	estimator *tempo.Estimator
	scheduler *scheduler.Scheduler
	flash     *scheduler.Flash

	state     State
	session   string
	observers []observer
	nextID    int
}

func New(c clock.Clock, clicker Clicker, opts Options) *Metronome {
	measure := opts.Measure
	if !measure.Valid() {
		measure = tempo.DefaultMeasure
	}
	bpm := opts.Tempo
	if bpm == 0 {
		bpm = tempo.DefaultTempo
	}

	m := &Metronome{
		clock:     c,
		clicker:   clicker,
		estimator: tempo.NewEstimator(opts.Smoothing),
		scheduler: scheduler.New(c),
		state: State{
			Tempo:     tempo.Clamp(bpm),
			Measure:   measure,
			Muted:     opts.Muted,
			VisualAid: opts.VisualAid,
			Beat:      scheduler.NotStarted,
		},
	}
	m.flash = scheduler.NewFlash(c, m.onFlash)
	clicker.SetMuted(opts.Muted)
	return m
}

// State returns the current snapshot.
func (m *Metronome) State() State {
	return m.state
}

// Subscribe registers fn for every change and returns a function removing it.
func (m *Metronome) Subscribe(fn func(State)) func() {
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Metronome) notify() {
	state := m.state
	for _, o := range m.observers {
		o.fn(state)
	}
}

func (m *Metronome) TogglePlay() {
	if m.state.Playing {
		m.Stop()
		return
	}
	m.Play()
}

func (m *Metronome) Play() {
	if m.state.Playing {
		return
	}
	m.state.Playing = true
	m.start()
}

func (m *Metronome) Stop() {
	m.halt()
	m.notify()
}

func (m *Metronome) ToggleMute() {
	m.state.Muted = !m.state.Muted
	m.clicker.SetMuted(m.state.Muted)
	log.WithField("muted", m.state.Muted).Debug("mute toggled")
	m.notify()
}

func (m *Metronome) ToggleVisualAid() {
	m.state.VisualAid = !m.state.VisualAid
	log.WithField("visual_aid", m.state.VisualAid).Debug("visual aid toggled")
	m.notify()
}

// CycleMeasure moves to the next measure. It always halts playback.
func (m *Metronome) CycleMeasure() {
	m.state.Measure = m.state.Measure.Next()
	log.WithField("measure", m.state.Measure).Debug("measure changed")
	m.halt()
	m.notify()
}

// IncrementTempo raises the tempo by one BPM, restarting a running scheduler
// at the new period.
func (m *Metronome) IncrementTempo() {
	m.adjustTempo(m.state.Tempo + 1)
}

func (m *Metronome) DecrementTempo() {
	m.adjustTempo(m.state.Tempo - 1)
}

func (m *Metronome) adjustTempo(bpm int) {
	bpm = tempo.Clamp(bpm)
	if bpm == m.state.Tempo {
		return
	}
	m.state.Tempo = bpm
	log.WithField("tempo", bpm).Debug("tempo changed")
	if m.state.Playing {
		m.start()
		return
	}
	m.notify()
}

// SetTempo sets an absolute tempo, clamped into range, and halts playback.
func (m *Metronome) SetTempo(bpm int) {
	m.state.Tempo = tempo.Clamp(bpm)
	log.WithField("tempo", m.state.Tempo).Debug("tempo set")
	m.halt()
	m.notify()
}

// Tap feeds a tap to the estimator at the clock's current time. Tapping
// always halts playback; the tempo only changes once an estimate exists.
func (m *Metronome) Tap() {
	bpm, ok := m.estimator.RecordTap(m.clock.Now(), m.state.Tempo)
	m.halt()
	if ok {
		m.state.Tempo = bpm
		log.WithField("tempo", bpm).Debug("tap tempo estimate")
	}
	m.notify()
}

// Close stops every pending timer.
func (m *Metronome) Close() {
	m.halt()
	m.flash.Stop()
}

func (m *Metronome) start() {
	m.session = uuid.NewString()
	log.WithFields(log.Fields{
		"session": m.session,
		"tempo":   m.state.Tempo,
		"measure": m.state.Measure,
	}).Info("playback started")
	m.scheduler.Start(m.state.Tempo, m.state.Measure, m.onBeat)
}

func (m *Metronome) halt() {
	if m.state.Playing {
		log.WithField("session", m.session).Info("playback stopped")
	}
	m.scheduler.Stop()
	m.state.Playing = false
	m.state.Beat = scheduler.NotStarted
	m.state.Accented = false
}

func (m *Metronome) onBeat(b scheduler.Beat) {
	m.state.Beat = b.Index
	m.state.Accented = b.Accented
	log.WithFields(log.Fields{"session": m.session, "beat": b.Index}).Trace("beat")

	m.clicker.PlayClick(b.Accented)
	if b.Accented && m.state.VisualAid {
		m.flash.Pulse()
	}
	m.notify()
}

func (m *Metronome) onFlash(on bool) {
	m.state.Flash = on
	m.notify()
}
