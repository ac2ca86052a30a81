package ui

import (
	"context"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dimfu/clacktap/internal/metronome"
)

// Listen reads key presses until ctx is done or the terminal closes, handing
// every bound action to dispatch. It runs on its own goroutine; dispatch is
// responsible for moving work onto the event loop.
func Listen(ctx context.Context, b *Bindings, dispatch func(Action)) error {
	events, err := keyboard.GetKeys(10)
	if err != nil {
		return errors.Wrap(err, "opening keyboard")
	}
	defer keyboard.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return errors.Wrap(ev.Err, "reading keyboard")
			}
			action := b.Lookup(ev)
			if action == ActionNone {
				continue
			}
			log.WithField("action", action).Debug("key")
			dispatch(action)
		}
	}
}

// Apply performs action on m. It reports false for ActionQuit, which the
// caller handles.
func Apply(m *metronome.Metronome, action Action) bool {
	switch action {
	case ActionPlay:
		m.TogglePlay()
	case ActionMute:
		m.ToggleMute()
	case ActionVisualAid:
		m.ToggleVisualAid()
	case ActionTap:
		m.Tap()
	case ActionMeasure:
		m.CycleMeasure()
	case ActionTempoUp:
		m.IncrementTempo()
	case ActionTempoDown:
		m.DecrementTempo()
	case ActionQuit:
		return false
	}
	return true
}
