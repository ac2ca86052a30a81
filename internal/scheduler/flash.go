package scheduler

import (
	"time"

	"github.com/dimfu/clacktap/internal/clock"
)

// FlashDuration is how long a flash stays lit, independent of tempo.
const FlashDuration = 100 * time.Millisecond

// Flash is a transient visual flag. Each Pulse turns it on and arms a clear.
type Flash struct {
	clock    clock.Clock
	clear    clock.Timer
	on       bool
	onChange func(on bool)
}

func NewFlash(c clock.Clock, onChange func(on bool)) *Flash {
	return &Flash{clock: c, onChange: onChange}
}

func (f *Flash) Pulse() {
	if f.clear != nil {
		f.clear.Stop()
	}
	f.set(true)
	f.clear = f.clock.After(FlashDuration, func() {
		f.clear = nil
		f.set(false)
	})
}

// Stop cancels a pending clear and turns the flash off.
func (f *Flash) Stop() {
	if f.clear != nil {
		f.clear.Stop()
		f.clear = nil
	}
	f.set(false)
}

func (f *Flash) On() bool {
	return f.on
}

func (f *Flash) set(on bool) {
	if f.on == on {
		return
	}
	f.on = on
	if f.onChange != nil {
		f.onChange(on)
	}
}
