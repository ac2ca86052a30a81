package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

const (
	AccentFreq = 880.0
	BeatFreq   = 440.0

	// ClickDuration is how long a tone rings before it stops itself.
	ClickDuration = 100 * time.Millisecond
	// gainFloor is the gain reached at the end of the decay.
	gainFloor = 0.001
)

type tone struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
	gain  float64
	decay float64
}

// Tone returns a sine streamer at freq starting at full gain and decaying
// exponentially to near silence over d, after which it is drained.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	if total < 1 {
		total = 1
	}
	return &tone{
		sr:    sr,
		freq:  freq,
		total: total,
		gain:  1,
		decay: math.Pow(gainFloor, 1/float64(total)),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for n < len(samples) && t.pos < t.total {
		v := t.gain * math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(t.sr))
		samples[n][0] = v
		samples[n][1] = v
		t.gain *= t.decay
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error {
	return nil
}
