package tempo

import (
	"math"
	"sort"
	"time"
)

const (
	// MinInterval is the shortest accepted gap between taps (300 BPM).
	MinInterval = 200 * time.Millisecond
	// MaxInterval is the longest accepted gap between taps (40 BPM).
	MaxInterval = 1500 * time.Millisecond
	// DebounceMargin widens the duplicate window below MinInterval.
	DebounceMargin = 20 * time.Millisecond
	// IdleReset discards the tap history when the user pauses this long.
	IdleReset = 2000 * time.Millisecond

	// DefaultSmoothing is the weight given to a fresh estimate when it is
	// blended with the current tempo.
	DefaultSmoothing = 0.7

	shortHistory = 10
	longHistory  = 100
)

// Estimator turns a stream of tap timestamps into a tempo. The zero value is
// ready to use with DefaultSmoothing.
type Estimator struct {
	// Smoothing in (0, 1]; 1 disables smoothing. Zero means DefaultSmoothing.
	Smoothing float64

	taps    []time.Time
	lastTap time.Time
}

func NewEstimator(smoothing float64) *Estimator {
	return &Estimator{Smoothing: smoothing}
}

// RecordTap registers a tap at now and returns the new tempo blended with
// current. The boolean is false when there is not enough data yet, in which
// case the caller keeps its tempo.
func (e *Estimator) RecordTap(now time.Time, current int) (int, bool) {
	sinceLast := now.Sub(e.lastTap)
	if e.lastTap.IsZero() {
		sinceLast = math.MaxInt64
	}

	// key auto-repeat and bouncing switches
	if sinceLast > 0 && sinceLast < MinInterval-DebounceMargin {
		e.lastTap = now
		return 0, false
	}

	if sinceLast > IdleReset {
		e.taps = e.taps[:0]
	}
	e.taps = append(e.taps, now)

	limit := shortHistory
	if len(e.taps) >= shortHistory {
		limit = longHistory
	}
	if len(e.taps) > limit {
		e.taps = append(e.taps[:0], e.taps[len(e.taps)-limit:]...)
	}

	e.lastTap = now

	if len(e.taps) < 2 {
		return 0, false
	}

	bpms := make([]float64, 0, len(e.taps)-1)
	for i := 1; i < len(e.taps); i++ {
		iv := e.taps[i].Sub(e.taps[i-1])
		if iv < MinInterval || iv > MaxInterval {
			continue
		}
		bpms = append(bpms, float64(time.Minute)/float64(iv))
	}
	if len(bpms) == 0 {
		return 0, false
	}

	clamped := Clamp(int(math.Round(aggregate(bpms))))
	s := e.smoothing()
	return int(math.Round(float64(current)*(1-s) + float64(clamped)*s)), true
}

// Reset forgets every tap.
func (e *Estimator) Reset() {
	e.taps = e.taps[:0]
	e.lastTap = time.Time{}
}

// Len reports how many taps are in the history.
func (e *Estimator) Len() int {
	return len(e.taps)
}

func (e *Estimator) smoothing() float64 {
	if e.Smoothing <= 0 || e.Smoothing > 1 {
		return DefaultSmoothing
	}
	return e.Smoothing
}

// aggregate reduces per-interval tempos: a trimmed mean once there are enough
// samples to spare the extremes, a plain mean for a few, and the latest value
// for two.
func aggregate(bpms []float64) float64 {
	switch {
	case len(bpms) == 1:
		return bpms[0]
	case len(bpms) >= 6:
		sorted := append([]float64(nil), bpms...)
		sort.Float64s(sorted)
		return mean(sorted[1 : len(sorted)-1])
	case len(bpms) >= 3:
		return mean(bpms)
	default:
		return bpms[len(bpms)-1]
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
