package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/hajimehoshi/oto"
	"github.com/pkg/errors"

	"github.com/dimfu/clacktap/internal/audio/backend"
)

const (
	BackendSpeaker = backend.Speaker
	BackendOto     = backend.Oto
)

// Output is a process-wide audio device. A freshly created output starts
// suspended; Resume opens the device.
type Output interface {
	SampleRate() beep.SampleRate
	Suspended() bool
	Resume() error
	Suspend() error
	// Play mixes s into the output until it drains.
	Play(s beep.Streamer)
	Close() error
}

// NewOutput creates a suspended output for the named backend.
func NewOutput(name string, sr beep.SampleRate) (Output, error) {
	if sr <= 0 {
		return nil, errors.Errorf("invalid sample rate %d", sr)
	}
	switch name {
	case BackendSpeaker, "":
		return NewSpeakerOutput(sr), nil
	case BackendOto:
		return NewOtoOutput(sr), nil
	default:
		return nil, errors.Errorf("unknown audio backend %q", name)
	}
}

// speakerLatency is the length of the speaker buffer.
const speakerLatency = time.Second / 10

// SpeakerOutput plays through the beep speaker mixer.
type SpeakerOutput struct {
	sr     beep.SampleRate
	mu     sync.Mutex
	active bool
}

func NewSpeakerOutput(sr beep.SampleRate) *SpeakerOutput {
	return &SpeakerOutput{sr: sr}
}

func (o *SpeakerOutput) SampleRate() beep.SampleRate {
	return o.sr
}

func (o *SpeakerOutput) bufferSize() int {
	return o.sr.N(speakerLatency)
}

func (o *SpeakerOutput) Suspended() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.active
}

func (o *SpeakerOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active {
		return nil
	}
	if err := speaker.Init(o.sr, o.bufferSize()); err != nil {
		return errors.Wrap(err, "error while initializing speaker")
	}
	o.active = true
	return nil
}

func (o *SpeakerOutput) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	o.active = false
	return nil
}

func (o *SpeakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (o *SpeakerOutput) Close() error {
	return o.Suspend()
}

const otoBufferSize = 8192

// OtoOutput writes a beep mixer straight into an oto player from its own
// goroutine.
type OtoOutput struct {
	sr beep.SampleRate

	mu    sync.Mutex
	mixer beep.Mixer

	context *oto.Context
	player  *oto.Player
	quit    chan struct{}
	done    chan struct{}
}

func NewOtoOutput(sr beep.SampleRate) *OtoOutput {
	return &OtoOutput{sr: sr}
}

func (o *OtoOutput) SampleRate() beep.SampleRate {
	return o.sr
}

func (o *OtoOutput) Suspended() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player == nil
}

func (o *OtoOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return nil
	}

	context, err := oto.NewContext(int(o.sr), 2, 2, otoBufferSize)
	if err != nil {
		return errors.Wrap(err, "cannot create oto context")
	}
	o.context = context
	o.player = context.NewPlayer()
	o.quit = make(chan struct{})
	o.done = make(chan struct{})
	go o.pump(o.player, o.quit, o.done)
	return nil
}

func (o *OtoOutput) pump(player *oto.Player, quit, done chan struct{}) {
	defer close(done)

	samples := make([][2]float64, o.sr.N(time.Second/30))
	var buf []byte
	for {
		select {
		case <-quit:
			return
		default:
		}

		o.mu.Lock()
		o.mixer.Stream(samples)
		o.mu.Unlock()

		buf = encodeSamples(buf[:0], samples)
		if _, err := player.Write(buf); err != nil {
			return
		}
	}
}

func (o *OtoOutput) Suspend() error {
	o.mu.Lock()
	if o.player == nil {
		o.mu.Unlock()
		return nil
	}
	player, context, quit, done := o.player, o.context, o.quit, o.done
	o.player, o.context = nil, nil
	o.mixer.Clear()
	o.mu.Unlock()

	close(quit)
	<-done
	if err := player.Close(); err != nil {
		return errors.Wrap(err, "cannot close oto player")
	}
	if err := context.Close(); err != nil {
		return errors.Wrap(err, "cannot close oto context")
	}
	return nil
}

func (o *OtoOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s)
	o.mu.Unlock()
}

func (o *OtoOutput) Close() error {
	return o.Suspend()
}

// encodeSamples appends stereo samples to dst as 16-bit little-endian PCM,
// clipping anything outside [-1, 1].
func encodeSamples(dst []byte, samples [][2]float64) []byte {
	for _, frame := range samples {
		for _, v := range frame {
			if v < -1 {
				v = -1
			} else if v > 1 {
				v = 1
			}
			s := int16(v * (1<<15 - 1))
			dst = append(dst, byte(s), byte(s>>8))
		}
	}
	return dst
}
