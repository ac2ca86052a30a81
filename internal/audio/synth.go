package audio

import (
	"github.com/faiface/beep"
	log "github.com/sirupsen/logrus"
)

// OutputFactory opens the shared output on first use.
type OutputFactory func() (Output, error)

// Synth emits one click per call. It is meant to be driven from a single
// goroutine.
type Synth struct {
	open   OutputFactory
	out    Output
	muted  bool
	warned bool

	accent *Sample
	beat   *Sample
}

func NewSynth(open OutputFactory) *Synth {
	return &Synth{open: open}
}

// UseSamples replaces the synthesized tones with recorded clicks. A nil
// sample keeps the tone for that beat.
func (s *Synth) UseSamples(accent, beat *Sample) {
	s.accent = accent
	s.beat = beat
}

func (s *Synth) SetMuted(muted bool) {
	s.muted = muted
}

func (s *Synth) Muted() bool {
	return s.muted
}

// PlayClick sounds one click, higher pitched when accented. Audio problems
// are logged and swallowed.
func (s *Synth) PlayClick(accented bool) {
	if s.muted {
		return
	}

	out, err := s.output()
	if err != nil {
		s.fail(err, "audio output unavailable")
		return
	}
	if out.Suspended() {
		if err := out.Resume(); err != nil {
			s.fail(err, "cannot resume audio output")
			return
		}
	}

	out.Play(s.voice(accented, out.SampleRate()))
}

func (s *Synth) output() (Output, error) {
	if s.out != nil {
		return s.out, nil
	}
	out, err := s.open()
	if err != nil {
		return nil, err
	}
	s.out = out
	return out, nil
}

func (s *Synth) voice(accented bool, sr beep.SampleRate) beep.Streamer {
	if accented {
		if s.accent != nil {
			return s.accent.Streamer(sr)
		}
		return Tone(sr, AccentFreq, ClickDuration)
	}
	if s.beat != nil {
		return s.beat.Streamer(sr)
	}
	return Tone(sr, BeatFreq, ClickDuration)
}

// fail logs the first failure as a warning and later ones at debug level.
func (s *Synth) fail(err error, msg string) {
	entry := log.WithError(err)
	if !s.warned {
		s.warned = true
		entry.Warn(msg)
		return
	}
	entry.Debug(msg)
}

// Close releases the output if one was opened.
func (s *Synth) Close() error {
	if s.out == nil {
		return nil
	}
	out := s.out
	s.out = nil
	return out.Close()
}
