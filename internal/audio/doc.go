// Package audio produces metronome clicks.
//
// A Synth lazily opens one Output on the first click and keeps it for the
// rest of the process. Each click is a fresh, self-terminating streamer:
// either a short decaying sine tone or a decoded WAV sample.
//
//	synth := audio.NewSynth(func() (audio.Output, error) {
//	    return audio.NewOutput(audio.BackendSpeaker, 44100)
//	})
//	defer synth.Close()
//	synth.PlayClick(true) // 880Hz accent
//
// Two backends are available: the beep speaker mixer and a direct oto
// player. Audio failures never propagate; they are logged and the click is
// dropped.
package audio
