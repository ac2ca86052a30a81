package audio

import (
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Sample is a decoded click sound held in memory.
type Sample struct {
	buffer *beep.Buffer
}

// LoadSample decodes a WAV file into memory.
func LoadSample(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading audio file failed")
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "error while decoding audio %s", path)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, errors.Wrapf(err, "error while decoding audio %s", path)
	}
	return &Sample{buffer: buffer}, nil
}

// NewSample wraps an already decoded buffer.
func NewSample(buffer *beep.Buffer) *Sample {
	return &Sample{buffer: buffer}
}

// Streamer returns a fresh streamer over the whole sample, resampled to sr.
func (s *Sample) Streamer(sr beep.SampleRate) beep.Streamer {
	shot := s.buffer.Streamer(0, s.buffer.Len())
	if from := s.buffer.Format().SampleRate; from != sr {
		return beep.Resample(4, from, sr, shot)
	}
	return shot
}

func (s *Sample) Len() int {
	return s.buffer.Len()
}
