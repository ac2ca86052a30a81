// Package config loads clacktap settings from ~/.clack.json (or a YAML file
// when the path ends in .yaml or .yml). A missing file yields the defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dimfu/clacktap/internal/audio/backend"
	"github.com/dimfu/clacktap/internal/tempo"
)

const fileName = ".clack.json"

// Settings holds all configuration options.
type Settings struct {
	// Startup state
	Tempo     int    `json:"tempo" yaml:"tempo"`
	TimeSig   string `json:"timesig" yaml:"timesig"`
	Muted     bool   `json:"muted" yaml:"muted"`
	VisualAid bool   `json:"visual_aid" yaml:"visual_aid"`

	// Tap tempo weight of a fresh estimate against the current tempo
	Smoothing float64 `json:"smoothing" yaml:"smoothing"`

	// Audio
	Backend      string `json:"backend" yaml:"backend"`
	SampleRate   int    `json:"sample_rate" yaml:"sample_rate"`
	AccentSample string `json:"accent_sample,omitempty" yaml:"accent_sample,omitempty"`
	BeatSample   string `json:"beat_sample,omitempty" yaml:"beat_sample,omitempty"`

	// Key bindings, action name to key
	Keys map[string]string `json:"keys,omitempty" yaml:"keys,omitempty"`

	// Logging
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Tempo:      tempo.DefaultTempo,
		TimeSig:    tempo.DefaultMeasure.String(),
		Smoothing:  tempo.DefaultSmoothing,
		Backend:    backend.Speaker,
		SampleRate: 44100,
		LogLevel:   "info",
	}
}

// DefaultPath is the settings file in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(home, fileName)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads settings from path on top of the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return settings, nil
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return settings, nil
}

// Save writes settings to path.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing %s", path)
}

// Validate clamps the tempo and rejects settings that cannot be used.
func (s *Settings) Validate() error {
	s.Tempo = tempo.Clamp(s.Tempo)

	if _, err := s.Measure(); err != nil {
		return err
	}
	if s.Smoothing <= 0 || s.Smoothing > 1 {
		return errors.Errorf("smoothing %v must be in (0, 1]", s.Smoothing)
	}
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		return errors.Errorf("invalid sample rate: %d (must be between 8000 and 192000)", s.SampleRate)
	}

	if !backend.Known(s.Backend) {
		return errors.Errorf("unknown audio backend %q", s.Backend)
	}
	return nil
}

// Measure parses TimeSig.
func (s *Settings) Measure() (tempo.Measure, error) {
	return tempo.ParseMeasure(s.TimeSig)
}
