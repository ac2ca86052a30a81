package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimfu/clacktap/internal/tempo"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clack.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadJSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tempo": 90, "timesig": "3/4", "keys": {"tap": "x"}}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, s.Tempo)
	assert.Equal(t, "x", s.Keys["tap"])
	assert.Equal(t, "speaker", s.Backend)

	m, err := s.Measure()
	require.NoError(t, err)
	assert.Equal(t, tempo.Measure(3), m)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tempo: 150\nbackend: oto\nvisual_aid: true\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150, s.Tempo)
	assert.Equal(t, "oto", s.Backend)
	assert.True(t, s.VisualAid)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tempo":`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/.clack.json", "nested/clack.yml"} {
		path := filepath.Join(t.TempDir(), name)
		s := DefaultSettings()
		s.Tempo = 77
		s.Keys = map[string]string{"play": "p"}
		require.NoError(t, s.Save(path), name)

		loaded, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, s, loaded, name)
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.Tempo = 500
	require.NoError(t, s.Validate())
	assert.Equal(t, tempo.MaxTempo, s.Tempo)

	s = DefaultSettings()
	s.TimeSig = "7/8"
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Smoothing = 0
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Backend = "jack"
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.SampleRate = 100
	assert.Error(t, s.Validate())
}
