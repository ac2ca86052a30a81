package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimfu/clacktap/internal/config"
	"github.com/dimfu/clacktap/internal/tempo"
	"github.com/dimfu/clacktap/internal/ui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clack.json")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "config", "init", "--config", path)
	assert.Error(t, err, "existing file needs --force")

	_, err = execute(t, "config", "init", "--force", "--config", path)
	require.NoError(t, err)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "t,enter", saved.Keys["tap"])

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"tempo": 100`)
	assert.Contains(t, out, `"backend": "speaker"`)
}

func TestFlagsOverrideSettings(t *testing.T) {
	cfgPath = filepath.Join(t.TempDir(), "clack.yaml")
	require.NoError(t, (&config.Settings{
		Tempo:      80,
		TimeSig:    "2/4",
		Smoothing:  0.5,
		Backend:    "oto",
		SampleRate: 48000,
		LogLevel:   "debug",
	}).Save(cfgPath))

	settings, err := loadSettings(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 80, settings.Tempo)
	assert.Equal(t, "oto", settings.Backend)

	require.NoError(t, rootCmd.Flags().Set("tempo", "500"))
	require.NoError(t, rootCmd.Flags().Set("timesig", "3/4"))
	require.NoError(t, rootCmd.Flags().Set("visual", "true"))

	settings, err = loadSettings(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, tempo.MaxTempo, settings.Tempo)
	assert.Equal(t, "3/4", settings.TimeSig)
	assert.True(t, settings.VisualAid)
	assert.Equal(t, 0.5, settings.Smoothing)

	require.NoError(t, rootCmd.Flags().Set("timesig", "5/4"))
	_, err = loadSettings(rootCmd)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LogFile = filepath.Join(t.TempDir(), "clack.log")

	closeLog, err := setupLogging(settings, true)
	require.NoError(t, err)
	closeLog()

	settings.LogLevel = "loud"
	_, err = setupLogging(settings, false)
	assert.Error(t, err)
}

type listenFunc func(context.Context, *ui.Bindings, func(ui.Action)) error

func withKeyboard(t *testing.T, listen listenFunc) *config.Settings {
	t.Helper()
	prevListen, prevInteractive := listenKeys, isInteractive
	listenKeys = listen
	isInteractive = func() bool { return true }
	t.Cleanup(func() {
		listenKeys, isInteractive = prevListen, prevInteractive
	})

	settings := config.DefaultSettings()
	settings.Muted = true
	settings.LogFile = filepath.Join(t.TempDir(), "clack.log")
	return settings
}

func TestRunFailsWithoutKeyboard(t *testing.T) {
	settings := withKeyboard(t, func(context.Context, *ui.Bindings, func(ui.Action)) error {
		return errors.New("opening keyboard: no tty")
	})

	err := run(context.Background(), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
}

func TestRunQuitKey(t *testing.T) {
	settings := withKeyboard(t, func(ctx context.Context, _ *ui.Bindings, dispatch func(ui.Action)) error {
		dispatch(ui.ActionQuit)
		<-ctx.Done()
		return nil
	})

	assert.NoError(t, run(context.Background(), settings))
}
