package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/faiface/beep"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dimfu/clacktap/internal/audio"
	"github.com/dimfu/clacktap/internal/clock"
	"github.com/dimfu/clacktap/internal/config"
	"github.com/dimfu/clacktap/internal/metronome"
	"github.com/dimfu/clacktap/internal/ui"
)

// Swapped out in tests.
var (
	listenKeys    = ui.Listen
	isInteractive = func() bool {
		return ui.IsTerminal(os.Stdout) && ui.IsTerminal(os.Stdin)
	}
)

func run(ctx context.Context, settings *config.Settings) error {
	interactive := isInteractive()

	closeLog, err := setupLogging(settings, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	measure, err := settings.Measure()
	if err != nil {
		return err
	}
	bindings, err := ui.NewBindings(settings.Keys)
	if err != nil {
		return err
	}

	synth := audio.NewSynth(func() (audio.Output, error) {
		return audio.NewOutput(settings.Backend, beep.SampleRate(settings.SampleRate))
	})
	defer func() {
		if err := synth.Close(); err != nil {
			log.WithError(err).Warn("closing audio output")
		}
	}()
	if err := loadSamples(synth, settings); err != nil {
		return err
	}

	loop := clock.NewLoop()
	m := metronome.New(loop, synth, metronome.Options{
		Tempo:     settings.Tempo,
		Measure:   measure,
		Muted:     settings.Muted,
		VisualAid: settings.VisualAid,
		Smoothing: settings.Smoothing,
	})
	renderer := ui.NewRenderer(os.Stdout, interactive, bindings.Help())
	m.Subscribe(renderer.Update)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	keyErr := make(chan error, 1)
	if interactive {
		go func() {
			defer cancel()
			keyErr <- listenKeys(ctx, bindings, func(action ui.Action) {
				loop.Post(func() {
					if !ui.Apply(m, action) {
						cancel()
					}
				})
			})
		}()
		loop.Post(func() { renderer.Update(m.State()) })
	} else {
		// without a keyboard there is nothing to wait for, so start right away
		loop.Post(m.Play)
	}

	log.WithFields(log.Fields{
		"tempo":       settings.Tempo,
		"measure":     measure,
		"backend":     settings.Backend,
		"interactive": interactive,
	}).Info("metronome ready")

	err = loop.Run(ctx)
	m.Close()
	renderer.Update(m.State())
	renderer.Flush()

	if interactive {
		if kerr := <-keyErr; kerr != nil {
			log.WithError(kerr).Error("keyboard input stopped")
			return kerr
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadSamples(synth *audio.Synth, settings *config.Settings) error {
	var accent, beat *audio.Sample
	var err error
	if settings.AccentSample != "" {
		if accent, err = audio.LoadSample(settings.AccentSample); err != nil {
			return err
		}
	}
	if settings.BeatSample != "" {
		if beat, err = audio.LoadSample(settings.BeatSample); err != nil {
			return err
		}
	}
	synth.UseSamples(accent, beat)
	return nil
}
