package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dimfu/clacktap/internal/audio"
	"github.com/dimfu/clacktap/internal/config"
	"github.com/dimfu/clacktap/internal/tempo"
)

var (
	cfgPath string

	flagTempo    int
	flagTimeSig  string
	flagMute     bool
	flagVisual   bool
	flagBackend  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "clacktap",
	Short: "Terminal metronome with tap tempo",
	Long: `clacktap clicks on every beat, accents the first beat of each measure and
can flash it on screen. Tap a key in time to set the tempo.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), settings)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "settings file (.json, .yaml)")

	f := rootCmd.Flags()
	f.IntVar(&flagTempo, "tempo", tempo.DefaultTempo, "beats per minute, clamped to 40-300")
	f.StringVar(&flagTimeSig, "timesig", tempo.DefaultMeasure.String(), "beats in each measure: 2/4, 3/4 or 4/4")
	f.BoolVar(&flagMute, "mute", false, "start muted")
	f.BoolVar(&flagVisual, "visual", false, "flash the first beat of each measure")
	f.StringVar(&flagBackend, "backend", audio.BackendSpeaker, "audio backend: speaker or oto")
	f.StringVar(&flagLogLevel, "log-level", "info", "log level")
}

// loadSettings reads the settings file and applies any flags given on the
// command line on top of it.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("tempo") {
		settings.Tempo = flagTempo
	}
	if flags.Changed("timesig") {
		settings.TimeSig = flagTimeSig
	}
	if flags.Changed("mute") {
		settings.Muted = flagMute
	}
	if flags.Changed("visual") {
		settings.VisualAid = flagVisual
	}
	if flags.Changed("backend") {
		settings.Backend = flagBackend
	}
	if flags.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
