package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dimfu/clacktap/internal/config"
)

// setupLogging points logrus at the configured file. An interactive session
// without a log file discards logs so they do not tear the live display.
func setupLogging(settings *config.Settings, interactive bool) (func(), error) {
	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	switch {
	case settings.LogFile != "":
		f, err := os.OpenFile(settings.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "opening log file")
		}
		log.SetOutput(f)
		return func() { f.Close() }, nil
	case interactive:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return func() {}, nil
}
