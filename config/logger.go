package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: JSON lines on stdout at the configured level.
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.Warnf("Unknown LOG_LEVEL %q, falling back to info", cfg.LogLevel)
	}
	log.SetLevel(level)

	return log
}
