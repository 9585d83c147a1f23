package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
// Production uses JSON output, everything else a human-readable text format.
func Setup(level, environment string) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(environment, "production") {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
		log.Warnf("invalid LOG_LEVEL %q, falling back to info", level)
	}
	log.SetLevel(lvl)
}
