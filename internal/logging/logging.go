package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the process logger. format is "json" or "text"; unknown levels
// fall back to info.
func New(component, level, format string) *logrus.Entry {
	return NewWithOutput(os.Stdout, component, level, format)
}

func NewWithOutput(out io.Writer, component, level, format string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(out)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log.WithField("component", component)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
