package logging

import (
	"io"

	"github.com/jessiex/kytan/application"
	"github.com/sirupsen/logrus"
)

type LogrusLogger struct {
	log *logrus.Logger
}

func NewLogrusLogger() application.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &LogrusLogger{log: l}
}

// NewLogrusLoggerTo is used by tests to capture output.
func NewLogrusLoggerTo(w io.Writer) application.Logger {
	l := logrus.New()
	l.SetOutput(w)
	return &LogrusLogger{log: l}
}

func (l *LogrusLogger) Printf(format string, v ...any) {
	l.log.Infof(format, v...)
}

func (l *LogrusLogger) Warnf(format string, v ...any) {
	l.log.Warnf(format, v...)
}
