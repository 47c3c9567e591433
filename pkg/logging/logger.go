package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide diagnostic logger. User-facing output goes to
// stdout through the cmd package; this logger writes to stderr.
var Logger = logrus.New()

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook interface.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook interface.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init configures Logger. An empty level falls back to LOG_LEVEL, then info.
func Init(appName, level string, verbose bool) {
	Logger.SetOutput(os.Stderr)

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	level = strings.ToLower(level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.Warnf("Invalid log level '%s', defaulting to INFO", level)
		lvl = logrus.InfoLevel
	}
	if verbose && lvl < logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}
	Logger.SetLevel(lvl)

	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.ReplaceHooks(make(logrus.LevelHooks))
	Logger.AddHook(&appNameHook{appName})
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
