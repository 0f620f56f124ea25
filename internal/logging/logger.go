package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName string
	LogLevel    string
	// Stderr is where logs go when no file is set; os.Stderr when nil
	Stderr io.Writer
}

// Setup builds the application logger. Terminal output stays on stderr so it
// never mixes with command output or the TUI. The returned closer flushes the
// rotated log file, if any.
func Setup(params LoggerSetupParams) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: params.LogFileName == "",
		FullTimestamp:    true,
	})
	log.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		out := params.Stderr
		if out == nil {
			out = os.Stderr
		}
		log.SetOutput(out)
		return log, io.NopCloser(nil)
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  false,
		Compress:   true,
	}
	log.SetOutput(lumberJackLogger)
	return log, lumberJackLogger
}

// GetLevel maps a config level name to a logrus level, defaulting to warn
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.WarnLevel
	}
}
