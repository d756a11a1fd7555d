package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is usable before InitLogger runs; tests rely on that.
var Log = logrus.New()

// LoggerOptions controls InitLogger. Empty fields fall back to defaults.
type LoggerOptions struct {
	Level string
	Mode  string // gin mode, "release" switches to JSON output
	File  string
}

// InitLogger initializes the structured logger
func InitLogger(opts LoggerOptions) {
	Log = logrus.New()
	Log.SetLevel(parseLevel(opts.Level))

	// JSON for production, Text for development
	if opts.Mode == "release" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			PrettyPrint:     false,
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		logFile := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,   // MB
			MaxBackups: 5,    // Keep 5 old log files
			MaxAge:     30,   // Days
			Compress:   true, // Compress old logs
		}
		out = io.MultiWriter(os.Stdout, logFile)
	}
	Log.SetOutput(out)

	Log.WithField("level", Log.GetLevel().String()).Debug("Logger initialized")
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// LogInfo logs with structured fields
func LogInfo(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Info(message)
}

func LogError(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Error(message)
}

func LogWarn(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Warn(message)
}

func LogDebug(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Debug(message)
}
