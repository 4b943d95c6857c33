package logger

import (
	"io"
)

// SetupLogger builds the CLI logger from the resolved log settings.
func SetupLogger(logLevel string, logJSON, logSource bool, out io.Writer) Logger {
	level := LogLevel(logLevel)
	switch level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
	default:
		level = InfoLevel
	}
	return NewLogger(&Config{
		Level:      level,
		Output:     out,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
