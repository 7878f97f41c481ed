package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Verbose controls whether debug messages are being printed.
var Verbose bool

var logger = logrus.New()

var errorOccured = false

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
}

// Setup applies the verbosity flag to the underlying logger. It must be
// called once, after flags have been parsed.
func Setup() {
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// ErrorOccured reports whether any errors have occured.
func ErrorOccured() bool {
	return errorOccured
}

// Log prints a formatted message to stderr.
func Log(format string, a ...interface{}) {
	logger.Infof(format, a...)
}

// Debug prints a formatted debug message to stderr if verbose output is selected.
func Debug(format string, a ...interface{}) {
	logger.Debugf(format, a...)
}

// Success prints a formatted success message to stderr.
func Success(format string, a ...interface{}) {
	logger.Infof(format, a...)
}

// Warning prints a formatted warning to stderr.
func Warning(format string, a ...interface{}) {
	logger.Warnf(format, a...)
}

// Error prints a formatted error message to stderr.
func Error(format string, a ...interface{}) {
	errorOccured = true
	logger.Errorf(format, a...)
}

// Fatal prints a formatted error message to stderr and terminates the program.
func Fatal(format string, a ...interface{}) {
	errorOccured = true
	logger.Fatalf(format, a...)
}
