package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var exit = os.Exit

var logger *logrus.Entry

// Entry returns the logger entry or creates one if none is present.
func Entry() *logrus.Entry {
	if logger == nil {
		logger = logrus.WithField("library", "datapub")
	}
	return logger
}

// SetVerbose sets the log level with respect to the verbose flag.
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// SetStepName adds the step name as a field to every subsequent log entry.
func SetStepName(stepName string) {
	logger = Entry().WithField("stepName", stepName)
}

// RegisterHook registers a logrus hook, e.g. for forwarding fatal errors
// to Sentry or for persisting error details in the file system.
func RegisterHook(hook logrus.Hook) {
	logrus.AddHook(hook)
}

// SetFatalExitCode makes a subsequent Fatal log terminate the process with
// the given exit code instead of logrus' fixed code 1. The fatal-level hooks
// still fire before the process ends.
func SetFatalExitCode(code int) {
	logrus.StandardLogger().ExitFunc = func(int) { exit(code) }
}

// Writer returns an io.Writer into which a tool's standard output can be
// redirected in order to forward it to the logging framework.
func Writer() io.Writer {
	return &logrusWriter{logger: Entry()}
}
