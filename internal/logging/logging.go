// Package logging wires up the package-wide logrus logger from the CLI's
// global --log/--log-format flags and the OCIRUN_LOG_LEVEL environment
// variable, the way the teacher repo's own command wires logrus for every
// subcommand before dispatch.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. path == "" logs to stderr.
// format is "json" or "text" (the default).
func Setup(path, format string) error {
	var out *os.File = os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out = f
	}
	logrus.SetOutput(out)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	if level := os.Getenv("OCIRUN_LOG_LEVEL"); level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	return nil
}
