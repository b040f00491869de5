package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide logger. It is usable before Init with
// logrus defaults so packages can log from tests without setup.
var Log = logrus.New()

func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
