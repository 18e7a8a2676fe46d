package log

import "gopkg.in/Sirupsen/logrus.v0"

// Level mirrors logrus levels, from the most to the least severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func (lvl Level) String() string {
	return logrus.Level(lvl).String()
}

func init() {
	// Filtering is done per module, let everything reach logrus.
	logrus.SetLevel(logrus.DebugLevel)
}
