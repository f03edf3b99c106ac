package main

import "github.com/sirupsen/logrus"

func logrusDebugLevel() logrus.Level { return logrus.DebugLevel }

// logrusLogger adapts logrus to the programmer.Logger interface.
type logrusLogger struct {
	l *logrus.Logger
}

func (a *logrusLogger) Debug(msg string, kv ...interface{}) { a.l.WithFields(fields(kv)).Debug(msg) }
func (a *logrusLogger) Info(msg string, kv ...interface{})  { a.l.WithFields(fields(kv)).Info(msg) }
func (a *logrusLogger) Error(msg string, kv ...interface{}) { a.l.WithFields(fields(kv)).Error(msg) }

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}

// logIndicators stands in for the device's activity LEDs.
type logIndicators struct {
	l *logrus.Logger
}

func (i *logIndicators) SetRead(on bool)  { i.l.WithField("on", on).Debug("read indicator") }
func (i *logIndicators) SetWrite(on bool) { i.l.WithField("on", on).Debug("write indicator") }
