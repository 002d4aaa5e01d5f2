// Copyright (c) 2015 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package logging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-common/bark"
)

// recordingLogger captures the severity of every message it receives.
type recordingLogger struct {
	mu     sync.Mutex
	levels []Level
	fields bark.Fields
}

func (l *recordingLogger) record(level Level) {
	l.mu.Lock()
	l.levels = append(l.levels, level)
	l.mu.Unlock()
}

func (l *recordingLogger) recorded() []Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Level(nil), l.levels...)
}

func (l *recordingLogger) Debug(args ...interface{})                 { l.record(Debug) }
func (l *recordingLogger) Debugf(format string, args ...interface{}) { l.record(Debug) }
func (l *recordingLogger) Info(args ...interface{})                  { l.record(Info) }
func (l *recordingLogger) Infof(format string, args ...interface{})  { l.record(Info) }
func (l *recordingLogger) Warn(args ...interface{})                  { l.record(Warn) }
func (l *recordingLogger) Warnf(format string, args ...interface{})  { l.record(Warn) }
func (l *recordingLogger) Error(args ...interface{})                 { l.record(Error) }
func (l *recordingLogger) Errorf(format string, args ...interface{}) { l.record(Error) }
func (l *recordingLogger) Fatal(args ...interface{})                 { l.record(Fatal) }
func (l *recordingLogger) Fatalf(format string, args ...interface{}) { l.record(Fatal) }
func (l *recordingLogger) Panic(args ...interface{})                 { l.record(Panic) }
func (l *recordingLogger) Panicf(format string, args ...interface{}) { l.record(Panic) }

func (l *recordingLogger) WithField(key string, value interface{}) bark.Logger {
	return l.WithFields(bark.Fields{key: value})
}

func (l *recordingLogger) WithFields(keyValues bark.LogFields) bark.Logger {
	l.mu.Lock()
	l.fields = keyValues.Fields()
	l.mu.Unlock()
	return l
}

func (l *recordingLogger) WithError(err error) bark.Logger {
	return l.WithField("error", err)
}

func (l *recordingLogger) Fields() bark.Fields { return l.fields }

func TestNamedLoggerForwards(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFacility(rec)

	logger := f.Logger("probe")
	logger.Debug("direct probe sent")
	logger.Warn("direct probe failed")

	assert.Equal(t, []Level{Debug, Warn}, rec.recorded(), "expected both messages forwarded")
}

func TestSetLevelSilences(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFacility(rec)
	assert.NoError(t, f.SetLevel("gossip", Warn), "expected level to be accepted")

	logger := f.Logger("gossip")
	logger.Debug("silenced")
	logger.Info("silenced")
	logger.Warn("forwarded")
	logger.Error("forwarded")

	assert.Equal(t, []Level{Warn, Error}, rec.recorded(), "expected info and debug silenced")
}

func TestSetLevelOnlyAffectsName(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFacility(rec)
	assert.NoError(t, f.SetLevel("gossip", Error), "expected level to be accepted")

	f.Logger("probe").Debug("forwarded")

	assert.Equal(t, []Level{Debug}, rec.recorded(), "expected other names unaffected")
}

func TestSetLevelAboveFatalRejected(t *testing.T) {
	f := NewFacility(nil)
	assert.Error(t, f.SetLevel("probe", Panic), "expected level above fatal to be rejected")
	assert.Error(t, f.SetLevels(map[string]Level{"probe": Panic}),
		"expected level above fatal to be rejected")
}

func TestNamedLoggerFields(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFacility(rec)

	f.Logger("probe").WithField("local", "127.0.0.1:3000").Info("hello")

	assert.Equal(t, bark.Fields{"local": "127.0.0.1:3000"}, rec.fields,
		"expected fields to be forwarded")
}

func TestNamedLoggerWithError(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFacility(rec)

	boom := errors.New("peer unreachable")
	f.Logger("probe").WithError(boom).Warn("probe failed")

	assert.Equal(t, []Level{Warn}, rec.recorded(), "expected message forwarded")
	assert.Equal(t, bark.Fields{"error": boom}, rec.fields,
		"expected the error carried as a field")
}

func TestLoggersImplementBark(t *testing.T) {
	var _ bark.Logger = NoLogger
	var _ bark.Logger = NewFacility(nil).Logger("probe")

	assert.Equal(t, NoLogger, NoLogger.WithError(errors.New("dropped")),
		"expected the no-op logger to return itself")
}

func TestParseLevel(t *testing.T) {
	lvl, err := Parse("warn")
	assert.NoError(t, err, "expected parse to succeed")
	assert.Equal(t, Warn, lvl, "expected warn level")

	_, err = Parse("loud")
	assert.Error(t, err, "expected parse to fail")
}
