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

// Package logging provides named loggers on top of a single underlying
// bark.Logger. Each named logger can be silenced individually by setting a
// minimum severity level for its name.
package logging

import (
	"fmt"
	"sync"

	"github.com/uber-common/bark"
)

// Facility is a collection of named loggers sharing one underlying logger.
type Facility struct {
	logger bark.Logger
	levels map[string]Level

	mu sync.RWMutex
}

// NewFacility creates a facility that forwards to the given logger. A nil
// logger silences all output.
func NewFacility(log bark.Logger) *Facility {
	if log == nil {
		log = NoLogger
	}
	return &Facility{
		logger: log,
		levels: make(map[string]Level),
	}
}

// SetLogger replaces the underlying logger messages are forwarded to.
func (f *Facility) SetLogger(log bark.Logger) {
	f.mu.Lock()
	f.logger = log
	f.mu.Unlock()
}

// SetLevel sets the minimum severity for a named logger. Messages from that
// name with a lower severity are silenced. Fatal and Panic terminate the
// process in most logger implementations, so levels above Fatal cannot be
// silenced.
func (f *Facility) SetLevel(name string, level Level) error {
	if level < Fatal {
		return fmt.Errorf("cannot set a level above %s for %s", Fatal, name)
	}
	f.mu.Lock()
	f.levels[name] = level
	f.mu.Unlock()
	return nil
}

// SetLevels is SetLevel for multiple named loggers at once.
func (f *Facility) SetLevels(levels map[string]Level) error {
	for name, level := range levels {
		if level < Fatal {
			return fmt.Errorf("cannot set a level above %s for %s", Fatal, name)
		}
	}
	f.mu.Lock()
	for name, level := range levels {
		f.levels[name] = level
	}
	f.mu.Unlock()
	return nil
}

// Logger returns a named logger bound to this facility.
func (f *Facility) Logger(name string) bark.Logger {
	return &namedLogger{name: name, forwardTo: f}
}

// Log forwards a message to the underlying logger unless the named logger is
// configured with a lower severity threshold.
func (f *Facility) Log(name string, wantLevel Level, fields bark.Fields, msg []interface{}) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if setLevel, ok := f.levels[name]; ok && setLevel < wantLevel {
		return
	}
	logger := f.logger
	if len(fields) > 0 {
		logger = logger.WithFields(fields)
	}
	switch wantLevel {
	case Debug:
		logger.Debug(msg...)
	case Info:
		logger.Info(msg...)
	case Warn:
		logger.Warn(msg...)
	case Error:
		logger.Error(msg...)
	case Fatal:
		logger.Fatal(msg...)
	case Panic:
		logger.Panic(msg...)
	}
}

// Logf is Log with fmt.Printf-style formatting.
func (f *Facility) Logf(name string, wantLevel Level, fields bark.Fields, format string, msg []interface{}) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if setLevel, ok := f.levels[name]; ok && setLevel < wantLevel {
		return
	}
	logger := f.logger
	if len(fields) > 0 {
		logger = logger.WithFields(fields)
	}
	switch wantLevel {
	case Debug:
		logger.Debugf(format, msg...)
	case Info:
		logger.Infof(format, msg...)
	case Warn:
		logger.Warnf(format, msg...)
	case Error:
		logger.Errorf(format, msg...)
	case Fatal:
		logger.Fatalf(format, msg...)
	case Panic:
		logger.Panicf(format, msg...)
	}
}
