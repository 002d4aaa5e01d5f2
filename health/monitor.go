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

// Package health scores the local node's own degradation so probes can carry
// it to the requester. A score of 0 is a fully healthy node, 1 a fully
// degraded one; the scale in between is the fraction of registered checks
// currently firing.
package health

import (
	"sync"
	"time"
)

// A Check reports whether one degradation signal is currently firing. Checks
// run on every score sample and must be cheap and safe for concurrent use.
type Check func(now time.Time) bool

// Monitor aggregates named degradation checks into a single score. It
// implements membership.HealthMonitor. The zero value is usable and reports a
// healthy node.
type Monitor struct {
	mutex  sync.RWMutex
	names  []string
	checks []Check
}

// NewMonitor returns a monitor with no checks registered.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// AddCheck registers check under name. Names are diagnostic only; registering
// the same name twice registers two checks.
func (m *Monitor) AddCheck(name string, check Check) {
	if check == nil {
		return
	}
	m.mutex.Lock()
	m.names = append(m.names, name)
	m.checks = append(m.checks, check)
	m.mutex.Unlock()
}

// CurrentScore returns the fraction of registered checks firing at now. With
// no checks registered the node scores fully healthy.
func (m *Monitor) CurrentScore(now time.Time) float64 {
	m.mutex.RLock()
	checks := m.checks
	m.mutex.RUnlock()

	if len(checks) == 0 {
		return 0
	}

	firing := 0
	for _, check := range checks {
		if check(now) {
			firing++
		}
	}
	return float64(firing) / float64(len(checks))
}

// Firing returns the names of the checks firing at now.
func (m *Monitor) Firing(now time.Time) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var firing []string
	for i, check := range m.checks {
		if check(now) {
			firing = append(firing, m.names[i])
		}
	}
	return firing
}

// Fixed returns a monitor-compatible check that always reports the given
// state. Useful in tests and for wiring externally computed signals.
func Fixed(firing bool) Check {
	return func(time.Time) bool { return firing }
}

// Flag adapts an externally toggled flag into a check.
type Flag struct {
	mutex  sync.RWMutex
	firing bool
}

// Set updates the flag's state.
func (f *Flag) Set(firing bool) {
	f.mutex.Lock()
	f.firing = firing
	f.mutex.Unlock()
}

// Check reports the flag's state; register it with Monitor.AddCheck.
func (f *Flag) Check(time.Time) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.firing
}
