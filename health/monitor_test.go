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

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmptyMonitorIsHealthy(t *testing.T) {
	m := NewMonitor()
	assert.Zero(t, m.CurrentScore(time.Now()))
}

func TestScoreIsFiringFraction(t *testing.T) {
	m := NewMonitor()
	m.AddCheck("cpu", Fixed(true))
	m.AddCheck("queue", Fixed(false))
	m.AddCheck("disk", Fixed(false))
	m.AddCheck("gc", Fixed(true))

	assert.InDelta(t, 0.5, m.CurrentScore(time.Now()), 1e-9)
}

func TestScoreBounds(t *testing.T) {
	now := time.Now()

	all := NewMonitor()
	all.AddCheck("a", Fixed(true))
	all.AddCheck("b", Fixed(true))
	assert.Equal(t, 1.0, all.CurrentScore(now))

	none := NewMonitor()
	none.AddCheck("a", Fixed(false))
	assert.Equal(t, 0.0, none.CurrentScore(now))
}

func TestFiringNames(t *testing.T) {
	m := NewMonitor()
	m.AddCheck("cpu", Fixed(true))
	m.AddCheck("queue", Fixed(false))
	m.AddCheck("disk", Fixed(true))

	assert.Equal(t, []string{"cpu", "disk"}, m.Firing(time.Now()))
}

func TestNilCheckIgnored(t *testing.T) {
	m := NewMonitor()
	m.AddCheck("broken", nil)
	assert.Zero(t, m.CurrentScore(time.Now()))
}

func TestFlag(t *testing.T) {
	m := NewMonitor()
	var overloaded Flag
	m.AddCheck("overloaded", overloaded.Check)

	assert.Equal(t, 0.0, m.CurrentScore(time.Now()))

	overloaded.Set(true)
	assert.Equal(t, 1.0, m.CurrentScore(time.Now()))

	overloaded.Set(false)
	assert.Equal(t, 0.0, m.CurrentScore(time.Now()))
}

func TestChecksReceiveSampleTime(t *testing.T) {
	m := NewMonitor()
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m.AddCheck("stale", func(now time.Time) bool {
		return now.After(cutoff)
	})

	assert.Equal(t, 0.0, m.CurrentScore(cutoff.Add(-time.Hour)))
	assert.Equal(t, 1.0, m.CurrentScore(cutoff.Add(time.Hour)))
}
