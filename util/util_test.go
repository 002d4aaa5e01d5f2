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

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSelectInt(t *testing.T) {
	assert.Equal(t, 7, SelectInt(7, 3), "expected opt to be selected")
	assert.Equal(t, 3, SelectInt(0, 3), "expected def to be selected")
}

func TestSelectDuration(t *testing.T) {
	assert.Equal(t, 7*time.Second, SelectDuration(7*time.Second, 3*time.Second),
		"expected opt to be selected")
	assert.Equal(t, 3*time.Second, SelectDuration(0, 3*time.Second),
		"expected def to be selected")
}

func TestMS(t *testing.T) {
	ts := time.Unix(100, int64(5*time.Millisecond))
	assert.Equal(t, int64(100005), MS(ts), "expected unix milliseconds")
}
