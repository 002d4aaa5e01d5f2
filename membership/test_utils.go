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

package membership

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uber/tchannel-go"
)

const testEpoch = int64(1700000000000)

// fakeStore records every table store interaction.
type fakeStore struct {
	mu         sync.Mutex
	refreshes  int
	applied    []TableSnapshot
	refreshErr error
	applyErr   error
}

func (s *fakeStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	return s.refreshErr
}

func (s *fakeStore) ApplySnapshot(ctx context.Context, snapshot TableSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, snapshot)
	return nil
}

func (s *fakeStore) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

func (s *fakeStore) Applied() []TableSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TableSnapshot(nil), s.applied...)
}

// fixedMonitor reports the same score forever.
type fixedMonitor struct {
	score float64
}

func (m fixedMonitor) CurrentScore(now time.Time) float64 {
	return m.score
}

// countingMonitor counts how often it was sampled.
type countingMonitor struct {
	mu      sync.Mutex
	score   float64
	samples int
}

func (m *countingMonitor) CurrentScore(now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples++
	return m.score
}

func (m *countingMonitor) Samples() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples
}

// recordingListener captures emitted events for assertions.
type recordingListener struct {
	mu     sync.Mutex
	events []Event
}

func (l *recordingListener) HandleEvent(event Event) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *recordingListener) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

type testNode struct {
	node    *Node
	channel *tchannel.Channel
	store   *fakeStore
}

func (n *testNode) Destroy() {
	n.node.Destroy()
	n.channel.Close()
}

func newChannelNode(t *testing.T, hostport string, opts *Options) *testNode {
	ch, err := tchannel.NewChannel("test", nil)
	require.NoError(t, err, "channel must create successfully")

	if opts == nil {
		opts = &Options{}
	}
	if opts.Monitor == nil {
		opts.Monitor = fixedMonitor{score: 0.25}
	}

	store := &fakeStore{}
	node := NewNode("test", NewNodeAddress(hostport, testEpoch), ch.GetSubChannel("test"), store, opts)

	require.NoError(t, node.Start(), "node must start")
	require.NoError(t, ch.ListenAndServe(hostport), "channel must listen")

	return &testNode{node: node, channel: ch, store: store}
}

func destroyNodes(tnodes ...*testNode) {
	for _, tnode := range tnodes {
		tnode.Destroy()
	}
}
