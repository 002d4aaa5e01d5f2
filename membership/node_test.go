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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := mergeDefaultOptions(nil)

	assert.Equal(t, 1500*time.Millisecond, opts.ProbeTimeout)
	assert.Equal(t, 1000*time.Millisecond, opts.RelayOverhead)
	assert.Equal(t, 3000*time.Millisecond, opts.GossipTimeout)
	assert.Equal(t, 128, opts.TaskQueueSize)
	assert.NotNil(t, opts.Clock)
}

func TestMergeDefaultOptionsKeepsOverrides(t *testing.T) {
	opts := mergeDefaultOptions(&Options{
		ProbeTimeout:  200 * time.Millisecond,
		TaskQueueSize: 4,
	})

	assert.Equal(t, 200*time.Millisecond, opts.ProbeTimeout, "overrides survive the merge")
	assert.Equal(t, 4, opts.TaskQueueSize, "overrides survive the merge")
	assert.Equal(t, 1000*time.Millisecond, opts.RelayOverhead, "unset fields pick up defaults")
	assert.Equal(t, 3000*time.Millisecond, opts.GossipTimeout, "unset fields pick up defaults")
}

func TestNodeLifecycle(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)

	assert.False(t, node.Ready(), "a node is not ready before Start")
	require.NoError(t, node.Start())
	assert.True(t, node.Ready(), "a started node is ready")
	require.NoError(t, node.Start(), "Start is idempotent")

	node.Destroy()
	assert.False(t, node.Ready(), "a destroyed node is not ready")
	node.Destroy() // no-op

	assert.Error(t, node.Start(), "a destroyed node cannot be restarted")
}

func TestNodeAccessors(t *testing.T) {
	addr := NewNodeAddress("127.0.0.1:3001", testEpoch)
	node := NewNode("test", addr, nil, &fakeStore{}, nil)

	assert.Equal(t, addr, node.Address())
	assert.Equal(t, "test", node.App())
}

func TestNilListenerIgnored(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)
	node.RegisterListener(nil)
	node.emit(ProbeSendEvent{}) // must not panic
}

func TestInvokeSerializes(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)
	require.NoError(t, node.Start())
	defer node.Destroy()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, node.invoke(func() {
			order = append(order, i)
		}))
	}

	require.Len(t, order, 10)
	for i, got := range order {
		assert.Equal(t, i, got, "queued sections run in submission order")
	}
}

func TestInvokeAfterDestroy(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)
	require.NoError(t, node.Start())
	node.Destroy()

	err := node.invoke(func() {
		t.Fatal("operation must not run after Destroy")
	})
	assert.Equal(t, ErrNodeNotReady, err)
}

func TestDestroyRunsAcceptedWork(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)
	require.NoError(t, node.Start())

	// Hold the intake queue busy so the next submission stays queued when
	// Destroy closes the node.
	release := make(chan struct{})
	running := make(chan struct{})
	require.NoError(t, node.submit(func() {
		close(running)
		<-release
	}))
	<-running

	handle := node.GossipToPartners(nil, TableSnapshot{Version: 1},
		NewNodeAddress("10.0.0.9:3000", testEpoch), Dead)

	node.Destroy()
	close(release)

	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("gossip round accepted before Destroy never completed its handle")
	}

	attempted, failed, err := handle.Wait()
	assert.NoError(t, err)
	assert.Zero(t, attempted)
	assert.Zero(t, failed)
}

func TestProtocolStats(t *testing.T) {
	node := NewNode("test", NewNodeAddress("127.0.0.1:3001", testEpoch), nil, &fakeStore{}, nil)
	require.NoError(t, node.Start())
	defer node.Destroy()

	node.roundTrip.Update(int64(5 * time.Millisecond))
	node.roundTrip.Update(int64(15 * time.Millisecond))
	node.clientRate.Mark(2)
	node.totalRate.Mark(2)

	stats := node.ProtocolStats()
	assert.EqualValues(t, 2, stats.RoundTrip.Count)
	assert.EqualValues(t, 5*time.Millisecond, stats.RoundTrip.Min)
	assert.EqualValues(t, 15*time.Millisecond, stats.RoundTrip.Max)
	assert.True(t, stats.Uptime >= 0)
}
