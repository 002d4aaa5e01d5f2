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

	"github.com/stretchr/testify/suite"
)

type ProbeRequestTestSuite struct {
	suite.Suite
	tnode, trelay, tpeer *testNode
	node, relay, peer    *Node
	relayMonitor         *countingMonitor
}

func (s *ProbeRequestTestSuite) SetupTest() {
	s.relayMonitor = &countingMonitor{score: 0.75}

	s.tnode = newChannelNode(s.T(), "127.0.0.1:3201", nil)
	s.node = s.tnode.node
	s.trelay = newChannelNode(s.T(), "127.0.0.1:3202", &Options{
		Monitor: s.relayMonitor,
	})
	s.relay = s.trelay.node
	s.tpeer = newChannelNode(s.T(), "127.0.0.1:3203", nil)
	s.peer = s.tpeer.node
}

func (s *ProbeRequestTestSuite) TearDownTest() {
	destroyNodes(s.tnode, s.trelay, s.tpeer)
}

func (s *ProbeRequestTestSuite) TestProbeIndirectly() {
	handle := s.node.ProbeIndirectly(s.relay.Address(), s.peer.Address(), time.Second, 7)

	outcome, err := handle.Outcome()
	s.NoError(err, "expected the relay to report back")
	s.Require().NotNil(outcome, "expected an outcome")
	s.True(outcome.Succeeded, "expected the relayed probe to succeed")
	s.Equal(0.75, outcome.ResponderHealthScore, "expected the relay's own score")
	s.True(outcome.RoundTrip > 0, "expected a measured duration")
}

func (s *ProbeRequestTestSuite) TestProbeIndirectlyTargetUnreachable() {
	target := NewNodeAddress("127.0.0.1:3209", testEpoch)

	start := time.Now()
	handle := s.node.ProbeIndirectly(s.relay.Address(), target, 100*time.Millisecond, 8)
	outcome, err := handle.Outcome()
	elapsed := time.Since(start)

	s.NoError(err, "a failed target is an outcome, not a relay fault")
	s.Require().NotNil(outcome, "expected an outcome")
	s.False(outcome.Succeeded, "expected the relayed probe to fail")
	s.NotEmpty(outcome.FailureDetail, "expected the failure to be described")
	s.Equal(0.75, outcome.ResponderHealthScore,
		"expected the relay's score even on failure")
	s.True(elapsed < time.Second, "expected completion near the probe timeout")
}

func (s *ProbeRequestTestSuite) TestProbeIndirectlySlowTarget() {
	// Stall the target's intake queue: it keeps the connection open but
	// cannot answer pings until released, forcing the relay to wait out the
	// forwarded timeout.
	release := make(chan struct{})
	running := make(chan struct{})
	s.Require().NoError(s.peer.submit(func() {
		close(running)
		<-release
	}))
	<-running
	defer close(release)

	timeout := 150 * time.Millisecond
	start := time.Now()
	handle := s.node.ProbeIndirectly(s.relay.Address(), s.peer.Address(), timeout, 12)
	outcome, err := handle.Outcome()
	elapsed := time.Since(start)

	s.NoError(err, "a late target is an outcome, not a relay fault")
	s.Require().NotNil(outcome, "expected an outcome")
	s.False(outcome.Succeeded, "expected the relayed probe to time out")
	s.Contains(outcome.FailureDetail, "time", "expected a timeout failure detail")
	s.True(outcome.RoundTrip >= 100*time.Millisecond,
		"expected the relay to wait out the forwarded timeout")
	s.True(elapsed < time.Second, "expected completion near the probe timeout")
	s.Equal(0.75, outcome.ResponderHealthScore,
		"expected the relay's score even on timeout")
}

func (s *ProbeRequestTestSuite) TestProbeIndirectlyIntermediaryUnreachable() {
	intermediary := NewNodeAddress("127.0.0.1:3208", testEpoch)

	handle := s.node.ProbeIndirectly(intermediary, s.peer.Address(), 100*time.Millisecond, 9)
	outcome, err := handle.Outcome()

	s.Error(err, "an unreachable intermediary is the caller's problem")
	s.Nil(outcome, "expected no outcome when the relay promise was broken")
}

func (s *ProbeRequestTestSuite) TestHealthScoreSampledOncePerRequest() {
	target := NewNodeAddress("127.0.0.1:3209", testEpoch)

	_, err := s.node.ProbeIndirectly(s.relay.Address(), target, 100*time.Millisecond, 10).Outcome()
	s.NoError(err, "expected the relay to report back")

	s.Equal(1, s.relayMonitor.Samples(),
		"expected the relay to sample its monitor exactly once")
}

func (s *ProbeRequestTestSuite) TestProbeIndirectlyNotReady() {
	s.tnode.Destroy()

	outcome, err := s.node.ProbeIndirectly(s.relay.Address(), s.peer.Address(), time.Second, 11).Outcome()
	s.Equal(ErrNodeNotReady, err, "expected submission to be rejected")
	s.Nil(outcome, "expected no outcome")
}

func TestProbeRequestTestSuite(t *testing.T) {
	suite.Run(t, new(ProbeRequestTestSuite))
}
