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

package shared

import (
	"time"

	"github.com/uber/tchannel-go"

	"golang.org/x/net/context"
)

// TrafficHeader is the application header attached to every outbound
// health-check call. Transport instrumentation reads it to separate probe
// traffic from application traffic.
const TrafficHeader = "ss-traffic"

// TrafficProbe is the TrafficHeader value for liveness-probe calls.
const TrafficProbe = "membership-probe"

// TrafficGossip is the TrafficHeader value for gossip notifications.
const TrafficGossip = "membership-gossip"

var retryOptions = &tchannel.RetryOptions{
	RetryOn: tchannel.RetryNever,
}

// protocolContextBuilder starts a context for a protocol call. Protocol
// calls are never retried; the failure detector interprets failures itself.
func protocolContextBuilder(timeout time.Duration) *tchannel.ContextBuilder {
	return tchannel.NewContextBuilder(timeout).
		DisableTracing().
		SetRetryOptions(retryOptions)
}

// NewProbeContext returns a context for one probe call, tagged as
// health-check traffic.
func NewProbeContext(timeout time.Duration) (tchannel.ContextWithHeaders, context.CancelFunc) {
	return protocolContextBuilder(timeout).
		AddHeader(TrafficHeader, TrafficProbe).
		Build()
}

// NewGossipContext returns a context for one gossip notification send,
// tagged as gossip traffic.
func NewGossipContext(timeout time.Duration) (tchannel.ContextWithHeaders, context.CancelFunc) {
	return protocolContextBuilder(timeout).
		AddHeader(TrafficHeader, TrafficGossip).
		Build()
}
