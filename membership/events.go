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

import "time"

// Event is an empty interface that is type switched when handled.
type Event interface{}

// An EventListener handles events emitted by a membership node. HandleEvent
// must be safe for concurrent use.
type EventListener interface {
	HandleEvent(event Event)
}

// A ProbeSendEvent is emitted when a direct probe is sent.
type ProbeSendEvent struct {
	Local       NodeAddress `json:"local"`
	Remote      NodeAddress `json:"remote"`
	ProbeNumber int64       `json:"probeNumber"`
}

// A ProbeSendCompleteEvent is emitted when a direct probe was answered.
type ProbeSendCompleteEvent struct {
	Local       NodeAddress   `json:"local"`
	Remote      NodeAddress   `json:"remote"`
	ProbeNumber int64         `json:"probeNumber"`
	Duration    time.Duration `json:"duration"`
}

// A ProbeSendErrorEvent is emitted when a direct probe failed or timed out.
type ProbeSendErrorEvent struct {
	Local       NodeAddress `json:"local"`
	Remote      NodeAddress `json:"remote"`
	ProbeNumber int64       `json:"probeNumber"`
}

// A ProbeReceiveEvent is emitted when a direct probe is answered locally.
type ProbeReceiveEvent struct {
	Local       NodeAddress `json:"local"`
	Source      NodeAddress `json:"source"`
	ProbeNumber int64       `json:"probeNumber"`
}

// A ProbeRequestSendEvent is emitted when this node asks an intermediary to
// probe a target on its behalf.
type ProbeRequestSendEvent struct {
	Local        NodeAddress `json:"local"`
	Intermediary NodeAddress `json:"intermediary"`
	Target       NodeAddress `json:"target"`
	ProbeNumber  int64       `json:"probeNumber"`
}

// A ProbeRequestSendCompleteEvent is emitted when the intermediary reported
// back, whatever its verdict about the target was.
type ProbeRequestSendCompleteEvent struct {
	Local        NodeAddress   `json:"local"`
	Intermediary NodeAddress   `json:"intermediary"`
	Target       NodeAddress   `json:"target"`
	ProbeNumber  int64         `json:"probeNumber"`
	Duration     time.Duration `json:"duration"`
}

// A ProbeRequestSendErrorEvent is emitted when the intermediary itself could
// not be reached or broke its bounded-result promise.
type ProbeRequestSendErrorEvent struct {
	Local        NodeAddress `json:"local"`
	Intermediary NodeAddress `json:"intermediary"`
	Target       NodeAddress `json:"target"`
	ProbeNumber  int64       `json:"probeNumber"`
}

// A ProbeRequestReceiveEvent is emitted when this node starts serving an
// indirect probe for a requester.
type ProbeRequestReceiveEvent struct {
	Local       NodeAddress `json:"local"`
	Source      NodeAddress `json:"source"`
	Target      NodeAddress `json:"target"`
	ProbeNumber int64       `json:"probeNumber"`
}

// A ProbeRequestCompleteEvent is emitted when a served indirect probe
// produced its outcome.
type ProbeRequestCompleteEvent struct {
	Local       NodeAddress   `json:"local"`
	Source      NodeAddress   `json:"source"`
	Target      NodeAddress   `json:"target"`
	ProbeNumber int64         `json:"probeNumber"`
	Succeeded   bool          `json:"succeeded"`
	Duration    time.Duration `json:"duration"`
}

// A GossipSendEvent is emitted once per partner per gossip round.
type GossipSendEvent struct {
	Round   string            `json:"round"`
	Local   NodeAddress       `json:"local"`
	Partner NodeAddress       `json:"partner"`
	Version MembershipVersion `json:"version"`
}

// A GossipSendErrorEvent is emitted when one partner could not be notified.
// The round continues for the remaining partners.
type GossipSendErrorEvent struct {
	Round   string      `json:"round"`
	Local   NodeAddress `json:"local"`
	Partner NodeAddress `json:"partner"`
}

// A GossipCompleteEvent is emitted when every partner of a round has been
// attempted exactly once.
type GossipCompleteEvent struct {
	Round     string        `json:"round"`
	Local     NodeAddress   `json:"local"`
	Attempted int           `json:"attempted"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// A NotificationReceiveEvent is emitted for every inbound gossip
// notification before it is routed.
type NotificationReceiveEvent struct {
	Local   NodeAddress       `json:"local"`
	Source  NodeAddress       `json:"source"`
	Version MembershipVersion `json:"version"`
}

// A RefreshTriggeredEvent is emitted when a notification carried no usable
// snapshot and a full table pull was started instead.
type RefreshTriggeredEvent struct {
	Local  NodeAddress `json:"local"`
	Source NodeAddress `json:"source"`
}

// A TableRefreshErrorEvent is emitted when a triggered full table pull
// failed. The failure is terminal for that notification only.
type TableRefreshErrorEvent struct {
	Local NodeAddress `json:"local"`
}

// A SnapshotAppliedEvent is emitted when an attached snapshot was handed to
// the table store.
type SnapshotAppliedEvent struct {
	Local    NodeAddress       `json:"local"`
	Source   NodeAddress       `json:"source"`
	Version  MembershipVersion `json:"version"`
	Checksum uint32            `json:"checksum"`
}

// A SnapshotApplyErrorEvent is emitted when the table store rejected an
// attached snapshot with an error.
type SnapshotApplyErrorEvent struct {
	Local   NodeAddress       `json:"local"`
	Version MembershipVersion `json:"version"`
}
