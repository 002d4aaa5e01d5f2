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
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/uber-common/bark"
	"github.com/uber/tchannel-go/json"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/shared"
)

// A changeNotification is the body of the /protocol/membership-change call.
// A snapshot at the minimum sentinel version means "something changed, pull
// the full table"; any other version is a full snapshot push.
type changeNotification struct {
	Source        NodeAddress   `json:"source"`
	Round         string        `json:"round"`
	Snapshot      TableSnapshot `json:"snapshot"`
	UpdatedNode   NodeAddress   `json:"updatedNode"`
	UpdatedStatus NodeStatus    `json:"updatedStatus"`
}

// emptyBody is a blank argument for calls that carry no payload in one
// direction.
type emptyBody struct{}

// GossipToPartners submits a best-effort fan-out of one membership update.
// Every partner is attempted exactly once; a failure to reach one partner
// never affects delivery to the others. The handle completes once all
// attempts have finished, however many failed: gossip relies on future
// rounds for eventual delivery, not on this call's reliability.
func (n *Node) GossipToPartners(partners []NodeAddress, snapshot TableSnapshot, updatedNode NodeAddress, updatedStatus NodeStatus) *GossipHandle {
	handle := newGossipHandle()

	err := n.submit(func() {
		round := uuid.NewString()

		note := &changeNotification{
			Source:        n.address,
			Round:         round,
			Snapshot:      snapshot,
			UpdatedNode:   updatedNode,
			UpdatedStatus: updatedStatus,
		}

		logging.Logger("gossip").WithFields(log.Fields{
			"local":    n.address.String(),
			"round":    round,
			"partners": len(partners),
			"version":  snapshot.Version,
			"node":     updatedNode.String(),
			"status":   updatedStatus,
		}).Debug("gossip fan-out start")

		startTime := n.clock.Now()

		// Sends run off the intake queue; a hanging partner extends only
		// this round's completion, bounded by the gossip send timeout.
		var wg sync.WaitGroup
		var failed int64
		for _, partner := range partners {
			wg.Add(1)
			go func(partner NodeAddress) {
				defer wg.Done()
				if err := sendChangeNotification(n, partner, note); err != nil {
					atomic.AddInt64(&failed, 1)
				}
			}(partner)
		}

		go func() {
			wg.Wait()
			elapsed := n.clock.Now().Sub(startTime)
			failures := int(atomic.LoadInt64(&failed))

			n.emit(GossipCompleteEvent{
				Round:     round,
				Local:     n.address,
				Attempted: len(partners),
				Failed:    failures,
				Duration:  elapsed,
			})

			handle.complete(len(partners), failures, nil)
		}()
	})
	if err != nil {
		handle.complete(0, 0, err)
	}

	return handle
}

// sendChangeNotification delivers one notification to one partner. Failures
// are logged and counted by the caller, never retried here.
func sendChangeNotification(n *Node, partner NodeAddress, note *changeNotification) error {
	logger := logging.Logger("gossip").WithField("local", n.address.String())

	n.emit(GossipSendEvent{
		Round:   note.Round,
		Local:   n.address,
		Partner: partner,
		Version: note.Snapshot.Version,
	})

	hostport, err := n.directory.Resolve(partner)
	if err == nil {
		ctx, cancel := shared.NewGossipContext(n.gossipTimeout)
		defer cancel()

		peer := n.channel.Peers().GetOrAdd(hostport)
		res := &emptyBody{}
		err = json.CallPeer(ctx, peer, n.service, "/protocol/membership-change", note, res)
	}

	if err != nil {
		n.emit(GossipSendErrorEvent{
			Round:   note.Round,
			Local:   n.address,
			Partner: partner,
		})

		logger.WithFields(log.Fields{
			"round":   note.Round,
			"partner": partner.String(),
			"error":   err,
		}).Warn("gossip send failed")

		return err
	}

	return nil
}
