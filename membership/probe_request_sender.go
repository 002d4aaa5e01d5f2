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
	"errors"
	"time"

	log "github.com/uber-common/bark"
	"github.com/uber/tchannel-go/json"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/shared"
)

// A probeRequest asks an intermediary to probe Target on the sender's behalf
// and to report back within ProbeTimeout.
type probeRequest struct {
	Source       NodeAddress   `json:"source"`
	Target       NodeAddress   `json:"target"`
	ProbeTimeout time.Duration `json:"probeTimeoutNs"`
	ProbeNumber  int64         `json:"probeNumber"`
}

// sendProbeRequest performs the requester side of an indirect probe. The
// serving side promises a bounded, fault-tolerant result; if even that
// promise is broken the fault is returned as an error rather than folded
// into an outcome, so the caller can treat the intermediary itself as
// unreliable.
func sendProbeRequest(n *Node, intermediary, target NodeAddress, probeTimeout time.Duration, probeNumber int64) (*ProbeOutcome, error) {
	logger := logging.Logger("probe").WithField("local", n.address.String())

	hostport, err := n.directory.Resolve(intermediary)
	if err != nil {
		logger.WithFields(log.Fields{
			"intermediary": intermediary.String(),
			"error":        err,
		}).Debug("probe request intermediary not resolvable")
		return nil, err
	}

	req := &probeRequest{
		Source:       n.address,
		Target:       target,
		ProbeTimeout: probeTimeout,
		ProbeNumber:  probeNumber,
	}

	n.emit(ProbeRequestSendEvent{
		Local:        n.address,
		Intermediary: intermediary,
		Target:       target,
		ProbeNumber:  probeNumber,
	})

	logger.WithFields(log.Fields{
		"intermediary": intermediary.String(),
		"target":       target.String(),
		"probeNumber":  probeNumber,
	}).Debug("probe request send")

	ctx, cancel := shared.NewProbeContext(probeTimeout + n.relayOverhead)
	defer cancel()

	peer := n.channel.Peers().GetOrAdd(hostport)
	startTime := n.clock.Now()

	errC := make(chan error, 1)
	res := &ProbeOutcome{}
	go func() {
		errC <- json.CallPeer(ctx, peer, n.service, "/protocol/probe-req", req, res)
	}()

	select {
	case err = <-errC:
	case <-ctx.Done():
		err = errors.New("probe request timed out")
	}

	if err != nil {
		n.emit(ProbeRequestSendErrorEvent{
			Local:        n.address,
			Intermediary: intermediary,
			Target:       target,
			ProbeNumber:  probeNumber,
		})

		logger.WithFields(log.Fields{
			"intermediary": intermediary.String(),
			"target":       target.String(),
			"probeNumber":  probeNumber,
			"error":        err,
		}).Debug("probe request failed")

		return nil, err
	}

	n.emit(ProbeRequestSendCompleteEvent{
		Local:        n.address,
		Intermediary: intermediary,
		Target:       target,
		ProbeNumber:  probeNumber,
		Duration:     n.clock.Now().Sub(startTime),
	})

	return res, nil
}
