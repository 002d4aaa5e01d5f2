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

// A pingRequest is the body of the /protocol/ping call.
type pingRequest struct {
	Source      NodeAddress `json:"source"`
	ProbeNumber int64       `json:"probeNumber"`
	App         string      `json:"app"`
}

// A pingResponse acknowledges liveness and reports the responder's own
// health score.
type pingResponse struct {
	Source      NodeAddress `json:"source"`
	ProbeNumber int64       `json:"probeNumber"`
	HealthScore float64     `json:"healthScore"`
}

// sendProbe sends a direct liveness probe to target that times out after
// timeout. The outbound call is tagged as health-check traffic so transport
// instrumentation can tell it apart from application traffic. The elapsed
// duration is returned for both verdicts.
func sendProbe(n *Node, target NodeAddress, timeout time.Duration, probeNumber int64) (*pingResponse, time.Duration, error) {
	logger := logging.Logger("probe").WithField("local", n.address.String())

	hostport, err := n.directory.Resolve(target)
	if err != nil {
		logger.WithFields(log.Fields{
			"remote": target.String(),
			"error":  err,
		}).Debug("probe target not resolvable")
		return nil, 0, err
	}

	req := &pingRequest{
		Source:      n.address,
		ProbeNumber: probeNumber,
		App:         n.app,
	}

	n.emit(ProbeSendEvent{
		Local:       n.address,
		Remote:      target,
		ProbeNumber: probeNumber,
	})

	logger.WithFields(log.Fields{
		"remote":      target.String(),
		"probeNumber": probeNumber,
	}).Debug("probe send")

	ctx, cancel := shared.NewProbeContext(timeout)
	defer cancel()

	peer := n.channel.Peers().GetOrAdd(hostport)
	startTime := n.clock.Now()

	errC := make(chan error, 1)
	res := &pingResponse{}
	go func() {
		errC <- json.CallPeer(ctx, peer, n.service, "/protocol/ping", req, res)
	}()

	select {
	case err = <-errC:
	case <-ctx.Done():
		err = errors.New("probe timed out")
	}

	elapsed := n.clock.Now().Sub(startTime)

	if err != nil {
		n.emit(ProbeSendErrorEvent{
			Local:       n.address,
			Remote:      target,
			ProbeNumber: probeNumber,
		})

		logger.WithFields(log.Fields{
			"remote":      target.String(),
			"probeNumber": probeNumber,
			"error":       err,
		}).Debug("probe failed")

		return nil, elapsed, err
	}

	n.roundTrip.Update(int64(elapsed))

	n.emit(ProbeSendCompleteEvent{
		Local:       n.address,
		Remote:      target,
		ProbeNumber: probeNumber,
		Duration:    elapsed,
	})

	return res, elapsed, nil
}
