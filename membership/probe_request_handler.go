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
	"fmt"

	log "github.com/uber-common/bark"

	"github.com/quorumlabs/siloswim/logging"
)

// serveProbeRequest relays a probe for a requester: it probes req.Target,
// bounded by the requester-supplied timeout, and always produces an outcome.
// A timeout waiting for the target is the same failure as any other; the
// difference survives only in FailureDetail. The intermediary's health score
// is sampled once at the start and not re-sampled.
//
// No fault may cross this boundary as an error: a crashed relay handler
// would itself look like node failure and corrupt the requester's signal.
func serveProbeRequest(n *Node, req *probeRequest) (outcome *ProbeOutcome) {
	logger := logging.Logger("probe").WithField("local", n.address.String())

	var score float64
	if err := n.invoke(func() {
		n.serverRate.Mark(1)
		n.totalRate.Mark(1)

		score = n.monitor.CurrentScore(n.clock.Now())

		n.emit(ProbeRequestReceiveEvent{
			Local:       n.address,
			Source:      req.Source,
			Target:      req.Target,
			ProbeNumber: req.ProbeNumber,
		})
	}); err != nil {
		return &ProbeOutcome{
			Succeeded:     false,
			FailureDetail: err.Error(),
		}
	}

	logger.WithFields(log.Fields{
		"source":      req.Source.String(),
		"target":      req.Target.String(),
		"probeNumber": req.ProbeNumber,
	}).Debug("probe request receive")

	startTime := n.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome = &ProbeOutcome{
				Succeeded:            false,
				ResponderHealthScore: score,
				RoundTrip:            n.clock.Now().Sub(startTime),
				FailureDetail:        fmt.Sprintf("relay panicked: %v", r),
			}
		}
	}()

	// The intake queue is released here; the wire wait below suspends only
	// this operation.
	_, _, err := sendProbe(n, req.Target, req.ProbeTimeout, req.ProbeNumber)
	elapsed := n.clock.Now().Sub(startTime)

	outcome = &ProbeOutcome{
		Succeeded:            err == nil,
		ResponderHealthScore: score,
		RoundTrip:            elapsed,
	}
	if err != nil {
		outcome.FailureDetail = err.Error()
	}

	n.emit(ProbeRequestCompleteEvent{
		Local:       n.address,
		Source:      req.Source,
		Target:      req.Target,
		ProbeNumber: req.ProbeNumber,
		Succeeded:   outcome.Succeeded,
		Duration:    elapsed,
	})

	logger.WithFields(log.Fields{
		"source":      req.Source.String(),
		"target":      req.Target.String(),
		"probeNumber": req.ProbeNumber,
		"isOK":        outcome.Succeeded,
	}).Debug("probe request complete")

	return outcome
}
