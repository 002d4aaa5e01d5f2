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

// Timing describes the distribution of direct-probe round trips, in
// nanoseconds.
type Timing struct {
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Count  int64   `json:"count"`
}

// ProtocolStats is a point-in-time view of the node's protocol activity.
type ProtocolStats struct {
	RoundTrip  Timing        `json:"roundTrip"`
	ClientRate float64       `json:"clientRate"`
	ServerRate float64       `json:"serverRate"`
	TotalRate  float64       `json:"totalRate"`
	Uptime     time.Duration `json:"uptimeNs"`
}

// ProtocolStats returns stats about the node's probe traffic.
func (n *Node) ProtocolStats() ProtocolStats {
	timing := n.roundTrip.Snapshot()
	percentiles := timing.Percentiles([]float64{0.5, 0.95, 0.99})

	return ProtocolStats{
		RoundTrip: Timing{
			Min:    timing.Min(),
			Max:    timing.Max(),
			Mean:   timing.Mean(),
			Median: percentiles[0],
			P95:    percentiles[1],
			P99:    percentiles[2],
			Count:  timing.Count(),
		},
		ClientRate: n.clientRate.Rate1(),
		ServerRate: n.serverRate.Rate1(),
		TotalRate:  n.totalRate.Rate1(),
		Uptime:     n.clock.Now().Sub(n.startTime),
	}
}
