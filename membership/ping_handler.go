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

// handlePing acknowledges a direct probe. It succeeds as soon as the node is
// alive and scheduled; the probe number is echoed for correlation, never
// interpreted.
func handlePing(n *Node, req *pingRequest) (*pingResponse, error) {
	var score float64

	err := n.invoke(func() {
		n.serverRate.Mark(1)
		n.totalRate.Mark(1)

		score = n.monitor.CurrentScore(n.clock.Now())

		n.emit(ProbeReceiveEvent{
			Local:       n.address,
			Source:      req.Source,
			ProbeNumber: req.ProbeNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	return &pingResponse{
		Source:      n.address,
		ProbeNumber: req.ProbeNumber,
		HealthScore: score,
	}, nil
}
