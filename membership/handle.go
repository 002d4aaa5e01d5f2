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

// A ProbeHandle is returned by the non-blocking probe submissions on the
// local call surface. It completes once the probe's outcome is available.
type ProbeHandle struct {
	done    chan struct{}
	outcome *ProbeOutcome
	err     error
}

func newProbeHandle() *ProbeHandle {
	return &ProbeHandle{done: make(chan struct{})}
}

func (h *ProbeHandle) complete(outcome *ProbeOutcome, err error) {
	h.outcome = outcome
	h.err = err
	close(h.done)
}

// Done returns a channel that is closed when the outcome is available.
func (h *ProbeHandle) Done() <-chan struct{} {
	return h.done
}

// Outcome blocks until the probe completes. A non-nil error means no outcome
// was produced at all: the node was not ready, or an indirect probe's
// intermediary broke its bounded-result promise.
func (h *ProbeHandle) Outcome() (*ProbeOutcome, error) {
	<-h.done
	return h.outcome, h.err
}

// A GossipHandle is returned by GossipToPartners. It completes once every
// partner has been attempted exactly once, however many attempts failed.
type GossipHandle struct {
	done      chan struct{}
	attempted int
	failed    int
	err       error
}

func newGossipHandle() *GossipHandle {
	return &GossipHandle{done: make(chan struct{})}
}

func (h *GossipHandle) complete(attempted, failed int, err error) {
	h.attempted = attempted
	h.failed = failed
	h.err = err
	close(h.done)
}

// Done returns a channel that is closed when the fan-out has finished.
func (h *GossipHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the fan-out has finished and reports how many partners
// were attempted and how many of those attempts failed. The error is non-nil
// only when the round never started because the node was not ready.
func (h *GossipHandle) Wait() (attempted, failed int, err error) {
	<-h.done
	return h.attempted, h.failed, h.err
}
