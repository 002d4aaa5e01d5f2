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
	"github.com/uber/tchannel-go/json"
	"golang.org/x/net/context"
)

func (n *Node) registerHandlers() error {
	handlers := map[string]interface{}{
		"/protocol/ping":              n.pingHandler,
		"/protocol/probe-req":         n.probeRequestHandler,
		"/protocol/membership-change": n.membershipChangeHandler,
	}

	return json.Register(n.channel, handlers, func(ctx context.Context, err error) {
		n.logger.WithField("error", err).Info("error occurred")
	})
}

func (n *Node) pingHandler(ctx json.Context, req *pingRequest) (*pingResponse, error) {
	return handlePing(n, req)
}

// probeRequestHandler never returns an error; relay faults are folded into
// the outcome so they cannot be mistaken for intermediary failure.
func (n *Node) probeRequestHandler(ctx json.Context, req *probeRequest) (*ProbeOutcome, error) {
	return serveProbeRequest(n, req), nil
}

func (n *Node) membershipChangeHandler(ctx json.Context, req *changeNotification) (*emptyBody, error) {
	if err := handleChangeNotification(ctx, n, req); err != nil {
		return nil, err
	}
	return &emptyBody{}, nil
}
