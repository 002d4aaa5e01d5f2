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

// Package membership implements the probing and gossip core of a cluster
// membership protocol. Each node runs one membership actor that answers and
// issues liveness probes, relays probes through intermediaries when a direct
// probe is inconclusive, and disseminates membership-table updates to a
// subset of peers via gossip with a fallback to a full-table pull.
package membership

import "fmt"

// A NodeAddress identifies one cluster node. The epoch disambiguates process
// restarts on the same host:port; two addresses with equal host:port but
// different epochs are different nodes.
type NodeAddress struct {
	HostPort string `json:"hostPort"`
	Epoch    int64  `json:"epoch"`
}

// NewNodeAddress returns the address for a node process.
func NewNodeAddress(hostport string, epoch int64) NodeAddress {
	return NodeAddress{HostPort: hostport, Epoch: epoch}
}

func (a NodeAddress) String() string {
	return fmt.Sprintf("%s@%d", a.HostPort, a.Epoch)
}

// NodeStatus is the authoritative liveness classification of one node as
// known to the membership table owner.
type NodeStatus string

const (
	// Joining is a node that announced itself but is not serving yet.
	Joining NodeStatus = "joining"

	// Active is a node in regular operation.
	Active NodeStatus = "active"

	// ShuttingDown is a node draining its work before stopping.
	ShuttingDown NodeStatus = "shutting-down"

	// Stopping is a node past draining, about to terminate.
	Stopping NodeStatus = "stopping"

	// Dead is a node declared failed by the table owner.
	Dead NodeStatus = "dead"
)
