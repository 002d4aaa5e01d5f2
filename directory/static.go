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

// Package directory maps node identities to transport addresses. A node
// identity includes its start epoch, so a directory entry for an earlier
// incarnation of the same host:port does not satisfy a lookup for the
// current one.
package directory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quorumlabs/siloswim/membership"
)

// Static is a peer directory fed explicitly, by configuration or by a
// discovery provider. It implements membership.PeerDirectory and is safe for
// concurrent use.
type Static struct {
	mutex sync.RWMutex
	peers map[string]membership.NodeAddress // keyed by host:port
}

// NewStatic returns a directory seeded with the given peers.
func NewStatic(peers ...membership.NodeAddress) *Static {
	d := &Static{peers: make(map[string]membership.NodeAddress)}
	for _, peer := range peers {
		d.Add(peer)
	}
	return d
}

// Add records peer, replacing any earlier incarnation of the same host:port.
func (d *Static) Add(peer membership.NodeAddress) {
	d.mutex.Lock()
	current, ok := d.peers[peer.HostPort]
	if !ok || peer.Epoch >= current.Epoch {
		d.peers[peer.HostPort] = peer
	}
	d.mutex.Unlock()
}

// Remove forgets the peer at hostport.
func (d *Static) Remove(hostport string) {
	d.mutex.Lock()
	delete(d.peers, hostport)
	d.mutex.Unlock()
}

// Resolve returns the transport address for addr. A known host:port with a
// different epoch is a different node and does not resolve.
func (d *Static) Resolve(addr membership.NodeAddress) (string, error) {
	d.mutex.RLock()
	peer, ok := d.peers[addr.HostPort]
	d.mutex.RUnlock()

	if !ok || peer.Epoch != addr.Epoch {
		return "", fmt.Errorf("%w: %s", membership.ErrUnknownPeer, addr)
	}
	return peer.HostPort, nil
}

// Peers returns the known peers, ordered by host:port.
func (d *Static) Peers() []membership.NodeAddress {
	d.mutex.RLock()
	peers := make([]membership.NodeAddress, 0, len(d.peers))
	for _, peer := range d.peers {
		peers = append(peers, peer)
	}
	d.mutex.RUnlock()

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].HostPort < peers[j].HostPort
	})
	return peers
}
