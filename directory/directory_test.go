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

package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumlabs/siloswim/membership"
)

func TestResolveKnownPeer(t *testing.T) {
	peer := membership.NewNodeAddress("10.0.0.1:3000", 10)
	d := NewStatic(peer)

	hostport, err := d.Resolve(peer)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:3000", hostport)
}

func TestResolveUnknownPeer(t *testing.T) {
	d := NewStatic()

	_, err := d.Resolve(membership.NewNodeAddress("10.0.0.9:3000", 10))
	assert.ErrorIs(t, err, membership.ErrUnknownPeer)
}

func TestResolveWrongEpoch(t *testing.T) {
	d := NewStatic(membership.NewNodeAddress("10.0.0.1:3000", 10))

	_, err := d.Resolve(membership.NewNodeAddress("10.0.0.1:3000", 11))
	assert.ErrorIs(t, err, membership.ErrUnknownPeer,
		"a different incarnation is a different node")
}

func TestAddPrefersNewerEpoch(t *testing.T) {
	d := NewStatic()
	d.Add(membership.NewNodeAddress("10.0.0.1:3000", 20))
	d.Add(membership.NewNodeAddress("10.0.0.1:3000", 10)) // stale announcement

	_, err := d.Resolve(membership.NewNodeAddress("10.0.0.1:3000", 20))
	assert.NoError(t, err, "a stale announcement must not displace a newer incarnation")

	d.Add(membership.NewNodeAddress("10.0.0.1:3000", 30))
	_, err = d.Resolve(membership.NewNodeAddress("10.0.0.1:3000", 30))
	assert.NoError(t, err)
}

func TestRemove(t *testing.T) {
	peer := membership.NewNodeAddress("10.0.0.1:3000", 10)
	d := NewStatic(peer)

	d.Remove(peer.HostPort)
	_, err := d.Resolve(peer)
	assert.ErrorIs(t, err, membership.ErrUnknownPeer)
}

func TestPeersSorted(t *testing.T) {
	d := NewStatic(
		membership.NewNodeAddress("10.0.0.3:3000", 30),
		membership.NewNodeAddress("10.0.0.1:3000", 10),
		membership.NewNodeAddress("10.0.0.2:3000", 20),
	)

	peers := d.Peers()
	require.Len(t, peers, 3)
	assert.Equal(t, "10.0.0.1:3000", peers[0].HostPort)
	assert.Equal(t, "10.0.0.2:3000", peers[1].HostPort)
	assert.Equal(t, "10.0.0.3:3000", peers[2].HostPort)
}

func TestPeerFromTXT(t *testing.T) {
	peer, ok := peerFromTXT([]string{"hostport=10.0.0.1:3000", "epoch=42"})
	require.True(t, ok)
	assert.Equal(t, membership.NewNodeAddress("10.0.0.1:3000", 42), peer)
}

func TestPeerFromTXTIncomplete(t *testing.T) {
	_, ok := peerFromTXT([]string{"hostport=10.0.0.1:3000"})
	assert.False(t, ok, "an entry without an epoch is not a peer")

	_, ok = peerFromTXT([]string{"epoch=42"})
	assert.False(t, ok)

	_, ok = peerFromTXT([]string{"hostport=10.0.0.1:3000", "epoch=soon"})
	assert.False(t, ok, "a malformed epoch is not a peer")
}

func TestSplitHostPort(t *testing.T) {
	host, port, err := splitHostPort("127.0.0.1:3001")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, 3001, port)

	_, _, err = splitHostPort("not-an-address")
	assert.Error(t, err)
}
