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
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreUnavailable is returned (possibly wrapped) by table store
	// implementations when the authoritative backend cannot be reached.
	ErrStoreUnavailable = errors.New("membership table store unavailable")

	// ErrUnknownPeer is returned by peer directories for addresses they have
	// never seen.
	ErrUnknownPeer = errors.New("peer not known to the directory")
)

// A TableStore holds the authoritative versioned membership table. It owns
// its own concurrency discipline; the node treats it as an opaque, safely
// concurrent collaborator.
type TableStore interface {
	// Refresh pulls the latest authoritative table. The store's resulting
	// version is whatever the backend currently reports.
	Refresh(ctx context.Context) error

	// ApplySnapshot adopts snapshot if its version is strictly newer than
	// what the store already holds. A stale snapshot is silently discarded;
	// that is not an error.
	ApplySnapshot(ctx context.Context, snapshot TableSnapshot) error
}

// A HealthMonitor reports this node's own degradation. It is queried, never
// mutated, by the membership actor.
type HealthMonitor interface {
	// CurrentScore returns a score in [0, 1]; higher means more degraded.
	CurrentScore(now time.Time) float64
}

// A PeerDirectory maps node identities to dialable transport addresses.
type PeerDirectory interface {
	// Resolve returns the host:port to dial for addr, or ErrUnknownPeer if
	// the directory has never seen addr.
	Resolve(addr NodeAddress) (string, error)
}

// passthroughDirectory resolves every address to its own host:port. It is
// the default when no directory is configured.
type passthroughDirectory struct{}

func (passthroughDirectory) Resolve(addr NodeAddress) (string, error) {
	return addr.HostPort, nil
}

// zeroMonitor reports a node that is never degraded. It is the default when
// no health monitor is configured.
type zeroMonitor struct{}

func (zeroMonitor) CurrentScore(now time.Time) float64 { return 0 }
