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

package store

import (
	"context"
	"errors"
	"sync"

	log "github.com/uber-common/bark"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/membership"
)

// ErrNoRefreshSource is returned by Refresh when the store was built without
// a source to pull the full table from.
var ErrNoRefreshSource = errors.New("store has no refresh source")

// A RefreshSource produces the authoritative membership table, for example by
// asking a seed node or a coordination service.
type RefreshSource func(ctx context.Context) (membership.TableSnapshot, error)

// InMem is an in-process membership table store. It implements
// membership.TableStore and is safe for concurrent use.
type InMem struct {
	mutex    sync.RWMutex
	current  membership.TableSnapshot
	source   RefreshSource
	onUpdate func(membership.TableSnapshot)

	logger log.Logger
}

// NewInMem returns an empty in-memory store pulling refreshes from source.
// source may be nil when the deployment never triggers full pulls.
func NewInMem(source RefreshSource) *InMem {
	return &InMem{
		source: source,
		logger: logging.Logger("store"),
	}
}

// OnUpdate registers f to be called with every adopted table, both from
// refreshes and from applied snapshots. f runs on the adopting goroutine.
func (s *InMem) OnUpdate(f func(membership.TableSnapshot)) {
	s.mutex.Lock()
	s.onUpdate = f
	s.mutex.Unlock()
}

// Current returns the table this store holds.
func (s *InMem) Current() membership.TableSnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current
}

// Version returns the version of the held table; membership.VersionUnknown
// before anything was adopted.
func (s *InMem) Version() membership.MembershipVersion {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.Version
}

// Refresh pulls the full table from the refresh source and adopts it without
// comparing versions: a full pull is authoritative.
func (s *InMem) Refresh(ctx context.Context) error {
	s.mutex.RLock()
	source := s.source
	s.mutex.RUnlock()

	if source == nil {
		return ErrNoRefreshSource
	}

	snapshot, err := source(ctx)
	if err != nil {
		return err
	}

	s.adopt(snapshot)
	return nil
}

// ApplySnapshot adopts snapshot if it is newer than the held table. Stale and
// same-version snapshots are dropped silently; gossip redelivers, so this is
// routine rather than an error.
func (s *InMem) ApplySnapshot(ctx context.Context, snapshot membership.TableSnapshot) error {
	s.mutex.Lock()
	if !snapshot.Version.Newer(s.current.Version) {
		s.mutex.Unlock()
		return nil
	}
	s.current = snapshot
	onUpdate := s.onUpdate
	s.mutex.Unlock()

	s.logger.WithFields(log.Fields{
		"version":  snapshot.Version,
		"members":  len(snapshot.Entries),
		"checksum": snapshot.Checksum(),
	}).Debug("membership table updated")

	if onUpdate != nil {
		onUpdate(snapshot)
	}
	return nil
}

func (s *InMem) adopt(snapshot membership.TableSnapshot) {
	s.mutex.Lock()
	s.current = snapshot
	onUpdate := s.onUpdate
	s.mutex.Unlock()

	s.logger.WithFields(log.Fields{
		"version": snapshot.Version,
		"members": len(snapshot.Entries),
	}).Debug("membership table refreshed")

	if onUpdate != nil {
		onUpdate(snapshot)
	}
}
