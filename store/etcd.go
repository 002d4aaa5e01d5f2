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
	"encoding/json"
	"fmt"
	"time"

	log "github.com/uber-common/bark"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/membership"
)

const defaultEtcdTimeout = 5 * time.Second

// NewEtcdClient dials an etcd cluster with the defaults this package expects.
func NewEtcdClient(endpoints []string) (*clientv3.Client, error) {
	return clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: defaultEtcdTimeout,
	})
}

// Etcd is a membership table store backed by a single etcd key. It keeps a
// local in-memory cache for reads; Refresh pulls the table from etcd and
// ApplySnapshot writes adopted tables back, so a node that restarts can
// recover the table without a live peer.
type Etcd struct {
	cache   *InMem
	client  *clientv3.Client
	key     string
	timeout time.Duration

	logger log.Logger
}

// NewEtcd returns a store persisting the table as JSON under key.
func NewEtcd(client *clientv3.Client, key string) *Etcd {
	s := &Etcd{
		client:  client,
		key:     key,
		timeout: defaultEtcdTimeout,
		logger:  logging.Logger("store").WithField("key", key),
	}
	s.cache = NewInMem(s.fetch)
	return s
}

// Current returns the locally cached table.
func (s *Etcd) Current() membership.TableSnapshot {
	return s.cache.Current()
}

// Version returns the version of the locally cached table.
func (s *Etcd) Version() membership.MembershipVersion {
	return s.cache.Version()
}

// OnUpdate registers f to be called with every adopted table.
func (s *Etcd) OnUpdate(f func(membership.TableSnapshot)) {
	s.cache.OnUpdate(f)
}

// Refresh pulls the table from etcd and adopts it unconditionally.
func (s *Etcd) Refresh(ctx context.Context) error {
	return s.cache.Refresh(ctx)
}

// ApplySnapshot adopts snapshot if it is newer than the cached table and, on
// adoption, persists it to etcd. A persistence failure leaves the cache
// updated; the next adopted table retries the write.
func (s *Etcd) ApplySnapshot(ctx context.Context, snapshot membership.TableSnapshot) error {
	before := s.cache.Version()
	if err := s.cache.ApplySnapshot(ctx, snapshot); err != nil {
		return err
	}
	if !snapshot.Version.Newer(before) {
		return nil
	}

	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Put(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("%w: put %s: %v", membership.ErrStoreUnavailable, s.key, err)
	}
	return nil
}

// fetch is the cache's refresh source: the JSON table under s.key.
func (s *Etcd) fetch(ctx context.Context) (membership.TableSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Get(ctx, s.key)
	if err != nil {
		return membership.TableSnapshot{}, fmt.Errorf("%w: get %s: %v", membership.ErrStoreUnavailable, s.key, err)
	}
	if len(res.Kvs) == 0 {
		// No table stored yet; an empty table at the sentinel version lets
		// the first applied snapshot win.
		return membership.TableSnapshot{}, nil
	}

	snapshot, err := decodeSnapshot(res.Kvs[0].Value)
	if err != nil {
		s.logger.WithField("error", err).Warn("stored membership table is not decodable")
		return membership.TableSnapshot{}, err
	}
	return snapshot, nil
}

func encodeSnapshot(snapshot membership.TableSnapshot) ([]byte, error) {
	return json.Marshal(snapshot)
}

func decodeSnapshot(payload []byte) (membership.TableSnapshot, error) {
	var snapshot membership.TableSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return membership.TableSnapshot{}, fmt.Errorf("decode membership table: %v", err)
	}
	return snapshot, nil
}
