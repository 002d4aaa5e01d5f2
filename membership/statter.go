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
	"fmt"
	"strings"
	"sync"

	"github.com/uber-common/bark"
)

// A Statter translates protocol events into counters and timers on a
// bark.StatsReporter. Register it as an event listener on a node.
type Statter struct {
	reporter bark.StatsReporter
	prefix   string
	keys     map[string]string
	mutex    sync.RWMutex
}

// NewStatter returns a statter reporting under a prefix derived from the
// node's address.
func NewStatter(address NodeAddress, reporter bark.StatsReporter) *Statter {
	return &Statter{
		reporter: reporter,
		prefix:   toStatsPrefix(address),
		keys:     make(map[string]string),
	}
}

func toStatsPrefix(address NodeAddress) string {
	hostport := strings.NewReplacer(".", "_", ":", "_").Replace(address.HostPort)
	return fmt.Sprintf("membership.%s", hostport)
}

// HandleEvent implements EventListener.
func (s *Statter) HandleEvent(event Event) {
	switch event := event.(type) {
	case ProbeSendEvent:
		s.reporter.IncCounter(s.key("probe.send"), nil, 1)

	case ProbeSendCompleteEvent:
		s.reporter.RecordTimer(s.key("probe"), nil, event.Duration)

	case ProbeSendErrorEvent:
		s.reporter.IncCounter(s.key("probe.send-error"), nil, 1)

	case ProbeReceiveEvent:
		s.reporter.IncCounter(s.key("probe.recv"), nil, 1)

	case ProbeRequestSendEvent:
		s.reporter.IncCounter(s.key("probe-req.send"), nil, 1)

	case ProbeRequestSendCompleteEvent:
		s.reporter.RecordTimer(s.key("probe-req"), nil, event.Duration)

	case ProbeRequestSendErrorEvent:
		s.reporter.IncCounter(s.key("probe-req.send-error"), nil, 1)

	case ProbeRequestReceiveEvent:
		s.reporter.IncCounter(s.key("probe-req.recv"), nil, 1)

	case ProbeRequestCompleteEvent:
		s.reporter.RecordTimer(s.key("probe-req.relay"), nil, event.Duration)

	case GossipSendEvent:
		s.reporter.IncCounter(s.key("gossip.send"), nil, 1)

	case GossipSendErrorEvent:
		s.reporter.IncCounter(s.key("gossip.send-error"), nil, 1)

	case GossipCompleteEvent:
		s.reporter.RecordTimer(s.key("gossip.round"), nil, event.Duration)
		s.reporter.IncCounter(s.key("gossip.round-failures"), nil, int64(event.Failed))

	case NotificationReceiveEvent:
		s.reporter.IncCounter(s.key("notify.recv"), nil, 1)

	case RefreshTriggeredEvent:
		s.reporter.IncCounter(s.key("notify.refresh"), nil, 1)

	case TableRefreshErrorEvent:
		s.reporter.IncCounter(s.key("notify.refresh-error"), nil, 1)

	case SnapshotAppliedEvent:
		s.reporter.IncCounter(s.key("notify.apply"), nil, 1)

	case SnapshotApplyErrorEvent:
		s.reporter.IncCounter(s.key("notify.apply-error"), nil, 1)
	}
}

// key caches the assembled metric names; events fire on hot paths.
func (s *Statter) key(metric string) string {
	s.mutex.RLock()
	key, ok := s.keys[metric]
	s.mutex.RUnlock()
	if ok {
		return key
	}

	s.mutex.Lock()
	key = fmt.Sprintf("%s.%s", s.prefix, metric)
	s.keys[metric] = key
	s.mutex.Unlock()
	return key
}
