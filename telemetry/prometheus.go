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

// Package telemetry exports membership protocol activity to Prometheus.
// Register a Listener on a node and mount Handler on an HTTP mux to serve
// /metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quorumlabs/siloswim/membership"
)

// A Listener translates membership events into Prometheus metrics. It
// implements membership.EventListener.
type Listener struct {
	registry *prometheus.Registry

	probes        *prometheus.CounterVec
	probeRequests *prometheus.CounterVec
	probeLatency  prometheus.Histogram

	gossipSends    *prometheus.CounterVec
	gossipFailures prometheus.Counter
	gossipLatency  prometheus.Histogram

	notifications *prometheus.CounterVec
	tableVersion  prometheus.Gauge
}

// NewListener returns a listener with its metrics registered on registry. A
// nil registry gets a fresh one.
func NewListener(registry *prometheus.Registry) *Listener {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	l := &Listener{
		registry: registry,

		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siloswim",
			Name:      "probes_total",
			Help:      "Direct probes by direction and result.",
		}, []string{"direction", "result"}),

		probeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siloswim",
			Name:      "probe_requests_total",
			Help:      "Indirect probe requests by direction and result.",
		}, []string{"direction", "result"}),

		probeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siloswim",
			Name:      "probe_duration_seconds",
			Help:      "Latency of answered direct probes.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		}),

		gossipSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siloswim",
			Name:      "gossip_sends_total",
			Help:      "Per-partner gossip notification sends by result.",
		}, []string{"result"}),

		gossipFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siloswim",
			Name:      "gossip_round_failures_total",
			Help:      "Partners that could not be notified, summed over rounds.",
		}),

		gossipLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siloswim",
			Name:      "gossip_round_duration_seconds",
			Help:      "Duration of complete gossip rounds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		}),

		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siloswim",
			Name:      "notifications_total",
			Help:      "Inbound change notifications by disposition.",
		}, []string{"disposition"}),

		tableVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "siloswim",
			Name:      "membership_table_version",
			Help:      "Version of the last membership table applied locally.",
		}),
	}

	registry.MustRegister(
		l.probes, l.probeRequests, l.probeLatency,
		l.gossipSends, l.gossipFailures, l.gossipLatency,
		l.notifications, l.tableVersion,
	)
	return l
}

// Registry returns the registry the listener's metrics live on.
func (l *Listener) Registry() *prometheus.Registry {
	return l.registry
}

// Handler serves the listener's metrics in the Prometheus text format.
func (l *Listener) Handler() http.Handler {
	return promhttp.HandlerFor(l.registry, promhttp.HandlerOpts{})
}

// HandleEvent implements membership.EventListener.
func (l *Listener) HandleEvent(event membership.Event) {
	switch event := event.(type) {
	case membership.ProbeSendCompleteEvent:
		l.probes.WithLabelValues("out", "ok").Inc()
		l.probeLatency.Observe(event.Duration.Seconds())

	case membership.ProbeSendErrorEvent:
		l.probes.WithLabelValues("out", "error").Inc()

	case membership.ProbeReceiveEvent:
		l.probes.WithLabelValues("in", "ok").Inc()

	case membership.ProbeRequestSendCompleteEvent:
		l.probeRequests.WithLabelValues("out", "ok").Inc()

	case membership.ProbeRequestSendErrorEvent:
		l.probeRequests.WithLabelValues("out", "error").Inc()

	case membership.ProbeRequestCompleteEvent:
		if event.Succeeded {
			l.probeRequests.WithLabelValues("in", "ok").Inc()
		} else {
			l.probeRequests.WithLabelValues("in", "target-failed").Inc()
		}

	case membership.GossipSendEvent:
		l.gossipSends.WithLabelValues("sent").Inc()

	case membership.GossipSendErrorEvent:
		l.gossipSends.WithLabelValues("error").Inc()

	case membership.GossipCompleteEvent:
		l.gossipLatency.Observe(event.Duration.Seconds())
		l.gossipFailures.Add(float64(event.Failed))

	case membership.RefreshTriggeredEvent:
		l.notifications.WithLabelValues("refresh").Inc()

	case membership.TableRefreshErrorEvent:
		l.notifications.WithLabelValues("refresh-error").Inc()

	case membership.SnapshotAppliedEvent:
		l.notifications.WithLabelValues("applied").Inc()
		l.tableVersion.Set(float64(event.Version))

	case membership.SnapshotApplyErrorEvent:
		l.notifications.WithLabelValues("apply-error").Inc()
	}
}
