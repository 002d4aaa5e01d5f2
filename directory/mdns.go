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
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	log "github.com/uber-common/bark"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/membership"
)

const (
	mdnsDomain          = "local."
	defaultService      = "_siloswim._tcp"
	defaultBrowsePeriod = 10 * time.Second
	defaultBrowseWindow = 3 * time.Second
)

// MDNSOptions configures an MDNS provider. The zero value gets defaults.
type MDNSOptions struct {
	// Service is the mDNS service type to advertise and browse.
	Service string

	// BrowsePeriod is the interval between browse cycles; BrowseWindow is how
	// long each cycle listens for answers.
	BrowsePeriod time.Duration
	BrowseWindow time.Duration
}

// MDNS advertises the local node over mDNS and keeps a Static directory
// populated with the peers it hears. It is a discovery provider for
// single-segment deployments; for anything routed, feed the Static directory
// from configuration instead.
type MDNS struct {
	local     membership.NodeAddress
	directory *Static
	service   string
	period    time.Duration
	window    time.Duration

	server *zeroconf.Server
	cancel context.CancelFunc
	done   chan struct{}

	logger log.Logger
}

// NewMDNS returns an unstarted provider feeding directory.
func NewMDNS(local membership.NodeAddress, directory *Static, opts *MDNSOptions) *MDNS {
	if opts == nil {
		opts = &MDNSOptions{}
	}

	m := &MDNS{
		local:     local,
		directory: directory,
		service:   opts.Service,
		period:    opts.BrowsePeriod,
		window:    opts.BrowseWindow,
		logger:    logging.Logger("directory").WithField("local", local.String()),
	}
	if m.service == "" {
		m.service = defaultService
	}
	if m.period <= 0 {
		m.period = defaultBrowsePeriod
	}
	if m.window <= 0 {
		m.window = defaultBrowseWindow
	}
	return m
}

// Start advertises the local node and begins the browse loop. The provider
// runs until Stop is called.
func (m *MDNS) Start() error {
	host, port, err := splitHostPort(m.local.HostPort)
	if err != nil {
		return err
	}

	instance := strings.NewReplacer(".", "-", ":", "-").Replace(m.local.HostPort)
	server, err := zeroconf.Register(
		instance,
		m.service,
		mdnsDomain,
		port,
		[]string{
			fmt.Sprintf("hostport=%s", m.local.HostPort),
			fmt.Sprintf("epoch=%d", m.local.Epoch),
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("register mdns service: %w", err)
	}
	m.server = server

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.browseLoop(ctx)

	m.logger.WithFields(log.Fields{
		"service": m.service,
		"host":    host,
		"port":    port,
	}).Info("mdns advertising started")
	return nil
}

// Stop withdraws the advertisement and ends the browse loop.
func (m *MDNS) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
	if m.server != nil {
		m.server.Shutdown()
	}
}

func (m *MDNS) browseLoop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		if err := m.browseOnce(ctx); err != nil && ctx.Err() == nil {
			m.logger.WithField("error", err).Warn("mdns browse cycle failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *MDNS) browseOnce(ctx context.Context) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("create mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.window)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			m.handleEntry(entry)
		}
	}()

	if err := resolver.Browse(ctx, m.service, mdnsDomain, entries); err != nil {
		return fmt.Errorf("browse %s: %w", m.service, err)
	}
	<-ctx.Done()
	return nil
}

func (m *MDNS) handleEntry(entry *zeroconf.ServiceEntry) {
	peer, ok := peerFromTXT(entry.Text)
	if !ok {
		m.logger.WithField("instance", entry.Instance).Debug("mdns entry without peer records")
		return
	}
	if peer.HostPort == m.local.HostPort {
		return
	}

	m.directory.Add(peer)
	m.logger.WithField("peer", peer.String()).Debug("mdns peer recorded")
}

// peerFromTXT reads the hostport and epoch records this provider advertises.
func peerFromTXT(txt []string) (membership.NodeAddress, bool) {
	var hostport string
	var epoch int64
	var haveEpoch bool

	for _, record := range txt {
		parts := strings.SplitN(record, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "hostport":
			hostport = parts[1]
		case "epoch":
			parsed, err := strconv.ParseInt(parts[1], 10, 64)
			if err == nil {
				epoch = parsed
				haveEpoch = true
			}
		}
	}

	if hostport == "" || !haveEpoch {
		return membership.NodeAddress{}, false
	}
	return membership.NewNodeAddress(hostport, epoch), true
}

func splitHostPort(hostport string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, fmt.Errorf("parse local address %q: %w", hostport, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("parse local port %q: %w", portStr, err)
	}
	return host, port, nil
}
