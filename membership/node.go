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
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rcrowley/go-metrics"
	log "github.com/uber-common/bark"

	"github.com/quorumlabs/siloswim/logging"
	"github.com/quorumlabs/siloswim/shared"
	"github.com/quorumlabs/siloswim/util"
)

var (
	// ErrNodeNotReady is returned when an operation is submitted while the
	// node is not started or already destroyed.
	ErrNodeNotReady = errors.New("node is not ready to handle requests")
)

// Options is a configuration struct passed to the NewNode constructor.
type Options struct {
	// Directory resolves node identities to transport addresses. The default
	// resolves every address to its own host:port.
	Directory PeerDirectory

	// Monitor reports this node's own degradation score. The default always
	// reports a healthy node.
	Monitor HealthMonitor

	// ProbeTimeout bounds direct probes issued by this node on its own
	// behalf. Probes relayed for a requester are bounded by the requester's
	// timeout instead.
	ProbeTimeout time.Duration

	// RelayOverhead is added to a requester's wait when asking an
	// intermediary to probe a target; it covers the relay's own round trip
	// on top of the probe timeout it forwards.
	RelayOverhead time.Duration

	// GossipTimeout bounds one notification send to one partner.
	GossipTimeout time.Duration

	// TaskQueueSize is the capacity of the serialized intake queue.
	TaskQueueSize int

	Clock clock.Clock
}

func defaultOptions() *Options {
	return &Options{
		ProbeTimeout:  1500 * time.Millisecond,
		RelayOverhead: 1000 * time.Millisecond,
		GossipTimeout: 3000 * time.Millisecond,
		TaskQueueSize: 128,
		Clock:         clock.New(),
	}
}

func mergeDefaultOptions(opts *Options) *Options {
	def := defaultOptions()

	if opts == nil {
		return def
	}

	opts.ProbeTimeout = util.SelectDuration(opts.ProbeTimeout, def.ProbeTimeout)
	opts.RelayOverhead = util.SelectDuration(opts.RelayOverhead, def.RelayOverhead)
	opts.GossipTimeout = util.SelectDuration(opts.GossipTimeout, def.GossipTimeout)
	opts.TaskQueueSize = util.SelectInt(opts.TaskQueueSize, def.TaskQueueSize)

	if opts.Clock == nil {
		opts.Clock = def.Clock
	}

	return opts
}

// A Node is the membership actor of one cluster node. It is a
// process-lifetime singleton: created once at node start and destroyed only
// when the node shuts down.
//
// Inbound operations are serialized through a single intake queue, so the
// node's own fields need no locking inside queued operations. An operation
// that waits on the wire hands the wait off to its own goroutine first; the
// queue keeps processing unrelated work while the operation is suspended,
// but two operations never interleave their queued sections.
type Node struct {
	app     string
	service string
	address NodeAddress

	channel   shared.SubChannel
	directory PeerDirectory
	store     TableStore
	monitor   HealthMonitor

	tasks chan func()
	quit  chan struct{}

	state struct {
		started, destroyed bool
		sync.RWMutex
	}

	probeTimeout  time.Duration
	relayOverhead time.Duration
	gossipTimeout time.Duration

	clientRate metrics.Meter
	serverRate metrics.Meter
	totalRate  metrics.Meter
	roundTrip  metrics.Histogram

	listeners []EventListener
	lMutex    sync.RWMutex

	startTime time.Time

	logger log.Logger
	clock  clock.Clock
}

// NewNode returns a new membership Node. The store holds the authoritative
// membership table; the rest of the collaborators come from opts.
func NewNode(app string, address NodeAddress, channel shared.SubChannel, store TableStore, opts *Options) *Node {
	opts = mergeDefaultOptions(opts)

	node := &Node{
		app:     app,
		address: address,
		channel: channel,
		store:   store,
		logger:  logging.Logger("node").WithField("local", address.String()),

		directory: opts.Directory,
		monitor:   opts.Monitor,

		probeTimeout:  opts.ProbeTimeout,
		relayOverhead: opts.RelayOverhead,
		gossipTimeout: opts.GossipTimeout,

		tasks: make(chan func(), opts.TaskQueueSize),
		quit:  make(chan struct{}),

		clientRate: metrics.NewMeter(),
		serverRate: metrics.NewMeter(),
		totalRate:  metrics.NewMeter(),
		roundTrip:  metrics.NewHistogram(metrics.NewUniformSample(128)),

		clock: opts.Clock,
	}

	if node.directory == nil {
		node.directory = passthroughDirectory{}
	}
	if node.monitor == nil {
		node.monitor = zeroMonitor{}
	}
	if node.channel != nil {
		node.service = node.channel.ServiceName()
	}

	return node
}

// Address returns the identity of this node.
func (n *Node) Address() NodeAddress {
	return n.address
}

// App returns the application name this node was created with.
func (n *Node) App() string {
	return n.app
}

// Ready reports whether the node accepts operations.
func (n *Node) Ready() bool {
	n.state.RLock()
	ready := n.state.started && !n.state.destroyed
	n.state.RUnlock()
	return ready
}

// Start registers the protocol handlers and begins serving the intake queue.
// It belongs in the node's startup sequence; it has no behavior of its own
// beyond this wiring.
func (n *Node) Start() error {
	n.state.Lock()
	defer n.state.Unlock()

	if n.state.destroyed {
		return ErrNodeNotReady
	}
	if n.state.started {
		return nil
	}

	if n.channel != nil {
		if err := n.registerHandlers(); err != nil {
			return err
		}
	}

	n.state.started = true
	n.startTime = n.clock.Now()
	go n.loop()

	n.logger.Info("membership node started")
	return nil
}

// Destroy stops the intake queue. Operations already suspended on the wire
// run to completion; new submissions fail with ErrNodeNotReady.
func (n *Node) Destroy() {
	n.state.Lock()
	defer n.state.Unlock()

	if n.state.destroyed {
		return
	}
	n.state.destroyed = true
	close(n.quit)

	n.logger.Info("membership node destroyed")
}

// loop serializes the node's inbound operations.
func (n *Node) loop() {
	for {
		select {
		case op := <-n.tasks:
			op()
		case <-n.quit:
			n.drain()
			return
		}
	}
}

// drain runs the tasks that were accepted before the queue closed. An
// accepted submission has a handle waiting on it; dropping the task would
// leave that handle incomplete forever.
func (n *Node) drain() {
	for {
		select {
		case op := <-n.tasks:
			op()
		default:
			return
		}
	}
}

// submit enqueues op on the intake queue without waiting for it to run. The
// state read lock orders the enqueue before Destroy closes the queue, so an
// accepted task is always picked up by loop or drain.
func (n *Node) submit(op func()) error {
	n.state.RLock()
	defer n.state.RUnlock()

	if !n.state.started || n.state.destroyed {
		return ErrNodeNotReady
	}
	n.tasks <- op
	return nil
}

// invoke runs op on the intake queue and waits for its queued section to
// finish.
func (n *Node) invoke(op func()) error {
	done := make(chan struct{})
	if err := n.submit(func() {
		defer close(done)
		op()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-n.quit:
		return ErrNodeNotReady
	}
}

// RegisterListener adds a listener for the node's protocol events. Listeners
// are called synchronously on the emitting goroutine.
func (n *Node) RegisterListener(l EventListener) {
	if l == nil {
		return
	}
	n.lMutex.Lock()
	n.listeners = append(n.listeners, l)
	n.lMutex.Unlock()
}

func (n *Node) emit(event Event) {
	n.lMutex.RLock()
	listeners := n.listeners
	n.lMutex.RUnlock()

	for _, listener := range listeners {
		listener.HandleEvent(event)
	}
}

// ProbeDirect submits a direct probe of target. The submission does not
// block; the returned handle completes once the probe succeeded, failed or
// timed out. probeNumber is an opaque diagnostic correlation id.
func (n *Node) ProbeDirect(target NodeAddress, probeNumber int64) *ProbeHandle {
	handle := newProbeHandle()

	err := n.submit(func() {
		n.clientRate.Mark(1)
		n.totalRate.Mark(1)

		// The wire wait happens off the intake queue.
		go func() {
			res, elapsed, err := sendProbe(n, target, n.probeTimeout, probeNumber)
			if err != nil {
				handle.complete(&ProbeOutcome{
					Succeeded:     false,
					RoundTrip:     elapsed,
					FailureDetail: err.Error(),
				}, nil)
				return
			}
			handle.complete(&ProbeOutcome{
				Succeeded:            true,
				ResponderHealthScore: res.HealthScore,
				RoundTrip:            elapsed,
			}, nil)
		}()
	})
	if err != nil {
		handle.complete(nil, err)
	}

	return handle
}

// ProbeIndirectly submits an indirect probe: intermediary is asked to probe
// target on this node's behalf and to report back within probeTimeout. The
// submission does not block. The handle carries an error instead of an
// outcome when the intermediary itself could not be reached or failed to
// answer within probeTimeout plus the relay overhead; deciding what to make
// of an unreliable intermediary is the caller's business.
func (n *Node) ProbeIndirectly(intermediary, target NodeAddress, probeTimeout time.Duration, probeNumber int64) *ProbeHandle {
	handle := newProbeHandle()

	err := n.submit(func() {
		n.clientRate.Mark(1)
		n.totalRate.Mark(1)

		go func() {
			outcome, err := sendProbeRequest(n, intermediary, target, probeTimeout, probeNumber)
			handle.complete(outcome, err)
		}()
	})
	if err != nil {
		handle.complete(nil, err)
	}

	return handle
}
