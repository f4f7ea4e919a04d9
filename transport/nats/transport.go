// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package nats provides a Transport over a NATS server.
//
// Every node subscribes to its own subject:
//
//	<prefix>.node.<node id>
//
// and acknowledges each frame it receives, so a send to a node without
// subscriber fails fast with ErrNodeUnreachable. Nodes announce themselves
// on <prefix>.members when they start and stop. Members already running
// answer a join with their own identity, which keeps a local copy of the
// membership on every node and lets the transport act as the routing
// ClusterView of a stage without a round trip per lookup.
package nats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/routing"
	"github.com/tochemey/stage/transport"
)

// announcement kinds published on the members subject
const (
	joinAnnouncement  byte = 'j'
	leaveAnnouncement byte = 'l'
)

// Transport is a transport.Transport over NATS
type Transport struct {
	config  Config
	logger  log.Logger
	started *atomic.Bool

	mu            sync.Mutex
	self          address.NodeIdentity
	connection    *nats.Conn
	subscriptions []*nats.Subscription
	members       *routing.MutableView
}

var (
	_ transport.Transport = (*Transport)(nil)
	_ routing.ClusterView = (*Transport)(nil)
)

// New creates a Transport
func New(config Config, opts ...Option) *Transport {
	config.sanitize()
	t := &Transport{
		config:  config,
		logger:  log.DiscardLogger,
		started: atomic.NewBool(false),
		members: routing.NewMutableView(),
	}

	for _, opt := range opts {
		opt.Apply(t)
	}
	return t
}

// Start implements transport.Transport
func (t *Transport) Start(ctx context.Context, self address.NodeIdentity, handler transport.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started.Load() {
		return fmt.Errorf("nats transport already started for (%s)", t.self)
	}

	if err := t.config.Validate(); err != nil {
		return err
	}

	opts := nats.GetDefaultOptions()
	opts.Url = t.config.URL
	opts.Name = self.ID()
	opts.ReconnectWait = 2 * time.Second
	opts.MaxReconnect = -1

	var connection *nats.Conn
	// connect with exponential backoff, from 100ms up to the reconnect wait
	retrier := retry.NewRetrier(t.config.MaxRetries, 100*time.Millisecond, opts.ReconnectWait)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		connection, err = opts.Connect()
		return err
	}); err != nil {
		return fmt.Errorf("failed to connect to nats server (%s): %w", t.config.URL, err)
	}

	handlerCtx := context.WithoutCancel(ctx)
	frames, err := connection.Subscribe(t.nodeSubject(self), func(msg *nats.Msg) {
		if msg.Reply != "" {
			if err := msg.Respond(nil); err != nil {
				t.logger.Warnf("failed to acknowledge frame: %v", err)
			}
		}
		handler(handlerCtx, msg.Data)
	})
	if err != nil {
		connection.Close()
		return fmt.Errorf("failed to subscribe node subject: %w", err)
	}

	t.members.Add(self)
	onAnnouncement := func(msg *nats.Msg) { t.onAnnouncement(self, msg) }

	announcements, err := connection.Subscribe(t.membersSubject(), onAnnouncement)
	if err != nil {
		connection.Close()
		return fmt.Errorf("failed to subscribe members subject: %w", err)
	}

	// members already running answer our join on this inbox
	inbox := nats.NewInbox()
	answers, err := connection.Subscribe(inbox, onAnnouncement)
	if err != nil {
		connection.Close()
		return fmt.Errorf("failed to subscribe membership inbox: %w", err)
	}

	if err := connection.Flush(); err != nil {
		connection.Close()
		return fmt.Errorf("failed to flush subscriptions: %w", err)
	}

	if err := connection.PublishRequest(t.membersSubject(), inbox, announce(joinAnnouncement, self)); err != nil {
		connection.Close()
		return fmt.Errorf("failed to announce (%s): %w", self, err)
	}

	t.self = self
	t.connection = connection
	t.subscriptions = []*nats.Subscription{frames, announcements, answers}
	t.started.Store(true)
	t.logger.Infof("nats transport started for (%s) on (%s)", self, t.config.URL)
	return nil
}

// Send implements transport.Transport. The call returns once the target
// acknowledged the frame. A target without subscriber is dropped from the
// membership.
func (t *Transport) Send(ctx context.Context, target address.NodeIdentity, frame []byte) error {
	if !t.started.Load() {
		return gerrors.ErrTransportStopped
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	if _, err := t.connection.RequestWithContext(ctx, t.nodeSubject(target), frame); err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			t.members.Remove(target)
			return fmt.Errorf("%w: %s", gerrors.ErrNodeUnreachable, target)
		}
		return fmt.Errorf("failed to send frame to (%s): %w", target, err)
	}
	return nil
}

// Members implements routing.ClusterView. It returns the membership learnt
// from announcements without contacting the other nodes.
func (t *Transport) Members(ctx context.Context) ([]address.NodeIdentity, error) {
	if !t.started.Load() {
		return nil, gerrors.ErrTransportStopped
	}
	return t.members.Members(ctx)
}

// Stop implements transport.Transport. Peers are told the node is leaving.
func (t *Transport) Stop(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started.CompareAndSwap(true, false) {
		return nil
	}

	var err error
	for _, subscription := range t.subscriptions {
		if subscription.IsValid() {
			err = multierr.Append(err, subscription.Unsubscribe())
		}
	}
	t.subscriptions = nil

	if t.connection != nil {
		err = multierr.Combine(err,
			t.connection.Publish(t.membersSubject(), announce(leaveAnnouncement, t.self)),
			t.connection.Drain())
		t.connection = nil
	}

	nodes, _ := t.members.Members(context.Background())
	for _, node := range nodes {
		t.members.Remove(node)
	}
	t.logger.Infof("nats transport stopped for (%s)", t.self)
	return err
}

// onAnnouncement applies a join or leave to the membership. Joins carrying a
// reply inbox come from a starting node and are answered with self.
func (t *Transport) onAnnouncement(self address.NodeIdentity, msg *nats.Msg) {
	if len(msg.Data) < 2 {
		t.logger.Warnf("dropping empty membership announcement")
		return
	}

	node, err := address.ParseNodeIdentity(string(msg.Data[1:]))
	if err != nil {
		t.logger.Warnf("dropping invalid membership announcement: %v", err)
		return
	}

	if node.Equal(self) {
		return
	}

	switch msg.Data[0] {
	case joinAnnouncement:
		if t.members.Add(node) {
			t.logger.Debugf("node (%s) joined", node)
		}
		if msg.Reply != "" {
			if err := msg.Respond(announce(joinAnnouncement, self)); err != nil {
				t.logger.Warnf("failed to answer join of (%s): %v", node, err)
			}
		}
	case leaveAnnouncement:
		t.members.Remove(node)
		t.logger.Debugf("node (%s) left", node)
	default:
		t.logger.Warnf("dropping unknown membership announcement (%q)", msg.Data[0])
	}
}

func announce(kind byte, node address.NodeIdentity) []byte {
	return append([]byte{kind}, node.String()...)
}

func (t *Transport) nodeSubject(node address.NodeIdentity) string {
	return t.config.SubjectPrefix + ".node." + node.ID()
}

func (t *Transport) membersSubject() string {
	return t.config.SubjectPrefix + ".members"
}
