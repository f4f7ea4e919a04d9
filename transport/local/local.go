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

// Package local provides an in-process Transport. Stages attached to the same
// Hub exchange frames through memory, which makes multi-node setups possible
// inside a single binary or test. Each node handles its inbound frames one at
// a time in the order they were sent.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/xsync"
	"github.com/tochemey/stage/transport"
)

// Hub is the in-process network connecting local transports
type Hub struct {
	nodes *xsync.Map[address.NodeIdentity, *Transport]
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{nodes: xsync.NewMap[address.NodeIdentity, *Transport]()}
}

// Transport creates a transport attached to the hub
func (h *Hub) Transport() *Transport {
	return &Transport{hub: h, started: atomic.NewBool(false)}
}

// Nodes returns the nodes currently attached
func (h *Hub) Nodes() []address.NodeIdentity {
	return h.nodes.Keys()
}

// Transport is a transport.Transport over a Hub
type Transport struct {
	hub     *Hub
	self    address.NodeIdentity
	handler transport.Handler
	started *atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	inbound *queue.Queue
	wg      sync.WaitGroup
}

var _ transport.Transport = (*Transport)(nil)

// Start implements transport.Transport
func (t *Transport) Start(ctx context.Context, self address.NodeIdentity, handler transport.Handler) error {
	if !t.started.CompareAndSwap(false, true) {
		return fmt.Errorf("local transport already started for (%s)", t.self)
	}

	t.self = self
	t.handler = handler
	t.ctx, t.cancel = context.WithCancel(context.WithoutCancel(ctx))
	t.inbound = queue.New(16)
	if _, stored := t.hub.nodes.SetIfAbsent(self, t); !stored {
		t.started.Store(false)
		t.inbound.Dispose()
		t.cancel()
		return fmt.Errorf("node (%s) is already attached to the hub", self)
	}

	t.wg.Add(1)
	go t.drain()
	return nil
}

// Send implements transport.Transport. The frame is copied so the sender
// may reuse its buffer.
func (t *Transport) Send(ctx context.Context, target address.NodeIdentity, frame []byte) error {
	if !t.started.Load() {
		return gerrors.ErrTransportStopped
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	peer, ok := t.hub.nodes.Get(target)
	if !ok {
		return fmt.Errorf("%w: %s", gerrors.ErrNodeUnreachable, target)
	}
	return peer.deliver(append([]byte(nil), frame...))
}

// Stop implements transport.Transport. The frame being handled is awaited
// and the frames still queued are dropped.
func (t *Transport) Stop(context.Context) error {
	t.mu.Lock()
	if !t.started.CompareAndSwap(true, false) {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if current, ok := t.hub.nodes.Get(t.self); ok && current == t {
		t.hub.nodes.Delete(t.self)
	}
	t.inbound.Dispose()
	t.wg.Wait()
	t.cancel()
	return nil
}

func (t *Transport) deliver(frame []byte) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.started.Load() {
		return fmt.Errorf("%w: %s", gerrors.ErrNodeUnreachable, t.self)
	}

	if err := t.inbound.Put(frame); err != nil {
		return fmt.Errorf("%w: %s", gerrors.ErrNodeUnreachable, t.self)
	}
	return nil
}

// drain hands the inbound frames to the handler until the queue is disposed
func (t *Transport) drain() {
	defer t.wg.Done()
	for {
		items, err := t.inbound.Get(1)
		if err != nil {
			return
		}
		for _, item := range items {
			t.handler(t.ctx, item.([]byte))
		}
	}
}
