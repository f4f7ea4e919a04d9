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

// Package transport defines how encoded frames travel between nodes.
//
// A Transport only moves opaque frames; encoding, correlation and dispatch
// happen above it. Implementations must deliver frames to the Handler given
// at Start and must be safe for concurrent Send calls.
package transport

import (
	"context"

	"github.com/tochemey/stage/address"
)

// Handler receives every frame addressed to the local node.
// The frame is owned by the handler.
type Handler func(ctx context.Context, frame []byte)

// Transport moves frames between nodes
type Transport interface {
	// Start binds the transport to the local node and starts delivering
	// inbound frames to handler
	Start(ctx context.Context, self address.NodeIdentity, handler Handler) error
	// Send delivers a frame to the target node. It fails with
	// ErrNodeUnreachable when the node is unknown to the transport.
	Send(ctx context.Context, target address.NodeIdentity, frame []byte) error
	// Stop releases the transport resources
	Stop(ctx context.Context) error
}
