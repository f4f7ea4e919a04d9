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

// Package address provides the identity of stage nodes and the resolved
// destination of an invocation.
//
// A NodeIdentity names one runtime node: a stable opaque id plus the host and
// port it can be reached at. Its canonical textual form is:
//
//	<id>@<host>:<port>
//
// A NetTarget is either Local (the calling node) or Remote(NodeIdentity).
package address

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tochemey/stage/internal/validation"
)

const idSeparator = "@"

// NodeIdentity identifies a runtime node. NodeIdentity values are compared by value.
type NodeIdentity struct {
	id   string
	host string
	port int
}

var _ validation.Validator = NodeIdentity{}

// NewNodeIdentity creates a NodeIdentity with a freshly generated id
func NewNodeIdentity(host string, port int) NodeIdentity {
	return NodeIdentity{id: uuid.NewString(), host: host, port: port}
}

// NewNodeIdentityWithID creates a NodeIdentity with the given id
func NewNodeIdentityWithID(id, host string, port int) NodeIdentity {
	return NodeIdentity{id: id, host: host, port: port}
}

// ParseNodeIdentity reconstructs a NodeIdentity from its textual form
func ParseNodeIdentity(s string) (NodeIdentity, error) {
	parts := strings.SplitN(s, idSeparator, 2)
	if len(parts) != 2 {
		return NodeIdentity{}, fmt.Errorf("invalid node identity (%s)", s)
	}

	host, portStr, err := net.SplitHostPort(parts[1])
	if err != nil {
		return NodeIdentity{}, fmt.Errorf("invalid node identity (%s): %w", s, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return NodeIdentity{}, fmt.Errorf("invalid node identity (%s): %w", s, err)
	}

	node := NewNodeIdentityWithID(parts[0], host, port)
	if err := node.Validate(); err != nil {
		return NodeIdentity{}, err
	}
	return node, nil
}

// ID returns the node stable id
func (n NodeIdentity) ID() string {
	return n.id
}

// Host returns the node host
func (n NodeIdentity) Host() string {
	return n.host
}

// Port returns the node port
func (n NodeIdentity) Port() int {
	return n.port
}

// HostPort returns the host:port address of the node
func (n NodeIdentity) HostPort() string {
	return net.JoinHostPort(n.host, strconv.Itoa(n.port))
}

// IsZero reports whether the identity is the zero value
func (n NodeIdentity) IsZero() bool {
	return n == NodeIdentity{}
}

// Equal reports whether both identities are the same node
func (n NodeIdentity) Equal(other NodeIdentity) bool {
	return n == other
}

// String returns the canonical form id@host:port
func (n NodeIdentity) String() string {
	if n.IsZero() {
		return ""
	}
	return n.id + idSeparator + n.HostPort()
}

// Validate implements validation.Validator
func (n NodeIdentity) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddValidator(validation.NewIDValidator(n.id))
	if n.host != "" {
		chain = chain.AddValidator(validation.NewTCPAddressValidator(n.HostPort()))
	}
	return chain.Validate()
}
