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

package address

// NetTarget is the resolved destination of one invocation: either the local
// node or a specific remote node.
type NetTarget struct {
	remote bool
	node   NodeIdentity
}

// Local returns the target denoting the calling node
func Local() NetTarget {
	return NetTarget{}
}

// Remote returns the target denoting the given node
func Remote(node NodeIdentity) NetTarget {
	return NetTarget{remote: true, node: node}
}

// IsLocal reports whether the target is the calling node
func (t NetTarget) IsLocal() bool {
	return !t.remote
}

// Node returns the remote node. It is the zero NodeIdentity for local targets.
func (t NetTarget) Node() NodeIdentity {
	return t.node
}

// Resolve returns the node the target designates given the local node
func (t NetTarget) Resolve(self NodeIdentity) NodeIdentity {
	if t.remote {
		return t.node
	}
	return self
}

// String returns "local" or "remote(<node>)"
func (t NetTarget) String() string {
	if !t.remote {
		return "local"
	}
	return "remote(" + t.node.String() + ")"
}
