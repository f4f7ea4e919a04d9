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

// Package routing decides which node hosts the activation of an addressable.
//
// The Resolver consults a Directory of existing placements first so an
// activation stays where it was created. Unplaced activations are assigned
// by a Strategy over the members of a ClusterView and the decision is
// claimed in the Directory; when two nodes race for the same activation the
// first claim wins and both observe the same owner.
package routing

import (
	"strconv"

	"github.com/tochemey/stage/key"
)

// ActivationID names one activation: an actor type and a key
type ActivationID struct {
	ActorType string
	Key       key.Key
}

// String returns actorType/key
func (id ActivationID) String() string {
	return id.ActorType + "/" + id.Key.String()
}

// Encode returns a textual form that is distinct for every distinct
// ActivationID. The actor type is length-prefixed because actor type names
// and string keys may both contain the separator.
func (id ActivationID) Encode() string {
	return strconv.Itoa(len(id.ActorType)) + ":" + id.ActorType + "/" + id.Key.String()
}
