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

package routing

import (
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/stage/address"
)

// ClusterView lists the nodes currently part of the cluster
type ClusterView interface {
	// Members returns the current members
	Members(ctx context.Context) ([]address.NodeIdentity, error)
}

// StaticView is a ClusterView with a fixed membership
type StaticView struct {
	members []address.NodeIdentity
}

var _ ClusterView = (*StaticView)(nil)

// NewStaticView creates a StaticView
func NewStaticView(members ...address.NodeIdentity) *StaticView {
	return &StaticView{members: sortNodes(members)}
}

// Members implements ClusterView
func (v *StaticView) Members(context.Context) ([]address.NodeIdentity, error) {
	return append([]address.NodeIdentity(nil), v.members...), nil
}

// MutableView is a ClusterView whose membership changes as nodes join and leave
type MutableView struct {
	members mapset.Set[address.NodeIdentity]
}

var _ ClusterView = (*MutableView)(nil)

// NewMutableView creates a MutableView
func NewMutableView(members ...address.NodeIdentity) *MutableView {
	return &MutableView{members: mapset.NewSet(members...)}
}

// Add adds a node. It returns false when the node was already a member.
func (v *MutableView) Add(node address.NodeIdentity) bool {
	return v.members.Add(node)
}

// Remove removes a node
func (v *MutableView) Remove(node address.NodeIdentity) {
	v.members.Remove(node)
}

// Contains reports whether the node is a member
func (v *MutableView) Contains(node address.NodeIdentity) bool {
	return v.members.Contains(node)
}

// Members implements ClusterView. Members are ordered by node id.
func (v *MutableView) Members(context.Context) ([]address.NodeIdentity, error) {
	return sortNodes(v.members.ToSlice()), nil
}

func sortNodes(nodes []address.NodeIdentity) []address.NodeIdentity {
	out := append([]address.NodeIdentity(nil), nodes...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
