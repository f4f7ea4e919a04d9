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
	"sync"

	"github.com/tochemey/stage/address"
)

// Directory records which node owns each activation
type Directory interface {
	// Get returns the owner of the activation
	Get(ctx context.Context, id ActivationID) (address.NodeIdentity, bool, error)
	// PutIfAbsent claims the activation for node unless another node owns it.
	// It returns the owner after the call and whether node won the claim.
	PutIfAbsent(ctx context.Context, id ActivationID, node address.NodeIdentity) (address.NodeIdentity, bool, error)
	// Remove forgets the owner of the activation
	Remove(ctx context.Context, id ActivationID) error
	// RemoveNode forgets every activation owned by node
	RemoveNode(ctx context.Context, node address.NodeIdentity) error
}

// MemoryDirectory is an in-process Directory. Sharing one instance between
// stages of the same process gives them a common view of placements.
type MemoryDirectory struct {
	mu     sync.RWMutex
	owners map[ActivationID]address.NodeIdentity
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates a MemoryDirectory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{owners: make(map[ActivationID]address.NodeIdentity)}
}

// Get implements Directory
func (d *MemoryDirectory) Get(_ context.Context, id ActivationID) (address.NodeIdentity, bool, error) {
	d.mu.RLock()
	owner, ok := d.owners[id]
	d.mu.RUnlock()
	return owner, ok, nil
}

// PutIfAbsent implements Directory
func (d *MemoryDirectory) PutIfAbsent(_ context.Context, id ActivationID, node address.NodeIdentity) (address.NodeIdentity, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if owner, ok := d.owners[id]; ok {
		return owner, false, nil
	}
	d.owners[id] = node
	return node, true, nil
}

// Remove implements Directory
func (d *MemoryDirectory) Remove(_ context.Context, id ActivationID) error {
	d.mu.Lock()
	delete(d.owners, id)
	d.mu.Unlock()
	return nil
}

// RemoveNode implements Directory
func (d *MemoryDirectory) RemoveNode(_ context.Context, node address.NodeIdentity) error {
	d.mu.Lock()
	for id, owner := range d.owners {
		if owner == node {
			delete(d.owners, id)
		}
	}
	d.mu.Unlock()
	return nil
}

// Len returns the number of recorded placements
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.owners)
}
