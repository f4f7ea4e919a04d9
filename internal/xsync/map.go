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

// Package xsync holds the concurrent collections shared by the stage packages
package xsync

import (
	"sync"
)

// Map is a map guarded by a read-write mutex
type Map[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// NewMap creates an empty Map
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{data: make(map[K]V)}
}

// Set stores v under k, replacing any previous value
func (m *Map[K, V]) Set(k K, v V) {
	m.mu.Lock()
	m.data[k] = v
	m.mu.Unlock()
}

// Get returns the value stored under k
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[k]
	return v, ok
}

// SetIfAbsent stores v unless k is present. It returns the value held after
// the call and whether v was stored.
func (m *Map[K, V]) SetIfAbsent(k K, v V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.data[k]; ok {
		return current, false
	}
	m.data[k] = v
	return v, true
}

// Delete removes k
func (m *Map[K, V]) Delete(k K) {
	m.mu.Lock()
	delete(m.data, k)
	m.mu.Unlock()
}

// Pop removes k and returns the value it held
func (m *Map[K, V]) Pop(k K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	delete(m.data, k)
	return v, ok
}

// Contains reports whether k is present
func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Range calls fn for every entry, in no particular order.
// fn must not modify the map.
func (m *Map[K, V]) Range(fn func(K, V)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.data {
		fn(k, v)
	}
}

// Keys returns a snapshot of the keys
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(k K, _ V) { keys = append(keys, k) })
	return keys
}

// Values returns a snapshot of the values
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	m.Range(func(_ K, v V) { values = append(values, v) })
	return values
}

// Reset removes every entry
func (m *Map[K, V]) Reset() {
	m.mu.Lock()
	clear(m.data)
	m.mu.Unlock()
}
