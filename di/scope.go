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

package di

import (
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/stage/internal/xsync"
)

// Scope holds instances keyed by an arbitrary scope key, such as one
// instance per actor activation. Instances in a scope are constructed
// through the owning container, so their dependencies are container
// singletons.
type Scope struct {
	name      string
	container *Container
	instances *xsync.Map[string, any]
	flights   singleflight.Group
}

func newScope(name string, container *Container) *Scope {
	return &Scope{
		name:      name,
		container: container,
		instances: xsync.NewMap[string, any](),
	}
}

// Name returns the scope name
func (s *Scope) Name() string {
	return s.name
}

// GetOrConstruct returns the instance held under scopeKey, constructing the
// concrete type on first access. Concurrent callers for the same scopeKey
// observe a single construction. The onCreate hooks run on the new instance
// before it becomes visible to other callers; a failing hook discards it.
func (s *Scope) GetOrConstruct(scopeKey string, concrete TypeID, onCreate ...func(instance any) error) (any, error) {
	if instance, ok := s.instances.Get(scopeKey); ok {
		return instance, nil
	}

	instance, err, _ := s.flights.Do(scopeKey, func() (any, error) {
		if instance, ok := s.instances.Get(scopeKey); ok {
			return instance, nil
		}

		instance, err := s.container.Construct(concrete)
		if err != nil {
			return nil, err
		}

		for _, hook := range onCreate {
			if err := hook(instance); err != nil {
				return nil, err
			}
		}

		s.instances.Set(scopeKey, instance)
		s.container.logger.Debugf("scope (%s) materialized (%s) for key=%s", s.name, concrete, scopeKey)
		return instance, nil
	})
	return instance, err
}

// Get returns the instance held under scopeKey
func (s *Scope) Get(scopeKey string) (any, bool) {
	return s.instances.Get(scopeKey)
}

// Remove drops the instance held under scopeKey and returns it
func (s *Scope) Remove(scopeKey string) (any, bool) {
	return s.instances.Pop(scopeKey)
}

// Len returns the number of instances in the scope
func (s *Scope) Len() int {
	return s.instances.Len()
}

// Keys returns the scope keys currently held
func (s *Scope) Keys() []string {
	return s.instances.Keys()
}

// Values returns the instances currently held
func (s *Scope) Values() []any {
	return s.instances.Values()
}

func (s *Scope) reset() {
	s.instances.Reset()
}
