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

// Package di implements the dependency-injection container of a stage.
//
// Components are registered with explicit type identifiers and explicit
// factories: a concrete type declares its constructor together with the
// types it depends on, and the container resolves that graph without any
// runtime introspection.
//
// Singletons are materialized lazily on first Resolve and cached for the
// lifetime of the container. Concurrent first access to the same interface
// type executes its factory once; every caller observes the same instance.
// Dependency cycles are detected before any factory runs and reported as a
// CyclicDependencyError.
//
// Registration is expected to happen during single-threaded setup. Resolution
// is safe for concurrent use.
package di

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/xsync"
	"github.com/tochemey/stage/log"
)

// Container resolves and constructs components by type identifier
type Container struct {
	mu           sync.RWMutex
	definitions  map[TypeID]Definition
	constructors map[TypeID][]Constructor

	instances *xsync.Map[TypeID, any]
	scopes    *xsync.Map[string, *Scope]
	flights   singleflight.Group
	logger    log.Logger
}

// New creates a Container. The container registers itself under ContainerTypeID.
func New(opts ...Option) *Container {
	container := &Container{
		definitions:  make(map[TypeID]Definition),
		constructors: make(map[TypeID][]Constructor),
		instances:    xsync.NewMap[TypeID, any](),
		scopes:       xsync.NewMap[string, *Scope](),
		logger:       log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(container)
	}

	container.RegisterInstance(ContainerTypeID, container)
	return container
}

// RegisterConcrete declares the constructors of a concrete type.
// A concrete type must end up with exactly one constructor to be constructible.
func (c *Container) RegisterConcrete(concrete TypeID, constructors ...Constructor) {
	c.mu.Lock()
	c.constructors[concrete] = append(c.constructors[concrete], constructors...)
	c.mu.Unlock()
}

// RegisterDefinition binds an interface type to a concrete type.
// Registering the same interface twice keeps the last definition.
func (c *Container) RegisterDefinition(iface, concrete TypeID) {
	c.mu.Lock()
	c.definitions[iface] = Definition{Interface: iface, Concrete: concrete}
	c.mu.Unlock()
}

// Register declares a type that is its own interface with a single constructor
func (c *Container) Register(id TypeID, constructor Constructor) {
	c.mu.Lock()
	c.constructors[id] = []Constructor{constructor}
	c.definitions[id] = Definition{Interface: id, Concrete: id}
	c.mu.Unlock()
}

// RegisterInstance defines the interface type and seeds the instance cache with a ready object
func (c *Container) RegisterInstance(iface TypeID, instance any) {
	c.mu.Lock()
	c.definitions[iface] = Definition{Interface: iface, Concrete: iface}
	c.mu.Unlock()
	c.instances.Set(iface, instance)
}

// Definition returns the definition registered for the interface type
func (c *Container) Definition(iface TypeID) (Definition, bool) {
	c.mu.RLock()
	definition, ok := c.definitions[iface]
	c.mu.RUnlock()
	return definition, ok
}

// Resolve returns the singleton bound to the interface type, constructing it
// and its dependencies on first use.
//
// It fails with MissingDefinitionError when a type in the graph has no
// definition, AmbiguousConstructorError when a concrete type does not declare
// exactly one constructor and CyclicDependencyError when the graph loops.
func (c *Container) Resolve(iface TypeID) (any, error) {
	if instance, ok := c.instances.Get(iface); ok {
		return instance, nil
	}

	if err := c.checkGraph(nil, iface); err != nil {
		return nil, err
	}

	return c.resolve(iface)
}

// Construct builds a new instance of the concrete type, ignoring the instance cache.
// Dependencies are still resolved as cached singletons.
func (c *Container) Construct(concrete TypeID) (any, error) {
	constructor, err := c.constructor(concrete)
	if err != nil {
		return nil, err
	}

	if err := c.checkGraph([]TypeID{concrete}, constructor.Dependencies...); err != nil {
		return nil, err
	}

	return c.build(concrete, constructor)
}

// FindInstances returns the materialized singletons accepted by the predicate.
// It never triggers construction. Results are ordered by type identifier.
func (c *Container) FindInstances(predicate func(instance any) bool) []any {
	ids := c.instances.Keys()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	found := make([]any, 0, len(ids))
	for _, id := range ids {
		instance, ok := c.instances.Get(id)
		if ok && predicate(instance) {
			found = append(found, instance)
		}
	}
	return found
}

// IsMaterialized reports whether the interface type has a cached instance
func (c *Container) IsMaterialized(iface TypeID) bool {
	return c.instances.Contains(iface)
}

// Scope returns the keyed scope with the given name, creating it on first use
func (c *Container) Scope(name string) *Scope {
	if scope, ok := c.scopes.Get(name); ok {
		return scope
	}
	scope, _ := c.scopes.SetIfAbsent(name, newScope(name, c))
	return scope
}

// Reset clears the instance cache and every scope. Definitions are kept.
// The container itself stays registered.
func (c *Container) Reset() {
	c.scopes.Range(func(_ string, scope *Scope) {
		scope.reset()
	})
	c.instances.Reset()
	c.instances.Set(ContainerTypeID, c)
}

// String returns a debug view of definitions and instances
func (c *Container) String() string {
	c.mu.RLock()
	definitions := make([]string, 0, len(c.definitions))
	for _, definition := range c.definitions {
		definitions = append(definitions, fmt.Sprintf("%s -> %s", definition.Interface, definition.Concrete))
	}
	c.mu.RUnlock()
	sort.Strings(definitions)

	instances := make([]string, 0, c.instances.Len())
	c.instances.Range(func(id TypeID, instance any) {
		instances = append(instances, fmt.Sprintf("%s -> %T@%p", id, instance, instance))
	})
	sort.Strings(instances)

	return fmt.Sprintf("definitions[%s] instances[%s]",
		strings.Join(definitions, ", "),
		strings.Join(instances, ", "))
}

// resolve performs the atomic get-or-construct of an interface type.
// The graph rooted at iface must have been checked.
func (c *Container) resolve(iface TypeID) (any, error) {
	if instance, ok := c.instances.Get(iface); ok {
		return instance, nil
	}

	instance, err, _ := c.flights.Do(iface.String(), func() (any, error) {
		// a flight that completed between the cache miss and Do has stored the instance
		if instance, ok := c.instances.Get(iface); ok {
			return instance, nil
		}

		definition, ok := c.Definition(iface)
		if !ok {
			return nil, gerrors.NewMissingDefinitionError(iface.String())
		}

		constructor, err := c.constructor(definition.Concrete)
		if err != nil {
			return nil, err
		}

		instance, err := c.build(definition.Concrete, constructor)
		if err != nil {
			return nil, err
		}

		c.instances.Set(iface, instance)
		c.logger.Debugf("component (%s) materialized from (%s)", iface, definition.Concrete)
		return instance, nil
	})
	return instance, err
}

// build resolves the constructor dependencies in order then invokes it
func (c *Container) build(concrete TypeID, constructor Constructor) (any, error) {
	args := make([]any, len(constructor.Dependencies))
	for index, dependency := range constructor.Dependencies {
		arg, err := c.resolve(dependency)
		if err != nil {
			return nil, err
		}
		args[index] = arg
	}

	instance, err := constructor.New(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to construct (%s): %w", concrete, err)
	}

	if instance == nil {
		return nil, fmt.Errorf("failed to construct (%s): constructor returned nil", concrete)
	}
	return instance, nil
}

// constructor returns the single constructor of a concrete type
func (c *Container) constructor(concrete TypeID) (Constructor, error) {
	c.mu.RLock()
	constructors := c.constructors[concrete]
	c.mu.RUnlock()

	if len(constructors) != 1 {
		return Constructor{}, gerrors.NewAmbiguousConstructorError(concrete.String(), len(constructors))
	}

	constructor := constructors[0]
	if constructor.New == nil {
		return Constructor{}, gerrors.NewAmbiguousConstructorError(concrete.String(), 0)
	}
	return constructor, nil
}

// checkGraph walks the dependency graph of the given roots, depth first, and
// reports the first missing definition, ambiguous constructor or cycle.
// Materialized instances are leaves: their dependencies are never walked.
// prefix seeds the in-progress path.
func (c *Container) checkGraph(prefix []TypeID, roots ...TypeID) error {
	var (
		path     = append([]TypeID(nil), prefix...)
		visiting = make(map[TypeID]struct{}, len(prefix))
		visited  = make(map[TypeID]struct{})
	)

	for _, id := range prefix {
		visiting[id] = struct{}{}
	}

	var visit func(id TypeID) error
	visit = func(id TypeID) error {
		if _, ok := visiting[id]; ok {
			return gerrors.NewCyclicDependencyError(cyclePath(path, id))
		}

		if _, ok := visited[id]; ok {
			return nil
		}

		if c.instances.Contains(id) {
			visited[id] = struct{}{}
			return nil
		}

		definition, ok := c.Definition(id)
		if !ok {
			return gerrors.NewMissingDefinitionError(id.String())
		}

		constructor, err := c.constructor(definition.Concrete)
		if err != nil {
			return err
		}

		visiting[id] = struct{}{}
		path = append(path, id)
		for _, dependency := range constructor.Dependencies {
			if err := visit(dependency); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(visiting, id)
		visited[id] = struct{}{}
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return err
		}
	}
	return nil
}

// cyclePath returns the portion of path that starts at id, closed by id
func cyclePath(path []TypeID, id TypeID) []string {
	start := 0
	for index, element := range path {
		if element == id {
			start = index
			break
		}
	}

	out := make([]string, 0, len(path)-start+1)
	for _, element := range path[start:] {
		out = append(out, element.String())
	}
	return append(out, id.String())
}
