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

// Package stage hosts virtual actors and routes invocations to them.
//
// A Stage owns the dependency-injection container that builds actor
// implementations, the resolver that decides which node hosts an activation,
// the correlation table that pairs responses with their requests and the
// transport frames travel on. Callers obtain a Reference for an actor type
// and a key, then invoke methods on it; the activation is created on first
// use wherever the resolver places it.
//
//	cfg, _ := config.New("greeter")
//	st, _ := stage.New(cfg)
//	_ = st.Register(greeterDescriptor, "app.Greeter", di.NewConstructor(newGreeter))
//	_ = st.Start(ctx)
//	ref, _ := st.Reference("Greeter", key.String("alice"))
//	value, err := ref.Invoke(ctx, "Greet", wrapperspb.String("Hello")).Await(ctx)
package stage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/config"
	"github.com/tochemey/stage/descriptor"
	"github.com/tochemey/stage/di"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/codec"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/internal/correlation"
	enginemetric "github.com/tochemey/stage/internal/metric"
	"github.com/tochemey/stage/internal/xsync"
	"github.com/tochemey/stage/key"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/message"
	"github.com/tochemey/stage/routing"
	"github.com/tochemey/stage/transport"
	"github.com/tochemey/stage/transport/local"
	natstransport "github.com/tochemey/stage/transport/nats"
)

const (
	// TypeID is the identifier under which a Stage registers itself in its
	// container, which lets actor constructors depend on the stage
	TypeID di.TypeID = "stage.Stage"

	activationScope = "activations"
	// maxActivationAttempts bounds the retries of an activation racing with its deactivation
	maxActivationAttempts = 3
)

// registration binds an actor type to the concrete type implementing it
type registration struct {
	actor    *descriptor.ActorDescriptor
	concrete di.TypeID
}

// Stage is a node of the virtual actor runtime
type Stage struct {
	config *config.Config
	self   address.NodeIdentity

	container *di.Container
	scope     *di.Scope

	transport     transport.Transport
	view          routing.ClusterView
	directory     routing.Directory
	strategy      routing.Strategy
	resolver      *routing.Resolver
	codec         message.Codec
	table         *correlation.Table
	metric        *enginemetric.EngineMetric
	meterProvider metric.MeterProvider
	logger        log.Logger

	actors      *xsync.Map[string, *registration]
	activations *xsync.Map[routing.ActivationID, *activation]

	mu      sync.Mutex
	started *atomic.Bool
	stopped *atomic.Bool
}

// New creates a Stage from its configuration
func New(cfg *config.Config, opts ...Option) (*Stage, error) {
	if cfg == nil {
		return nil, gerrors.ErrNameRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stage configuration: %w", err)
	}

	x := &Stage{
		config:      cfg,
		self:        cfg.Node,
		actors:      xsync.NewMap[string, *registration](),
		activations: xsync.NewMap[routing.ActivationID, *activation](),
		started:     atomic.NewBool(false),
		stopped:     atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(x)
	}

	if x.logger == nil {
		x.logger = log.NewZap(cfg.LogLevel, os.Stdout)
	}

	if x.transport == nil {
		x.transport = x.defaultTransport()
	}

	if x.view == nil {
		if view, ok := x.transport.(routing.ClusterView); ok {
			x.view = view
		} else {
			x.view = routing.NewMutableView()
		}
	}

	if x.directory == nil {
		x.directory = routing.NewMemoryDirectory()
	}

	if x.codec == nil {
		compressor, err := compression.New(cfg.Compression)
		if err != nil {
			return nil, err
		}
		x.codec = codec.New(codec.WithCompression(compressor))
	}

	resolverOpts := []routing.Option{routing.WithLogger(x.logger)}
	if x.strategy != nil {
		resolverOpts = append(resolverOpts, routing.WithStrategy(x.strategy))
	}
	x.resolver = routing.NewResolver(x.self, x.view, x.directory, resolverOpts...)

	x.container = di.New(di.WithLogger(x.logger))
	x.container.RegisterInstance(TypeID, x)
	x.scope = x.container.Scope(activationScope)

	x.table = correlation.New(cfg.DefaultTimeout,
		correlation.WithLogger(x.logger),
		correlation.WithTimeoutHook(func(int64) {
			x.metric.RequestTimeout(context.Background())
		}))

	engineMetric, err := enginemetric.NewEngineMetric(x.meterProvider, func() int64 {
		return int64(x.table.Len())
	})
	if err != nil {
		return nil, err
	}
	x.metric = engineMetric
	return x, nil
}

// Name returns the stage name
func (x *Stage) Name() string {
	return x.config.Name
}

// Self returns the identity of the local node
func (x *Stage) Self() address.NodeIdentity {
	return x.self
}

// Container returns the dependency-injection container of the stage
func (x *Stage) Container() *di.Container {
	return x.container
}

// Register declares an actor type. concrete names the type implementing it
// in the container; constructors, when given, are registered for it. The
// implementation of each activation is constructed through the container so
// its dependencies resolve as singletons.
func (x *Stage) Register(actor *descriptor.ActorDescriptor, concrete di.TypeID, constructors ...di.Constructor) error {
	if actor == nil {
		return fmt.Errorf("%w: nil descriptor", gerrors.ErrActorNotRegistered)
	}

	if err := actor.Validate(); err != nil {
		return fmt.Errorf("invalid actor (%s): %w", actor.Name, err)
	}

	if len(constructors) > 0 {
		x.container.RegisterConcrete(concrete, constructors...)
	}

	x.actors.Set(actor.Name, &registration{actor: actor, concrete: concrete})
	x.logger.Debugf("actor (%s) registered with implementation (%s)", actor.Name, concrete)
	return nil
}

// Start binds the transport to the local node and joins the cluster view
func (x *Stage) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.stopped.Load() {
		return gerrors.ErrStageStopped
	}

	if x.started.Load() {
		return nil
	}

	if err := x.transport.Start(ctx, x.self, x.receive); err != nil {
		return fmt.Errorf("failed to start stage (%s): %w", x.Name(), err)
	}

	if view, ok := x.view.(*routing.MutableView); ok {
		view.Add(x.self)
	}

	x.started.Store(true)
	x.logger.Infof("stage (%s) started on (%s)", x.Name(), x.self)
	return nil
}

// Stop deactivates every local activation, fails the pending requests with
// ErrStageStopped and releases the transport. A stopped stage cannot restart.
func (x *Stage) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil
	}

	x.started.Store(false)
	x.stopped.Store(true)

	if view, ok := x.view.(*routing.MutableView); ok {
		view.Remove(x.self)
	}

	x.table.Close(gerrors.ErrStageStopped)

	var err error
	for _, id := range x.Activations() {
		err = multierr.Append(err, x.deactivate(ctx, id))
	}
	x.container.Reset()

	err = multierr.Combine(err,
		x.directory.RemoveNode(ctx, x.self),
		x.transport.Stop(ctx),
		x.metric.Close())

	if err != nil {
		x.logger.Errorf("stage (%s) stopped with errors: %v", x.Name(), err)
		return err
	}

	x.logger.Infof("stage (%s) stopped", x.Name())
	return nil
}

// Reference returns a handle on the activation of actorType identified by k.
// The key must match the key kind the actor type declares.
func (x *Stage) Reference(actorType string, k key.Key) (*Reference, error) {
	reg, ok := x.actors.Get(actorType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrActorNotRegistered, actorType)
	}

	if err := k.MatchKind(reg.actor.KeyKind); err != nil {
		return nil, err
	}

	return &Reference{stage: x, registration: reg, key: k}, nil
}

// Activations returns the identifiers of the activations hosted by this
// node, ordered by their string form
func (x *Stage) Activations() []routing.ActivationID {
	ids := x.activations.Keys()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Deactivate removes a local activation and its placement. The next call to
// the same actor creates a fresh activation. Deactivating an activation that
// is not hosted here is a no-op.
func (x *Stage) Deactivate(ctx context.Context, actorType string, k key.Key) error {
	return x.deactivate(ctx, routing.ActivationID{ActorType: actorType, Key: k})
}

func (x *Stage) deactivate(ctx context.Context, id routing.ActivationID) error {
	act, ok := x.activations.Pop(id)
	if !ok {
		return nil
	}

	x.scope.Remove(id.Encode())
	return multierr.Combine(
		act.deactivate(ctx),
		x.resolver.Forget(ctx, id))
}

// activate returns the live activation of id, creating it on first use.
// Concurrent first calls construct a single instance.
func (x *Stage) activate(ctx context.Context, reg *registration, id routing.ActivationID) (*activation, error) {
	for range maxActivationAttempts {
		if act, ok := x.activations.Get(id); ok {
			return act, nil
		}

		_, err := x.scope.GetOrConstruct(id.Encode(), reg.concrete, func(instance any) error {
			act := newActivation(id, reg.actor, instance, x.logger)
			if err := act.activate(ctx); err != nil {
				return err
			}
			x.activations.Set(id, act)
			return nil
		})
		if err != nil {
			return nil, err
		}

		if act, ok := x.activations.Get(id); ok {
			return act, nil
		}
	}
	return nil, errors.New("activation (" + id.String() + ") was deactivated while activating")
}

func (x *Stage) defaultTransport() transport.Transport {
	if x.config.NATS != nil {
		return natstransport.New(natstransport.Config{
			URL:           x.config.NATS.URL,
			SubjectPrefix: x.config.NATS.SubjectPrefix,
			Timeout:       x.config.NATS.Timeout,
		}, natstransport.WithLogger(x.logger))
	}
	return local.NewHub().Transport()
}
