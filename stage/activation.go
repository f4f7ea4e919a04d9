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

package stage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"google.golang.org/protobuf/proto"

	"github.com/tochemey/stage/descriptor"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/routing"
)

// Activator is implemented by actors that need to run code when their
// activation is created. A failing OnActivate aborts the activation and the
// call that triggered it.
type Activator interface {
	OnActivate(ctx context.Context) error
}

// Deactivator is implemented by actors that need to run code when their
// activation is removed from the stage.
type Deactivator interface {
	OnDeactivate(ctx context.Context) error
}

type activationKey struct{}

// ActivationFromContext returns the identity of the activation serving the
// call carried by ctx. It is set on the context handed to actor methods and
// lifecycle hooks.
func ActivationFromContext(ctx context.Context) (routing.ActivationID, bool) {
	id, ok := ctx.Value(activationKey{}).(routing.ActivationID)
	return id, ok
}

func withActivation(ctx context.Context, id routing.ActivationID) context.Context {
	return context.WithValue(ctx, activationKey{}, id)
}

// reply receives the outcome of an invocation executed by an activation
type reply func(value proto.Message, err error)

// task is one invocation queued on an activation
type task struct {
	ctx    context.Context
	method *descriptor.MethodDescriptor
	args   []proto.Message
	done   reply
}

// activation is a live actor instance bound to its ActivationID.
// Safe activations run one invocation at a time in arrival order, drained
// from their mailbox by a single goroutine.
type activation struct {
	id       routing.ActivationID
	actor    *descriptor.ActorDescriptor
	instance any
	logger   log.Logger

	mailbox *queue.Queue
	running sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func newActivation(id routing.ActivationID, actor *descriptor.ActorDescriptor, instance any, logger log.Logger) *activation {
	return &activation{
		id:       id,
		actor:    actor,
		instance: instance,
		logger:   logger,
	}
}

// activate runs the OnActivate hook then starts the mailbox of Safe actors
func (x *activation) activate(ctx context.Context) error {
	if activator, ok := x.instance.(Activator); ok {
		if err := x.guard(func() error { return activator.OnActivate(withActivation(ctx, x.id)) }); err != nil {
			return fmt.Errorf("failed to activate (%s): %w", x.id, err)
		}
	}

	if x.actor.Execution == descriptor.Safe {
		x.mailbox = queue.New(16)
		x.running.Add(1)
		go x.drain()
	}

	x.logger.Debugf("activation (%s) is live", x.id)
	return nil
}

// submit schedules an invocation on the activation
func (x *activation) submit(ctx context.Context, method *descriptor.MethodDescriptor, args []proto.Message, done reply) {
	t := &task{ctx: ctx, method: method, args: args, done: done}
	if x.mailbox == nil {
		x.mu.Lock()
		if x.closed {
			x.mu.Unlock()
			done(nil, fmt.Errorf("activation (%s) is deactivated: %w", x.id, gerrors.ErrStageStopped))
			return
		}
		x.running.Add(1)
		x.mu.Unlock()

		go func() {
			defer x.running.Done()
			x.run(t)
		}()
		return
	}

	if err := x.mailbox.Put(t); err != nil {
		done(nil, fmt.Errorf("activation (%s) is deactivated: %w", x.id, gerrors.ErrStageStopped))
	}
}

// drain processes the mailbox until it is disposed
func (x *activation) drain() {
	defer x.running.Done()
	for {
		items, err := x.mailbox.Get(1)
		if err != nil {
			return
		}
		for _, item := range items {
			x.run(item.(*task))
		}
	}
}

// run executes a task. A panic raised by the method fails the task.
func (x *activation) run(t *task) {
	var value proto.Message
	err := x.guard(func() error {
		var err error
		value, err = t.method.Invoke(withActivation(t.ctx, x.id), x.instance, t.args)
		return err
	})
	t.done(value, err)
}

// guard runs fn and turns a panic into a RemoteInvocationError
func (x *activation) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Errorf("activation (%s) panicked: %v", x.id, r)
			err = gerrors.NewRemoteInvocationError("panic", fmt.Sprintf("%v", r))
		}
	}()
	return fn()
}

// deactivate stops the mailbox, fails what is still queued, waits for the
// running invocations then runs the OnDeactivate hook
func (x *activation) deactivate(ctx context.Context) error {
	x.mu.Lock()
	x.closed = true
	x.mu.Unlock()

	if x.mailbox != nil {
		for _, item := range x.mailbox.Dispose() {
			item.(*task).done(nil, fmt.Errorf("activation (%s) is deactivated: %w", x.id, gerrors.ErrStageStopped))
		}
	}
	x.running.Wait()

	if deactivator, ok := x.instance.(Deactivator); ok {
		if err := x.guard(func() error { return deactivator.OnDeactivate(withActivation(ctx, x.id)) }); err != nil {
			return fmt.Errorf("failed to deactivate (%s): %w", x.id, err)
		}
	}

	x.logger.Debugf("activation (%s) is deactivated", x.id)
	return nil
}
