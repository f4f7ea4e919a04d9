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
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/message"
	"github.com/tochemey/stage/routing"
)

// invoke routes a two-way invocation and returns the Completion of its outcome.
// Routing and send failures fail the Completion.
func (x *Stage) invoke(ctx context.Context, reg *registration, invocation *message.Invocation, timeout time.Duration) *future.Completion {
	if !x.started.Load() {
		return future.Failed(gerrors.ErrStageNotStarted)
	}

	target, err := x.resolver.Resolve(ctx, reg.actor, invocation.Key)
	if err != nil {
		return future.Failed(err)
	}

	id, completion := x.table.Register(timeout)
	if id == 0 {
		return completion
	}

	if target.IsLocal() && x.config.AllowLoopback {
		x.dispatch(ctx, invocation.Clone(), func(value proto.Message, err error) {
			if err != nil {
				x.table.Resolve(id, nil, remoteError(err))
				return
			}
			x.table.Resolve(id, clone(value), nil)
		})
		return completion
	}

	request := message.NewRequest(invocation, id)
	if err := x.send(ctx, target, request); err != nil {
		x.table.Resolve(id, nil, err)
		return completion
	}

	x.metric.RequestSent(ctx)
	return completion
}

// tell routes a one-way invocation. Only routing and send failures are reported.
func (x *Stage) tell(ctx context.Context, reg *registration, invocation *message.Invocation) error {
	if !x.started.Load() {
		return gerrors.ErrStageNotStarted
	}

	target, err := x.resolver.Resolve(ctx, reg.actor, invocation.Key)
	if err != nil {
		return err
	}

	if target.IsLocal() && x.config.AllowLoopback {
		x.dispatch(context.WithoutCancel(ctx), invocation.Clone(), x.discard(invocation))
		return nil
	}

	return x.send(ctx, target, message.NewRequest(invocation, 0))
}

// send encodes the message and delivers it to the target node
func (x *Stage) send(ctx context.Context, target address.NetTarget, msg *message.Message) error {
	msg.Source = x.self
	msg.Target = target

	frame, err := x.codec.Encode(msg)
	if err != nil {
		return err
	}

	// frames for the local node are handled in place, which keeps the order
	// of calls into a Safe activation
	node := target.Resolve(x.self)
	if node.Equal(x.self) {
		x.receive(ctx, frame)
		return nil
	}

	if err := x.transport.Send(ctx, node, frame); err != nil {
		return fmt.Errorf("failed to send (%s) to (%s): %w", msg, node, err)
	}
	return nil
}

// receive handles an inbound frame: requests are dispatched to local
// activations and answered when they carry an id, responses complete the
// pending request they correlate with.
func (x *Stage) receive(ctx context.Context, frame []byte) {
	msg, err := x.codec.Decode(frame)
	if err != nil {
		x.logger.Warnf("dropping inbound frame: %v", err)
		return
	}

	ctx = context.WithoutCancel(ctx)
	switch content := msg.Content.(type) {
	case *message.RequestInvocation:
		if !msg.HasID() {
			x.dispatch(ctx, content.Invocation, x.discard(content.Invocation))
			return
		}

		x.dispatch(ctx, content.Invocation, func(value proto.Message, err error) {
			if err := x.send(ctx, address.Remote(msg.Source), msg.Reply(x.self, toResponse(value, err))); err != nil {
				x.logger.Warnf("failed to answer (%s): %v", msg, err)
			}
		})

	case *message.ResponseNormal:
		x.complete(ctx, msg.ID(), content.Value, nil)

	case *message.ResponseError:
		x.complete(ctx, msg.ID(), nil, gerrors.NewRemoteInvocationError(content.Kind, content.Message))
	}
}

// complete resolves the pending request of a response. Responses without a
// pending request are orphans: logged and counted, never fatal.
func (x *Stage) complete(ctx context.Context, id int64, value proto.Message, err error) {
	x.metric.ResponseReceived(ctx)
	if x.table.Resolve(id, value, err) {
		return
	}

	x.metric.OrphanResponse(ctx)
	x.logger.Warnf("%v: message (%d) has no pending request", gerrors.ErrOrphanResponse, id)
}

// dispatch runs an invocation on the local activation it addresses, creating
// the activation on first use. done receives the outcome exactly once.
func (x *Stage) dispatch(ctx context.Context, invocation *message.Invocation, done reply) {
	reg, ok := x.actors.Get(invocation.ActorType)
	if !ok {
		done(nil, fmt.Errorf("%w: %s", gerrors.ErrActorNotRegistered, invocation.ActorType))
		return
	}

	if err := invocation.Key.MatchKind(reg.actor.KeyKind); err != nil {
		done(nil, err)
		return
	}

	method, err := reg.actor.Method(invocation.Method)
	if err != nil && invocation.Method == "" {
		method, err = reg.actor.MethodByIndex(invocation.MethodIndex)
	}
	if err != nil {
		done(nil, err)
		return
	}

	id := routing.ActivationID{ActorType: invocation.ActorType, Key: invocation.Key}
	act, err := x.activate(ctx, reg, id)
	if err != nil {
		done(nil, err)
		return
	}

	act.submit(ctx, method, invocation.Args, done)
}

// discard is the outcome handler of one-way invocations
func (x *Stage) discard(invocation *message.Invocation) reply {
	return func(_ proto.Message, err error) {
		if err != nil {
			x.logger.Warnf("one-way invocation (%s) failed: %v", invocation, err)
		}
	}
}

// toResponse turns the outcome of an invocation into response content
func toResponse(value proto.Message, err error) message.Content {
	if err == nil {
		return &message.ResponseNormal{Value: value}
	}

	remote := remoteError(err)
	return &message.ResponseError{Kind: remote.Kind, Message: remote.Message}
}

// remoteError is the form in which a failed invocation reaches its caller,
// whether or not the call crossed the codec
func remoteError(err error) *gerrors.RemoteInvocationError {
	var remote *gerrors.RemoteInvocationError
	if errors.As(err, &remote) {
		return remote
	}
	return gerrors.NewRemoteInvocationError(fmt.Sprintf("%T", err), err.Error())
}

func clone(value proto.Message) proto.Message {
	if value == nil {
		return nil
	}
	return proto.Clone(value)
}
