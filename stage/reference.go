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
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/key"
	"github.com/tochemey/stage/message"
)

// Reference is a location-transparent handle on an actor activation.
// It is cheap to create and safe for concurrent use.
type Reference struct {
	stage        *Stage
	registration *registration
	key          key.Key
}

// ActorType returns the actor type the reference addresses
func (r *Reference) ActorType() string {
	return r.registration.actor.Name
}

// Key returns the key of the addressed activation
func (r *Reference) Key() key.Key {
	return r.key
}

// String returns actorType(key)
func (r *Reference) String() string {
	return fmt.Sprintf("%s(%s)", r.ActorType(), r.key)
}

// Invoke calls a method of the activation. The returned Completion is
// resolved with the method result, its failure or a TimeoutError once the
// stage default timeout elapses.
func (r *Reference) Invoke(ctx context.Context, method string, args ...proto.Message) *future.Completion {
	return r.InvokeWithTimeout(ctx, 0, method, args...)
}

// InvokeWithTimeout is Invoke with a deadline of its own. A zero timeout
// uses the stage default.
func (r *Reference) InvokeWithTimeout(ctx context.Context, timeout time.Duration, method string, args ...proto.Message) *future.Completion {
	invocation, err := r.invocation(method, args)
	if err != nil {
		return future.Failed(err)
	}
	return r.stage.invoke(ctx, r.registration, invocation, timeout)
}

// Tell calls a method of the activation without waiting for its outcome
func (r *Reference) Tell(ctx context.Context, method string, args ...proto.Message) error {
	invocation, err := r.invocation(method, args)
	if err != nil {
		return err
	}
	return r.stage.tell(ctx, r.registration, invocation)
}

func (r *Reference) invocation(method string, args []proto.Message) (*message.Invocation, error) {
	descriptor, err := r.registration.actor.Method(method)
	if err != nil {
		return nil, err
	}

	return &message.Invocation{
		ActorType:   r.ActorType(),
		Key:         r.key,
		Method:      descriptor.Name,
		MethodIndex: descriptor.Index,
		Args:        args,
	}, nil
}

// Ask invokes a method and waits for its result typed as T
func Ask[T proto.Message](ctx context.Context, ref *Reference, method string, args ...proto.Message) (T, error) {
	var zero T
	value, err := ref.Invoke(ctx, method, args...).Await(ctx)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s returned %T", ref, method, value)
	}
	return typed, nil
}
