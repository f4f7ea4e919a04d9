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

// Package future provides Completion, the single-assignment future that
// carries the outcome of an invocation back to its caller.
//
// A Completion is resolved exactly once, either with a proto.Message value or
// with an error. Every later attempt to resolve it is a no-op that reports
// false, which makes normal resolution, failure, cancellation and timeout
// mutually exclusive: whichever happens first wins.
//
// Callers wait for the outcome with Await, which parks only the calling
// goroutine:
//
//	completion := ref.Invoke(ctx, "EchoString", wrapperspb.String("Hello"))
//	value, err := completion.Await(ctx)
package future

import (
	"context"
	"sync"

	"google.golang.org/protobuf/proto"

	gerrors "github.com/tochemey/stage/errors"
)

// Callback is invoked once with the outcome of a Completion
type Callback func(value proto.Message, err error)

// Completion is a single-assignment container for the outcome of an
// asynchronous computation.
type Completion struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	value     proto.Message
	err       error
	callbacks []Callback
}

// NewCompletion creates an unresolved Completion
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Completed returns a Completion already resolved with the given value
func Completed(value proto.Message) *Completion {
	completion := NewCompletion()
	completion.Complete(value)
	return completion
}

// Failed returns a Completion already failed with the given error
func Failed(err error) *Completion {
	completion := NewCompletion()
	completion.Fail(err)
	return completion
}

// New runs the given task in a separate goroutine and returns the
// Completion that receives its outcome.
func New(task func() (proto.Message, error)) *Completion {
	completion := NewCompletion()
	go func() {
		value, err := task()
		if err != nil {
			completion.Fail(err)
			return
		}
		completion.Complete(value)
	}()
	return completion
}

// Complete resolves the Completion with a value.
// It returns false when the Completion was already resolved.
func (c *Completion) Complete(value proto.Message) bool {
	return c.resolve(value, nil)
}

// Fail resolves the Completion with an error.
// It returns false when the Completion was already resolved.
func (c *Completion) Fail(err error) bool {
	return c.resolve(nil, err)
}

// Cancel fails the Completion with ErrCanceled.
// Cancellation is local: it does not stop work already running on a remote node.
func (c *Completion) Cancel() bool {
	return c.resolve(nil, gerrors.ErrCanceled)
}

// Await blocks the calling goroutine until the Completion is resolved or the
// context is done. A done context does not resolve the Completion.
func (c *Completion) Await(ctx context.Context) (proto.Message, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		// prefer the outcome when both are ready
		select {
		case <-c.done:
			return c.value, c.err
		default:
			return nil, ctx.Err()
		}
	}
}

// Done returns a channel closed once the Completion is resolved
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// IsDone reports whether the Completion is resolved
func (c *Completion) IsDone() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome when the Completion is resolved
func (c *Completion) Result() (Result, bool) {
	if !c.IsDone() {
		return Result{}, false
	}
	return Result{Value: c.value, Err: c.err}, true
}

// OnComplete registers a callback run once the Completion is resolved.
// When the Completion is already resolved the callback runs immediately on the
// calling goroutine, otherwise it runs on the resolving goroutine.
func (c *Completion) OnComplete(callback Callback) {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		callback(c.value, c.err)
		return
	}
	c.callbacks = append(c.callbacks, callback)
	c.mu.Unlock()
}

func (c *Completion) resolve(value proto.Message, err error) bool {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return false
	}

	c.resolved = true
	c.value = value
	c.err = err
	callbacks := c.callbacks
	c.callbacks = nil
	close(c.done)
	c.mu.Unlock()

	for _, callback := range callbacks {
		callback(value, err)
	}
	return true
}
