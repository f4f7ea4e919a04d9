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

// Package correlation pairs outbound requests with their responses.
//
// Every request that expects an answer is registered in a Table, which hands
// out a message id and the Completion the caller awaits. The Table guarantees
// that each id is resolved at most once: by its response, by its deadline,
// by cancellation or by Close, whichever comes first. The entry is removed
// as part of that resolution so the table never retains finished requests.
package correlation

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"google.golang.org/protobuf/proto"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/internal/xsync"
	"github.com/tochemey/stage/log"
)

type entry struct {
	completion *future.Completion

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// arm starts the deadline unless the entry already left the table
func (e *entry) arm(after time.Duration, fire func()) {
	e.mu.Lock()
	if !e.stopped {
		e.timer = time.AfterFunc(after, fire)
	}
	e.mu.Unlock()
}

func (e *entry) stop() {
	e.mu.Lock()
	e.stopped = true
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()
}

// Table maps message ids to the completions awaiting them
type Table struct {
	counter        *atomic.Int64
	pending        *xsync.Map[int64, *entry]
	defaultTimeout time.Duration
	closed         *atomic.Bool
	logger         log.Logger
	onTimeout      func(id int64)
}

// New creates a Table. defaultTimeout applies to registrations without a
// timeout of their own; zero disables the default deadline.
func New(defaultTimeout time.Duration, opts ...Option) *Table {
	table := &Table{
		counter:        atomic.NewInt64(0),
		pending:        xsync.NewMap[int64, *entry](),
		defaultTimeout: defaultTimeout,
		closed:         atomic.NewBool(false),
		logger:         log.DiscardLogger,
		onTimeout:      func(int64) {},
	}

	for _, opt := range opts {
		opt.Apply(table)
	}
	return table
}

// Register allocates a fresh message id and its Completion. A positive
// timeout overrides the default deadline. After a Close the returned
// Completion is already failed with ErrStageStopped and the id is zero.
func (t *Table) Register(timeout time.Duration) (int64, *future.Completion) {
	if t.closed.Load() {
		return 0, future.Failed(gerrors.ErrStageStopped)
	}

	if timeout <= 0 {
		timeout = t.defaultTimeout
	}

	e := &entry{completion: future.NewCompletion()}

	var id int64
	for {
		id = t.counter.Inc()
		if id == 0 {
			continue
		}
		if _, stored := t.pending.SetIfAbsent(id, e); stored {
			break
		}
	}

	// a completion resolved by its caller, such as a cancellation, frees the entry
	e.completion.OnComplete(func(proto.Message, error) {
		if current, ok := t.pending.Get(id); ok && current == e {
			t.pending.Delete(id)
		}
		e.stop()
	})

	if timeout > 0 {
		e.arm(timeout, func() {
			if t.remove(id, e) {
				t.logger.Debugf("request (%d) timed out after %s", id, timeout)
				t.onTimeout(id)
				e.completion.Fail(gerrors.NewTimeoutError(id, timeout))
			}
		})
	}

	// Close may have drained the table between the first check and the insertion
	if t.closed.Load() && t.remove(id, e) {
		e.completion.Fail(gerrors.ErrStageStopped)
	}
	return id, e.completion
}

// Resolve completes the request with the given outcome and removes it.
// It returns false when the id is unknown, which is the case of orphan
// responses arriving after a timeout or for ids never issued.
func (t *Table) Resolve(id int64, value proto.Message, err error) bool {
	e, ok := t.pending.Pop(id)
	if !ok {
		return false
	}

	e.stop()
	if err != nil {
		return e.completion.Fail(err)
	}
	return e.completion.Complete(value)
}

// Cancel cancels the request and removes it
func (t *Table) Cancel(id int64) bool {
	e, ok := t.pending.Pop(id)
	if !ok {
		return false
	}
	e.stop()
	return e.completion.Cancel()
}

// Contains reports whether the id is pending
func (t *Table) Contains(id int64) bool {
	return t.pending.Contains(id)
}

// Len returns the number of pending requests
func (t *Table) Len() int {
	return t.pending.Len()
}

// Close fails every pending request with err, or ErrStageStopped when err
// is nil, and rejects later registrations.
func (t *Table) Close(err error) {
	if err == nil {
		err = gerrors.ErrStageStopped
	}

	t.closed.Store(true)
	for _, id := range t.pending.Keys() {
		if e, ok := t.pending.Pop(id); ok {
			e.stop()
			e.completion.Fail(err)
		}
	}
}

// remove deletes the entry when it is still the one held under id
func (t *Table) remove(id int64, e *entry) bool {
	current, ok := t.pending.Pop(id)
	if !ok {
		return false
	}

	if current != e {
		t.pending.Set(id, current)
		return false
	}
	e.stop()
	return true
}
