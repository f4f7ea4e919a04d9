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

// Package descriptor holds the runtime description of actor types: their
// key kind, their execution strategy, their routing policy and the ordered
// set of methods they expose.
//
// Descriptors are produced from a schema declaration (see package schema)
// or written by hand. The Invoke function of each method is the bridge
// between a decoded invocation and the actor implementation; it is the only
// place where the untyped instance is asserted to its concrete type.
package descriptor

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/proto"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/validation"
	"github.com/tochemey/stage/key"
)

// InvokeFunc calls one method on an actor instance
type InvokeFunc func(ctx context.Context, instance any, args []proto.Message) (proto.Message, error)

// ExecutionStrategy defines how an activation processes its invocations
type ExecutionStrategy int

const (
	// Safe processes one invocation at a time, in arrival order
	Safe ExecutionStrategy = iota
	// Concurrent processes invocations as they arrive, without ordering
	Concurrent
)

// String returns the strategy name
func (s ExecutionStrategy) String() string {
	switch s {
	case Safe:
		return "safe"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("ExecutionStrategy(%d)", int(s))
	}
}

// RoutingPolicy tunes where activations of an actor type are placed
type RoutingPolicy struct {
	// AllowLocal lets the resolver place activations on the calling node
	AllowLocal bool
	// ForceLocal pins every activation to the calling node
	ForceLocal bool
}

// DefaultRoutingPolicy lets activations land on any member including the caller
var DefaultRoutingPolicy = RoutingPolicy{AllowLocal: true}

// MethodDescriptor describes one actor method
type MethodDescriptor struct {
	Name       string
	Index      int32
	ParamTypes []string
	ReturnType string
	Invoke     InvokeFunc
}

// ActorDescriptor describes one actor type
type ActorDescriptor struct {
	Name      string
	KeyKind   key.Kind
	Execution ExecutionStrategy
	Routing   RoutingPolicy
	Methods   []*MethodDescriptor
}

var _ validation.Validator = (*ActorDescriptor)(nil)

// Method returns the method with the given name
func (d *ActorDescriptor) Method(name string) (*MethodDescriptor, error) {
	for _, method := range d.Methods {
		if method.Name == name {
			return method, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", gerrors.ErrMethodNotFound, d.Name, name)
}

// MethodByIndex returns the method with the given ordinal
func (d *ActorDescriptor) MethodByIndex(index int32) (*MethodDescriptor, error) {
	for _, method := range d.Methods {
		if method.Index == index {
			return method, nil
		}
	}
	return nil, fmt.Errorf("%w: %s#%d", gerrors.ErrMethodNotFound, d.Name, index)
}

// Validate checks the descriptor is usable by a stage
func (d *ActorDescriptor) Validate() error {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("actor name", d.Name)).
		AddAssertion(d.KeyKind >= key.NoKeyKind && d.KeyKind < key.InvalidKind, "invalid key kind").
		AddAssertion(d.Execution == Safe || d.Execution == Concurrent, "invalid execution strategy").
		Validate(); err != nil {
		return err
	}

	names := make(map[string]struct{}, len(d.Methods))
	indices := make(map[int32]struct{}, len(d.Methods))
	for _, method := range d.Methods {
		if method == nil || method.Name == "" {
			return fmt.Errorf("actor (%s) declares a method without name", d.Name)
		}

		if method.Invoke == nil {
			return fmt.Errorf("method (%s.%s) has no invoker", d.Name, method.Name)
		}

		if _, ok := names[method.Name]; ok {
			return fmt.Errorf("actor (%s) declares method (%s) twice", d.Name, method.Name)
		}

		if _, ok := indices[method.Index]; ok {
			return fmt.Errorf("actor (%s) reuses method index %d", d.Name, method.Index)
		}

		names[method.Name] = struct{}{}
		indices[method.Index] = struct{}{}
	}
	return nil
}
