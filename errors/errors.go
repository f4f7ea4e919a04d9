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

package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrKeyMismatch is returned when a key variant does not match the key kind
	// declared by the actor type.
	ErrKeyMismatch = errors.New("key kind mismatch")

	// ErrMissingDefinition is returned when a type is resolved without a registered definition.
	ErrMissingDefinition = errors.New("no definition registered")

	// ErrAmbiguousConstructor is returned when a concrete type does not declare exactly one constructor.
	ErrAmbiguousConstructor = errors.New("concrete type must declare exactly one constructor")

	// ErrCyclicDependency is returned when dependency resolution revisits a type already in progress.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrNoAvailableNode is returned when the routing resolver cannot find any eligible node.
	ErrNoAvailableNode = errors.New("no available node")

	// ErrTimeout is returned when a request deadline elapses before its response arrives.
	ErrTimeout = errors.New("request timed out")

	// ErrOrphanResponse marks a response whose correlation identifier is not pending.
	// It is only logged, never returned to callers.
	ErrOrphanResponse = errors.New("orphan response")

	// ErrRemoteInvocation is returned when the target method failed.
	ErrRemoteInvocation = errors.New("remote invocation failed")

	// ErrCanceled is returned when a pending request has been canceled by its owner.
	ErrCanceled = errors.New("request canceled")

	// ErrStageStopped is returned to pending requests when the stage shuts down.
	ErrStageStopped = errors.New("stage stopped")

	// ErrStageNotStarted is returned when the stage is used before Start.
	ErrStageNotStarted = errors.New("stage is not started")

	// ErrActorNotRegistered is returned when an actor type is unknown to the stage.
	ErrActorNotRegistered = errors.New("actor type is not registered")

	// ErrMethodNotFound is returned when an invocation names a method the actor does not declare.
	ErrMethodNotFound = errors.New("method not found")

	// ErrNodeUnreachable is returned by transports when the target node is not known.
	ErrNodeUnreachable = errors.New("node is unreachable")

	// ErrInvalidMessage is returned when an envelope is malformed.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrTransportStopped is returned when a stopped transport is used.
	ErrTransportStopped = errors.New("transport is stopped")

	// ErrNameRequired is returned when a stage name is not provided.
	ErrNameRequired = errors.New("stage name is required")
)

// KeyMismatchError reports a key whose variant differs from the declared key kind.
type KeyMismatchError struct {
	Expected string
	Actual   string
}

var _ error = (*KeyMismatchError)(nil)

// NewKeyMismatchError creates a KeyMismatchError
func NewKeyMismatchError(expected, actual string) *KeyMismatchError {
	return &KeyMismatchError{Expected: expected, Actual: actual}
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s got %s", ErrKeyMismatch.Error(), e.Expected, e.Actual)
}

func (e *KeyMismatchError) Unwrap() error {
	return ErrKeyMismatch
}

// MissingDefinitionError reports a type resolved without a definition.
type MissingDefinitionError struct {
	Type string
}

// NewMissingDefinitionError creates a MissingDefinitionError
func NewMissingDefinitionError(typeName string) *MissingDefinitionError {
	return &MissingDefinitionError{Type: typeName}
}

func (e *MissingDefinitionError) Error() string {
	return fmt.Sprintf("%s for '%s'", ErrMissingDefinition.Error(), e.Type)
}

func (e *MissingDefinitionError) Unwrap() error {
	return ErrMissingDefinition
}

// AmbiguousConstructorError reports a concrete type with zero or several constructors.
type AmbiguousConstructorError struct {
	Type  string
	Count int
}

// NewAmbiguousConstructorError creates an AmbiguousConstructorError
func NewAmbiguousConstructorError(typeName string, count int) *AmbiguousConstructorError {
	return &AmbiguousConstructorError{Type: typeName, Count: count}
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("%s: '%s' declares %d", ErrAmbiguousConstructor.Error(), e.Type, e.Count)
}

func (e *AmbiguousConstructorError) Unwrap() error {
	return ErrAmbiguousConstructor
}

// CyclicDependencyError reports the dependency path that closes a cycle.
// The first and last elements of Path are the same type.
type CyclicDependencyError struct {
	Path []string
}

// NewCyclicDependencyError creates a CyclicDependencyError
func NewCyclicDependencyError(path []string) *CyclicDependencyError {
	return &CyclicDependencyError{Path: path}
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency.Error(), strings.Join(e.Path, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

// NoAvailableNodeError reports an actor type that could not be placed.
type NoAvailableNodeError struct {
	ActorType string
}

// NewNoAvailableNodeError creates a NoAvailableNodeError
func NewNoAvailableNodeError(actorType string) *NoAvailableNodeError {
	return &NoAvailableNodeError{ActorType: actorType}
}

func (e *NoAvailableNodeError) Error() string {
	return fmt.Sprintf("%s for actor type '%s'", ErrNoAvailableNode.Error(), e.ActorType)
}

func (e *NoAvailableNodeError) Unwrap() error {
	return ErrNoAvailableNode
}

// TimeoutError reports a request whose deadline elapsed.
type TimeoutError struct {
	MessageID int64
	After     time.Duration
}

// NewTimeoutError creates a TimeoutError
func NewTimeoutError(messageID int64, after time.Duration) *TimeoutError {
	return &TimeoutError{MessageID: messageID, After: after}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: message=%d after %s", ErrTimeout.Error(), e.MessageID, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// RemoteInvocationError carries the failure raised by the target method.
// Kind is the failure classification, Message its description.
type RemoteInvocationError struct {
	Kind    string
	Message string
}

// NewRemoteInvocationError creates a RemoteInvocationError
func NewRemoteInvocationError(kind, message string) *RemoteInvocationError {
	return &RemoteInvocationError{Kind: kind, Message: message}
}

func (e *RemoteInvocationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", ErrRemoteInvocation.Error(), e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", ErrRemoteInvocation.Error(), e.Kind, e.Message)
}

func (e *RemoteInvocationError) Unwrap() error {
	return ErrRemoteInvocation
}
