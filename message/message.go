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

// Package message defines the unit exchanged by stages: an envelope carrying
// either an invocation request or its response, correlated by a message id.
package message

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/key"
)

// Invocation is a method call addressed to an actor activation
type Invocation struct {
	ActorType   string
	Key         key.Key
	Method      string
	MethodIndex int32
	Args        []proto.Message
}

// Clone returns a copy of the invocation whose arguments are deep copies
func (i *Invocation) Clone() *Invocation {
	args := make([]proto.Message, len(i.Args))
	for index, arg := range i.Args {
		if arg != nil {
			args[index] = proto.Clone(arg)
		}
	}

	return &Invocation{
		ActorType:   i.ActorType,
		Key:         i.Key,
		Method:      i.Method,
		MethodIndex: i.MethodIndex,
		Args:        args,
	}
}

// String returns ActorType(key).Method
func (i *Invocation) String() string {
	return fmt.Sprintf("%s(%s).%s", i.ActorType, i.Key, i.Method)
}

// Content is the payload of a Message. It is one of *RequestInvocation,
// *ResponseNormal or *ResponseError.
type Content interface {
	isContent()
}

// RequestInvocation asks the target to run an invocation
type RequestInvocation struct {
	Invocation *Invocation
}

// ResponseNormal carries the successful result of an invocation
type ResponseNormal struct {
	Value proto.Message
}

// ResponseError carries the failure of an invocation
type ResponseError struct {
	Kind    string
	Message string
}

func (*RequestInvocation) isContent() {}
func (*ResponseNormal) isContent()    {}
func (*ResponseError) isContent()     {}

// Message is the envelope routed between nodes
type Message struct {
	Content   Content
	messageID int64
	hasID     bool
	Source    address.NodeIdentity
	Target    address.NetTarget
}

// NewRequest creates a request message. A zero id means one-way.
func NewRequest(invocation *Invocation, id int64) *Message {
	msg := &Message{Content: &RequestInvocation{Invocation: invocation}}
	if id != 0 {
		msg.SetID(id)
	}
	return msg
}

// HasID reports whether the message carries a correlation id
func (m *Message) HasID() bool {
	return m.hasID
}

// ID returns the correlation id, zero when absent
func (m *Message) ID() int64 {
	return m.messageID
}

// SetID sets the correlation id
func (m *Message) SetID(id int64) {
	m.messageID = id
	m.hasID = true
}

// Reply builds the response envelope of a request: same id, source and
// target swapped.
func (m *Message) Reply(self address.NodeIdentity, content Content) *Message {
	reply := &Message{
		Content: content,
		Source:  self,
		Target:  address.Remote(m.Source),
	}
	if m.hasID {
		reply.SetID(m.messageID)
	}
	return reply
}

// String returns a short description used in logs
func (m *Message) String() string {
	kind := "unknown"
	switch content := m.Content.(type) {
	case *RequestInvocation:
		kind = "request " + content.Invocation.String()
	case *ResponseNormal:
		kind = "response"
	case *ResponseError:
		kind = "error"
	}
	if m.hasID {
		return fmt.Sprintf("%s[id=%d source=%s target=%s]", kind, m.messageID, m.Source, m.Target)
	}
	return fmt.Sprintf("%s[source=%s target=%s]", kind, m.Source, m.Target)
}

// Direction tells whether a message leaves or enters the node
type Direction int

const (
	Outbound Direction = iota
	Inbound
)

// String returns the direction name
func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Container pairs a message with its direction and the completion of the
// originating call, when any.
type Container struct {
	Direction  Direction
	Completion *future.Completion
	Message    *Message
}

// Codec turns messages into frames and back
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(frame []byte) (*Message, error)
}
