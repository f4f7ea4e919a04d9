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

// Package codec implements the default wire codec of a stage.
//
// A frame is one algorithm byte followed by the (possibly compressed)
// envelope. The envelope is a protobuf message written field by field:
//
//	1  message id      varint (absent for one-way requests)
//	2  source node     string
//	3  target node     string (absent when the target is local)
//	10 request         bytes  (actor type, key, method, method index, args)
//	11 normal response bytes  (value)
//	12 error response  bytes  (kind, message)
//
// Arguments and results travel as anypb.Any so any registered protobuf type
// crosses the boundary. Decoded values are fresh instances.
package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/bufferpool"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/key"
	"github.com/tochemey/stage/message"
)

// DefaultBufferSize is the initial capacity of encode buffers. Buffers grow
// as needed, so payloads are not bounded by it.
const DefaultBufferSize = 4096

const (
	fieldMessageID protowire.Number = 1
	fieldSource    protowire.Number = 2
	fieldTarget    protowire.Number = 3
	fieldRequest   protowire.Number = 10
	fieldNormal    protowire.Number = 11
	fieldError     protowire.Number = 12

	fieldActorType   protowire.Number = 1
	fieldKey         protowire.Number = 2
	fieldMethod      protowire.Number = 3
	fieldMethodIndex protowire.Number = 4
	fieldArg         protowire.Number = 5

	fieldValue protowire.Number = 1

	fieldErrorKind    protowire.Number = 1
	fieldErrorMessage protowire.Number = 2
)

// nilArg marks a nil argument in the repeated arg field
var nilArg = []byte{}

// Codec is the protowire implementation of message.Codec
type Codec struct {
	compressor  compression.Compressor
	compressors map[compression.Algorithm]compression.Compressor
	buffers     *bufferpool.BufferPool
}

var _ message.Codec = (*Codec)(nil)

// New creates a Codec
func New(opts ...Option) *Codec {
	codec := &Codec{
		compressors: map[compression.Algorithm]compression.Compressor{
			compression.Zstd:   compression.NewZstd(),
			compression.Brotli: compression.NewBrotli(compression.DefaultBrotliLevel),
		},
		buffers: bufferpool.New(DefaultBufferSize),
	}

	for _, opt := range opts {
		opt.Apply(codec)
	}

	if codec.compressor == nil {
		codec.compressor, _ = compression.New(compression.None)
	}
	codec.compressors[codec.compressor.Algorithm()] = codec.compressor
	return codec
}

// Algorithm returns the compression applied to encoded frames
func (c *Codec) Algorithm() compression.Algorithm {
	return c.compressor.Algorithm()
}

// Encode implements message.Codec
func (c *Codec) Encode(msg *message.Message) ([]byte, error) {
	if msg == nil || msg.Content == nil {
		return nil, fmt.Errorf("%w: empty message", gerrors.ErrInvalidMessage)
	}

	buf := c.buffers.Get()
	defer c.buffers.Put(buf)

	envelope, err := appendEnvelope(buf.AvailableBuffer(), msg)
	if err != nil {
		return nil, err
	}
	buf.Write(envelope)

	payload, err := c.compressor.Compress(buf.Bytes())
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 1+len(payload))
	frame[0] = byte(c.compressor.Algorithm())
	copy(frame[1:], payload)
	return frame, nil
}

// Decode implements message.Codec
func (c *Codec) Decode(frame []byte) (*message.Message, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: empty frame", gerrors.ErrInvalidMessage)
	}

	algorithm := compression.Algorithm(frame[0])
	envelope := frame[1:]
	if algorithm != compression.None {
		compressor, ok := c.compressors[algorithm]
		if !ok {
			return nil, fmt.Errorf("%w: unknown compression %s", gerrors.ErrInvalidMessage, algorithm)
		}

		var err error
		if envelope, err = compressor.Decompress(envelope); err != nil {
			return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidMessage, err)
		}
	}

	msg, err := consumeEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidMessage, err)
	}
	return msg, nil
}

func appendEnvelope(b []byte, msg *message.Message) ([]byte, error) {
	if msg.HasID() {
		b = protowire.AppendTag(b, fieldMessageID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(msg.ID()))
	}

	if !msg.Source.IsZero() {
		b = protowire.AppendTag(b, fieldSource, protowire.BytesType)
		b = protowire.AppendString(b, msg.Source.String())
	}

	if !msg.Target.IsLocal() {
		b = protowire.AppendTag(b, fieldTarget, protowire.BytesType)
		b = protowire.AppendString(b, msg.Target.Node().String())
	}

	switch content := msg.Content.(type) {
	case *message.RequestInvocation:
		request, err := appendRequest(nil, content.Invocation)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, fieldRequest, protowire.BytesType)
		b = protowire.AppendBytes(b, request)
	case *message.ResponseNormal:
		var normal []byte
		if content.Value != nil {
			value, err := marshalAny(content.Value)
			if err != nil {
				return nil, err
			}
			normal = protowire.AppendTag(normal, fieldValue, protowire.BytesType)
			normal = protowire.AppendBytes(normal, value)
		}
		b = protowire.AppendTag(b, fieldNormal, protowire.BytesType)
		b = protowire.AppendBytes(b, normal)
	case *message.ResponseError:
		var failure []byte
		failure = protowire.AppendTag(failure, fieldErrorKind, protowire.BytesType)
		failure = protowire.AppendString(failure, content.Kind)
		failure = protowire.AppendTag(failure, fieldErrorMessage, protowire.BytesType)
		failure = protowire.AppendString(failure, content.Message)
		b = protowire.AppendTag(b, fieldError, protowire.BytesType)
		b = protowire.AppendBytes(b, failure)
	default:
		return nil, fmt.Errorf("%w: unsupported content %T", gerrors.ErrInvalidMessage, content)
	}
	return b, nil
}

func appendRequest(b []byte, invocation *message.Invocation) ([]byte, error) {
	if invocation == nil {
		return nil, fmt.Errorf("%w: request without invocation", gerrors.ErrInvalidMessage)
	}

	k, err := invocation.Key.MarshalBinary()
	if err != nil {
		return nil, err
	}

	b = protowire.AppendTag(b, fieldActorType, protowire.BytesType)
	b = protowire.AppendString(b, invocation.ActorType)
	b = protowire.AppendTag(b, fieldKey, protowire.BytesType)
	b = protowire.AppendBytes(b, k)
	b = protowire.AppendTag(b, fieldMethod, protowire.BytesType)
	b = protowire.AppendString(b, invocation.Method)
	b = protowire.AppendTag(b, fieldMethodIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(invocation.MethodIndex))

	for _, arg := range invocation.Args {
		encoded := nilArg
		if arg != nil {
			if encoded, err = marshalAny(arg); err != nil {
				return nil, err
			}
		}
		b = protowire.AppendTag(b, fieldArg, protowire.BytesType)
		b = protowire.AppendBytes(b, encoded)
	}
	return b, nil
}

func consumeEnvelope(b []byte) (*message.Message, error) {
	msg := new(message.Message)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldMessageID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			msg.SetID(int64(v))
			b = b[n:]
		case typ == protowire.BytesType && (num == fieldSource || num == fieldTarget):
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			node, err := address.ParseNodeIdentity(v)
			if err != nil {
				return nil, err
			}
			if num == fieldSource {
				msg.Source = node
			} else {
				msg.Target = address.Remote(node)
			}
			b = b[n:]
		case typ == protowire.BytesType && (num == fieldRequest || num == fieldNormal || num == fieldError):
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			content, err := consumeContent(num, v)
			if err != nil {
				return nil, err
			}
			msg.Content = content
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	if msg.Content == nil {
		return nil, fmt.Errorf("envelope without content")
	}
	return msg, nil
}

func consumeContent(num protowire.Number, b []byte) (message.Content, error) {
	switch num {
	case fieldRequest:
		invocation, err := consumeRequest(b)
		if err != nil {
			return nil, err
		}
		return &message.RequestInvocation{Invocation: invocation}, nil
	case fieldNormal:
		normal := new(message.ResponseNormal)
		err := consumeFields(b, func(num protowire.Number, v []byte) error {
			if num != fieldValue {
				return nil
			}
			value, err := unmarshalAny(v)
			normal.Value = value
			return err
		})
		return normal, err
	default:
		failure := new(message.ResponseError)
		err := consumeFields(b, func(num protowire.Number, v []byte) error {
			switch num {
			case fieldErrorKind:
				failure.Kind = string(v)
			case fieldErrorMessage:
				failure.Message = string(v)
			}
			return nil
		})
		return failure, err
	}
}

func consumeRequest(b []byte) (*message.Invocation, error) {
	invocation := &message.Invocation{Key: key.NoKey()}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		if num == fieldMethodIndex && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			invocation.MethodIndex = int32(v)
			b = b[n:]
			continue
		}

		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case fieldActorType:
			invocation.ActorType = string(v)
		case fieldKey:
			if err := invocation.Key.UnmarshalBinary(v); err != nil {
				return nil, err
			}
		case fieldMethod:
			invocation.Method = string(v)
		case fieldArg:
			if len(v) == 0 {
				invocation.Args = append(invocation.Args, nil)
				continue
			}
			arg, err := unmarshalAny(v)
			if err != nil {
				return nil, err
			}
			invocation.Args = append(invocation.Args, arg)
		}
	}
	return invocation, nil
}

// consumeFields calls fn for each length-delimited field of b
func consumeFields(b []byte, fn func(num protowire.Number, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		if err := fn(num, v); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func marshalAny(value proto.Message) ([]byte, error) {
	packed, err := anypb.New(value)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %T: %w", value, err)
	}

	bytea, err := proto.Marshal(packed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", value, err)
	}

	// an empty Any would be mistaken for a nil argument
	if len(bytea) == 0 {
		return nil, fmt.Errorf("failed to marshal %T: empty payload", value)
	}
	return bytea, nil
}

func unmarshalAny(b []byte) (proto.Message, error) {
	packed := new(anypb.Any)
	if err := proto.Unmarshal(b, packed); err != nil {
		return nil, err
	}
	return packed.UnmarshalNew()
}
