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

package compression

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecodedSize bounds the memory a single frame may expand to
const maxDecodedSize = 64 << 20

type zstdCompressor struct {
	encoders sync.Pool
	decoders sync.Pool
}

var _ Compressor = (*zstdCompressor)(nil)

// NewZstd returns a Compressor backed by pooled zstd encoders and decoders
func NewZstd() Compressor {
	return &zstdCompressor{
		encoders: sync.Pool{
			New: func() any {
				encoder, err := zstd.NewWriter(nil,
					zstd.WithEncoderLevel(zstd.SpeedFastest),
					zstd.WithEncoderConcurrency(1))
				if err != nil {
					return err
				}
				return encoder
			},
		},
		decoders: sync.Pool{
			New: func() any {
				decoder, err := zstd.NewReader(nil,
					zstd.WithDecoderConcurrency(1),
					zstd.WithDecoderMaxMemory(maxDecodedSize))
				if err != nil {
					return err
				}
				return decoder
			},
		},
	}
}

func (z *zstdCompressor) Algorithm() Algorithm {
	return Zstd
}

func (z *zstdCompressor) Compress(src []byte) ([]byte, error) {
	switch encoder := z.encoders.Get().(type) {
	case *zstd.Encoder:
		out := encoder.EncodeAll(src, make([]byte, 0, len(src)/2+16))
		z.encoders.Put(encoder)
		return out, nil
	case error:
		return nil, fmt.Errorf("failed to create zstd encoder: %w", encoder)
	default:
		return nil, fmt.Errorf("unexpected zstd encoder %T", encoder)
	}
}

func (z *zstdCompressor) Decompress(src []byte) ([]byte, error) {
	switch decoder := z.decoders.Get().(type) {
	case *zstd.Decoder:
		out, err := decoder.DecodeAll(src, nil)
		z.decoders.Put(decoder)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress zstd frame: %w", err)
		}
		return out, nil
	case error:
		return nil, fmt.Errorf("failed to create zstd decoder: %w", decoder)
	default:
		return nil, fmt.Errorf("unexpected zstd decoder %T", decoder)
	}
}
