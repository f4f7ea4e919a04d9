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
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
)

// DefaultBrotliLevel trades ratio for speed on small frames
const DefaultBrotliLevel = brotli.BestSpeed

type brotliCompressor struct {
	level   int
	writers sync.Pool
	readers sync.Pool
}

var _ Compressor = (*brotliCompressor)(nil)

// NewBrotli returns a Compressor backed by pooled brotli writers and readers
func NewBrotli(level int) Compressor {
	compressor := &brotliCompressor{level: level}
	compressor.writers.New = func() any {
		return brotli.NewWriterLevel(nil, level)
	}
	compressor.readers.New = func() any {
		return brotli.NewReader(bytes.NewReader(nil))
	}
	return compressor
}

func (b *brotliCompressor) Algorithm() Algorithm {
	return Brotli
}

func (b *brotliCompressor) Compress(src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(src)/2+16))
	writer := b.writers.Get().(*brotli.Writer)
	writer.Reset(buf)
	defer b.writers.Put(writer)

	if _, err := writer.Write(src); err != nil {
		return nil, fmt.Errorf("failed to compress brotli frame: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress brotli frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *brotliCompressor) Decompress(src []byte) ([]byte, error) {
	reader := b.readers.Get().(*brotli.Reader)
	defer b.readers.Put(reader)

	if err := reader.Reset(bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("failed to decompress brotli frame: %w", err)
	}

	out, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress brotli frame: %w", err)
	}

	if len(out) > maxDecodedSize {
		return nil, fmt.Errorf("brotli frame exceeds %d bytes", maxDecodedSize)
	}
	return out, nil
}
