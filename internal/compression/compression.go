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

// Package compression provides whole-frame compressors used by the wire codec.
//
// The first byte of every encoded frame carries the Algorithm, so a receiver
// can decode frames produced by any peer regardless of its own setting.
package compression

import "fmt"

// Algorithm identifies a compression algorithm on the wire
type Algorithm byte

const (
	// None leaves frames uncompressed
	None Algorithm = iota
	// Zstd compresses with Zstandard
	Zstd
	// Brotli compresses with Brotli
	Brotli
)

// String returns the algorithm name
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Brotli:
		return "brotli"
	default:
		return fmt.Sprintf("Algorithm(%d)", byte(a))
	}
}

// ParseAlgorithm returns the algorithm with the given name. The empty name is None.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "brotli", "br":
		return Brotli, nil
	default:
		return None, fmt.Errorf("unsupported compression (%s)", name)
	}
}

// Compressor compresses and decompresses whole buffers.
// Implementations are safe for concurrent use.
type Compressor interface {
	Algorithm() Algorithm
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// New returns the Compressor of the given algorithm
func New(algorithm Algorithm) (Compressor, error) {
	switch algorithm {
	case None:
		return noCompression{}, nil
	case Zstd:
		return NewZstd(), nil
	case Brotli:
		return NewBrotli(DefaultBrotliLevel), nil
	default:
		return nil, fmt.Errorf("unsupported compression (%s)", algorithm)
	}
}

type noCompression struct{}

func (noCompression) Algorithm() Algorithm                  { return None }
func (noCompression) Compress(src []byte) ([]byte, error)   { return src, nil }
func (noCompression) Decompress(src []byte) ([]byte, error) { return src, nil }
