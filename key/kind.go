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

package key

// Kind is the variant of a Key. Actor types declare the Kind their keys must have.
type Kind int

const (
	// NoKeyKind denotes actors with at most one activation per type
	NoKeyKind Kind = iota
	// Int32Kind denotes 32-bit integer keys
	Int32Kind
	// Int64Kind denotes 64-bit integer keys
	Int64Kind
	// StringKind denotes string keys
	StringKind
	// GuidKind denotes 128-bit identifier keys
	GuidKind
	// InvalidKind is returned when parsing an unknown kind name
	InvalidKind
)

var kindNames = [...]string{
	NoKeyKind:   "none",
	Int32Kind:   "int32",
	Int64Kind:   "int64",
	StringKind:  "string",
	GuidKind:    "guid",
	InvalidKind: "invalid",
}

// String returns the kind name
func (k Kind) String() string {
	if k < NoKeyKind || k > InvalidKind {
		return kindNames[InvalidKind]
	}
	return kindNames[k]
}

// ParseKind returns the Kind matching the given name, or InvalidKind
func ParseKind(name string) Kind {
	for kind, value := range kindNames {
		if value == name {
			return Kind(kind)
		}
	}
	return InvalidKind
}
