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

package di

// TypeID identifies a component type at registration and resolution sites.
// Interfaces and concrete implementations share the same identifier space.
type TypeID string

// ContainerTypeID is the identifier under which a Container registers itself
const ContainerTypeID TypeID = "di.Container"

// String returns the identifier as a string
func (id TypeID) String() string {
	return string(id)
}

// Constructor is one factory path of a concrete type. Dependencies lists, in
// order, the types whose resolved instances are passed to New.
type Constructor struct {
	Dependencies []TypeID
	New          func(args ...any) (any, error)
}

// NewConstructor creates a Constructor
func NewConstructor(factory func(args ...any) (any, error), dependencies ...TypeID) Constructor {
	return Constructor{Dependencies: dependencies, New: factory}
}

// Definition binds an interface type to the concrete type that implements it
type Definition struct {
	Interface TypeID
	Concrete  TypeID
}
