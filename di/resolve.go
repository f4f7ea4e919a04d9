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

import "fmt"

// Resolve resolves the interface type and asserts the instance to T
func Resolve[T any](c *Container, iface TypeID) (T, error) {
	var zero T
	instance, err := c.Resolve(iface)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("instance of (%s) is %T, not %T", iface, instance, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error
func MustResolve[T any](c *Container, iface TypeID) T {
	typed, err := Resolve[T](c, iface)
	if err != nil {
		panic(err)
	}
	return typed
}

// FindInstances returns the materialized singletons assignable to T.
// It never triggers construction.
func FindInstances[T any](c *Container) []T {
	instances := c.FindInstances(func(instance any) bool {
		_, ok := instance.(T)
		return ok
	})

	out := make([]T, 0, len(instances))
	for _, instance := range instances {
		out = append(out, instance.(T))
	}
	return out
}
