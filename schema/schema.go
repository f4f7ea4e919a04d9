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

// Package schema describes the artifact a schema compiler hands to a stage:
// enums, data records and actor interfaces declared in a compilation unit.
// Bind turns an actor declaration into a runtime descriptor.
package schema

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tochemey/stage/descriptor"
	"github.com/tochemey/stage/key"
)

// Type names a declared type
type Type string

// EnumMember is one named constant of an enum
type EnumMember struct {
	Name  string
	Index int
}

// EnumDeclaration declares an enum
type EnumDeclaration struct {
	Name    string
	Members []EnumMember
}

// DataField is one field of a data record
type DataField struct {
	Name  string
	Type  Type
	Index int
}

// DataDeclaration declares a data record
type DataDeclaration struct {
	Name   string
	Fields []DataField
}

// MethodParameter is one parameter of an actor method
type MethodParameter struct {
	Name string
	Type Type
}

// ActorMethod declares one actor method
type ActorMethod struct {
	Name       string
	ReturnType Type
	Params     []MethodParameter
}

// ActorDeclaration declares an actor interface
type ActorDeclaration struct {
	Name      string
	KeyKind   key.Kind
	Execution descriptor.ExecutionStrategy
	Routing   descriptor.RoutingPolicy
	Methods   []ActorMethod
}

// CompilationUnit is the output of compiling one schema file
type CompilationUnit struct {
	PackageName string
	Enums       []EnumDeclaration
	Data        []DataDeclaration
	Actors      []ActorDeclaration
}

// Validate checks names are unique across the unit and indices are unique
// inside each declaration. All problems are reported.
func (u *CompilationUnit) Validate() error {
	var err error
	declared := make(map[string]struct{})
	declare := func(kind, name string) {
		if name == "" {
			err = multierr.Append(err, fmt.Errorf("%s without name in package (%s)", kind, u.PackageName))
			return
		}
		if _, ok := declared[name]; ok {
			err = multierr.Append(err, fmt.Errorf("duplicate declaration (%s) in package (%s)", name, u.PackageName))
			return
		}
		declared[name] = struct{}{}
	}

	for _, enum := range u.Enums {
		declare("enum", enum.Name)
		names := make(map[string]struct{})
		indices := make(map[int]struct{})
		for _, member := range enum.Members {
			if _, ok := names[member.Name]; ok {
				err = multierr.Append(err, fmt.Errorf("enum (%s) declares member (%s) twice", enum.Name, member.Name))
			}
			if _, ok := indices[member.Index]; ok {
				err = multierr.Append(err, fmt.Errorf("enum (%s) reuses index %d", enum.Name, member.Index))
			}
			names[member.Name] = struct{}{}
			indices[member.Index] = struct{}{}
		}
	}

	for _, data := range u.Data {
		declare("data", data.Name)
		names := make(map[string]struct{})
		indices := make(map[int]struct{})
		for _, field := range data.Fields {
			if _, ok := names[field.Name]; ok {
				err = multierr.Append(err, fmt.Errorf("data (%s) declares field (%s) twice", data.Name, field.Name))
			}
			if _, ok := indices[field.Index]; ok {
				err = multierr.Append(err, fmt.Errorf("data (%s) reuses index %d", data.Name, field.Index))
			}
			names[field.Name] = struct{}{}
			indices[field.Index] = struct{}{}
		}
	}

	for _, actor := range u.Actors {
		declare("actor", actor.Name)
		names := make(map[string]struct{})
		for _, method := range actor.Methods {
			if _, ok := names[method.Name]; ok {
				err = multierr.Append(err, fmt.Errorf("actor (%s) declares method (%s) twice", actor.Name, method.Name))
			}
			names[method.Name] = struct{}{}
		}
	}
	return err
}

// Actor returns the actor declaration with the given name
func (u *CompilationUnit) Actor(name string) (ActorDeclaration, bool) {
	for _, actor := range u.Actors {
		if actor.Name == name {
			return actor, true
		}
	}
	return ActorDeclaration{}, false
}

// Bind builds the runtime descriptor of an actor declaration. Method
// ordinals follow declaration order. Every declared method needs an
// invoker in impls and every invoker must match a declared method.
func Bind(decl ActorDeclaration, impls map[string]descriptor.InvokeFunc) (*descriptor.ActorDescriptor, error) {
	methods := make([]*descriptor.MethodDescriptor, 0, len(decl.Methods))
	for index, method := range decl.Methods {
		invoke, ok := impls[method.Name]
		if !ok {
			return nil, fmt.Errorf("no invoker bound to method (%s.%s)", decl.Name, method.Name)
		}

		params := make([]string, 0, len(method.Params))
		for _, param := range method.Params {
			params = append(params, string(param.Type))
		}

		methods = append(methods, &descriptor.MethodDescriptor{
			Name:       method.Name,
			Index:      int32(index),
			ParamTypes: params,
			ReturnType: string(method.ReturnType),
			Invoke:     invoke,
		})
	}

	if len(impls) != len(methods) {
		for name := range impls {
			found := false
			for _, method := range decl.Methods {
				if method.Name == name {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("invoker (%s) matches no method of actor (%s)", name, decl.Name)
			}
		}
	}

	actor := &descriptor.ActorDescriptor{
		Name:      decl.Name,
		KeyKind:   decl.KeyKind,
		Execution: decl.Execution,
		Routing:   decl.Routing,
		Methods:   methods,
	}

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	return actor, nil
}
