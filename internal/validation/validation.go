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

// Package validation checks configuration values and descriptors before a
// stage uses them. Rules are gathered in a Chain which reports either the
// first violation or all of them.
package validation

import (
	"go.uber.org/multierr"
)

// Validator is a single rule
type Validator interface {
	Validate() error
}

// Chain runs rules in the order they were added
type Chain struct {
	failFast bool
	rules    []Validator
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// FailFast makes the chain stop at the first violation
func FailFast() ChainOption {
	return func(c *Chain) { c.failFast = true }
}

// AllErrors makes the chain report every violation. This is the default.
func AllErrors() ChainOption {
	return func(c *Chain) { c.failFast = false }
}

// New creates a Chain
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddValidator appends a rule
func (c *Chain) AddValidator(rule Validator) *Chain {
	c.rules = append(c.rules, rule)
	return c
}

// AddAssertion appends a rule failing with message when condition is false
func (c *Chain) AddAssertion(condition bool, message string) *Chain {
	return c.AddValidator(assertion{condition: condition, message: message})
}

// Validate runs the rules. Violations are combined with multierr unless the
// chain fails fast.
func (c *Chain) Validate() error {
	var violations error
	for _, rule := range c.rules {
		err := rule.Validate()
		if err == nil {
			continue
		}

		if c.failFast {
			return err
		}
		violations = multierr.Append(violations, err)
	}
	return violations
}
