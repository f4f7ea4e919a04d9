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

package nats

import (
	"time"

	"github.com/tochemey/stage/internal/validation"
)

// DefaultSubjectPrefix prefixes every subject used by the transport
const DefaultSubjectPrefix = "stage"

// Config defines the NATS transport settings
type Config struct {
	// URL is the NATS server url
	URL string
	// SubjectPrefix prefixes node and membership subjects
	SubjectPrefix string
	// Timeout bounds the acknowledgement of a sent frame
	Timeout time.Duration
	// MaxRetries caps connection attempts at start
	MaxRetries int
}

var _ validation.Validator = (*Config)(nil)

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("URL", x.URL)).
		AddValidator(validation.NewEmptyStringValidator("SubjectPrefix", x.SubjectPrefix)).
		AddAssertion(x.Timeout > 0, "Timeout must be positive").
		AddAssertion(x.MaxRetries > 0, "MaxRetries must be positive").
		Validate()
}

// sanitize fills unset fields with defaults
func (x *Config) sanitize() {
	if x.SubjectPrefix == "" {
		x.SubjectPrefix = DefaultSubjectPrefix
	}
	if x.Timeout <= 0 {
		x.Timeout = time.Second
	}
	if x.MaxRetries <= 0 {
		x.MaxRetries = 5
	}
}
