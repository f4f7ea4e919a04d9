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

package validation

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

const maxIDLength = 255

var (
	idExpression = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_.]*$`)

	errInvalidID = errors.New("must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")
)

type assertion struct {
	condition bool
	message   string
}

func (x assertion) Validate() error {
	if x.condition {
		return nil
	}
	return errors.New(x.message)
}

type requiredValidator struct {
	field string
	value string
}

// NewEmptyStringValidator fails when the trimmed value is empty
func NewEmptyStringValidator(field, value string) Validator {
	return requiredValidator{field: field, value: value}
}

func (x requiredValidator) Validate() error {
	if strings.TrimSpace(x.value) == "" {
		return fmt.Errorf("the [%s] is required", x.field)
	}
	return nil
}

type idValidator string

// NewIDValidator checks identifiers such as node ids
func NewIDValidator(id string) Validator {
	return idValidator(id)
}

func (x idValidator) Validate() error {
	id := strings.TrimSpace(string(x))
	switch {
	case id == "":
		return errors.New("the [id] is required")
	case len(id) > maxIDLength:
		return fmt.Errorf("id is too long. Maximum length is %d", maxIDLength)
	case !idExpression.MatchString(id):
		return fmt.Errorf("invalid id (%s): %w", id, errInvalidID)
	}
	return nil
}

type hostPortValidator string

// NewTCPAddressValidator checks a host:port pair. Port zero is accepted.
func NewTCPAddressValidator(address string) Validator {
	return hostPortValidator(address)
}

func (x hostPortValidator) Validate() error {
	host, portText, err := net.SplitHostPort(strings.TrimSpace(string(x)))
	if err != nil {
		return fmt.Errorf("invalid address (%s): %w", string(x), err)
	}

	port, err := strconv.Atoi(portText)
	if err != nil {
		return fmt.Errorf("invalid address (%s): %w", string(x), err)
	}

	if host == "" || port < 0 || port > 65535 {
		return fmt.Errorf("invalid address (%s): host or port out of range", string(x))
	}
	return nil
}
