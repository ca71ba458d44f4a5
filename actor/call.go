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

package actor

import (
	"slices"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/internal/codec"
)

// Call holds the arguments of one method invocation
type Call struct {
	method        string
	correlationID string
	channel       string
	self          *Actor
	args          []cbor.RawMessage
	kwargs        map[string]cbor.RawMessage
}

func newCall(self *Actor, channel string, envelope *codec.Envelope) *Call {
	return &Call{
		method:        envelope.Method,
		correlationID: envelope.CorrelationID,
		channel:       channel,
		self:          self,
		args:          envelope.Args,
		kwargs:        envelope.Kwargs,
	}
}

// Method returns the invoked method name
func (c *Call) Method() string {
	return c.method
}

// CorrelationID returns the identifier the caller matches the reply with.
// It is empty for local invocations.
func (c *Call) CorrelationID() string {
	return c.correlationID
}

// Channel returns the channel the call arrived on.
// It is empty for local invocations.
func (c *Call) Channel() string {
	return c.channel
}

// Self returns the actor running the call
func (c *Call) Self() *Actor {
	return c.self
}

// NumArgs returns the number of positional arguments
func (c *Call) NumArgs() int {
	return len(c.args)
}

// Arg decodes the positional argument at index i into target
func (c *Call) Arg(i int, target any) error {
	position := strconv.Itoa(i)
	if i < 0 || i >= len(c.args) {
		return gerrors.NewErrInvalidArgument(position, nil)
	}
	if err := codec.Unmarshal(c.args[i], target); err != nil {
		return gerrors.NewErrInvalidArgument(position, err)
	}
	return nil
}

// Kwarg decodes the keyword argument name into target.
// It reports false when the argument was not supplied.
func (c *Call) Kwarg(name string, target any) (bool, error) {
	raw, ok := c.kwargs[name]
	if !ok {
		return false, nil
	}
	if err := codec.Unmarshal(raw, target); err != nil {
		return true, gerrors.NewErrInvalidArgument(name, err)
	}
	return true, nil
}

// Kwargs returns the sorted keyword argument names
func (c *Call) Kwargs() []string {
	names := make([]string, 0, len(c.kwargs))
	for name := range c.kwargs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
