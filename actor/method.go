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
	"context"
	"slices"
	"strings"

	"github.com/tochemey/redactor/internal/codec"
)

// Handler is the body of an actor method
type Handler func(ctx context.Context, call *Call) (any, error)

// BeforeHook runs ahead of a method body. A non-nil result short-circuits
// the invocation and is returned in place of the body's result.
type BeforeHook func(ctx context.Context, call *Call) (any, error)

// AfterHook runs once the method body returned. The first hook returning a
// non-nil value replaces the result.
type AfterHook func(ctx context.Context, call *Call, result any) (any, error)

// Behavior declares the methods an actor exposes
type Behavior interface {
	// Methods returns the method table of the actor.
	Methods() []*Method
}

// BehaviorFunc implements Behavior with a plain function
type BehaviorFunc func() []*Method

// Methods implements Behavior
func (f BehaviorFunc) Methods() []*Method {
	return f()
}

// Method describes one invokable method of an actor together with its
// decorations. Decorating a Method again merges into the same descriptor.
type Method struct {
	name    string
	handler Handler
	tags    []string
	before  []BeforeHook
	after   []AfterHook
}

// NewMethod creates a Method. Names starting with an underscore are
// private: they can be invoked locally but are neither listed nor
// dispatched from remote callers.
func NewMethod(name string, handler Handler) *Method {
	return &Method{name: name, handler: handler}
}

// Decorate attaches decorations in order. Tags accumulate without
// duplicates and hooks are appended after the existing ones.
func (m *Method) Decorate(decorations ...Decoration) *Method {
	for _, decoration := range decorations {
		if decoration.Tag != "" && !m.HasTag(decoration.Tag) {
			m.tags = append(m.tags, decoration.Tag)
		}
		m.before = append(m.before, decoration.Before...)
		m.after = append(m.after, decoration.After...)
	}
	return m
}

// Name returns the method name
func (m *Method) Name() string {
	return m.name
}

// Tags returns the decoration tags in application order
func (m *Method) Tags() []string {
	return slices.Clone(m.tags)
}

// HasTag reports whether the given decoration tag is attached
func (m *Method) HasTag(tag string) bool {
	return slices.Contains(m.tags, tag)
}

// String returns the method table entry of the method
func (m *Method) String() string {
	return codec.FormatMethod(m.name, m.tags)
}

// Invoke runs the before hooks, the body and the after hooks
func (m *Method) Invoke(ctx context.Context, call *Call) (any, error) {
	for _, hook := range m.before {
		skip, err := hook(ctx, call)
		if err != nil {
			return nil, err
		}
		if skip != nil {
			return skip, nil
		}
	}

	result, err := m.handler(ctx, call)
	if err != nil {
		return nil, err
	}

	replaced := false
	final := result
	for _, hook := range m.after {
		value, err := hook(ctx, call, result)
		if err != nil {
			return nil, err
		}
		if value != nil && !replaced {
			final = value
			replaced = true
		}
	}
	return final, nil
}

func (m *Method) private() bool {
	return strings.HasPrefix(m.name, "_")
}
