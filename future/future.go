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

// Package future provides single-assignment and multi-value deferred results.
package future

import (
	"context"
	"errors"
	"sync"
	"time"

	gerrors "github.com/tochemey/redactor/errors"
)

// Future is a handle to a result resolved exactly once.
// A Future is safe for concurrent use.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value Value
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Completed returns an already resolved Future
func Completed(value Value, err error) *Future {
	f := newFuture()
	f.complete(value, err)
	return f
}

// Ready reports whether the Future is resolved. It never blocks.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the Future is resolved
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the Future is resolved or ctx is done.
// Once resolved every call returns the same value and error.
func (f *Future) Get(ctx context.Context) (Value, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return Value{}, contextError(ctx)
	}
}

// GetWithTimeout is like Get bounded by the given timeout
func (f *Future) GetWithTimeout(timeout time.Duration) (Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.Get(ctx)
}

// complete resolves the Future. It reports false when already resolved.
func (f *Future) complete(value Value, err error) bool {
	completed := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
		completed = true
	})
	return completed
}

// Promise is the write side of a Future
type Promise struct {
	future *Future
}

// NewPromise creates a Promise with its pending Future
func NewPromise() *Promise {
	return &Promise{future: newFuture()}
}

// Success resolves the Future with a value.
// It reports false when the Future was already resolved.
func (p *Promise) Success(value Value) bool {
	return p.future.complete(value, nil)
}

// Failure resolves the Future with an error.
// It reports false when the Future was already resolved.
func (p *Promise) Failure(err error) bool {
	return p.future.complete(Value{}, err)
}

// Future returns the read side
func (p *Promise) Future() *Future {
	return p.future
}

func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return gerrors.ErrRequestTimeout
	}
	return ctx.Err()
}
