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

package future

import (
	"context"
	"sync"
	"time"
)

type result struct {
	value Value
	err   error
}

// Aggregate is a multi-value future. Values are obtained one at a time in
// arrival order, each Get consuming the next one.
type Aggregate struct {
	mu     sync.Mutex
	queue  []result
	signal chan struct{}
}

// NewAggregate creates an empty Aggregate
func NewAggregate() *Aggregate {
	return &Aggregate{signal: make(chan struct{}, 1)}
}

// Put appends a value
func (a *Aggregate) Put(value Value) {
	a.push(result{value: value})
}

// Fail appends a failed result
func (a *Aggregate) Fail(err error) {
	a.push(result{err: err})
}

// Ready reports whether a value can be obtained without blocking
func (a *Aggregate) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue) > 0
}

// Len returns the number of values not yet obtained
func (a *Aggregate) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Get blocks until a value is available or ctx is done and returns it
func (a *Aggregate) Get(ctx context.Context) (Value, error) {
	for {
		if res, ok := a.pop(); ok {
			return res.value, res.err
		}

		select {
		case <-a.signal:
		case <-ctx.Done():
			return Value{}, contextError(ctx)
		}
	}
}

// GetWithTimeout is like Get bounded by the given timeout
func (a *Aggregate) GetWithTimeout(timeout time.Duration) (Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Get(ctx)
}

func (a *Aggregate) push(res result) {
	a.mu.Lock()
	a.queue = append(a.queue, res)
	a.mu.Unlock()
	a.notify()
}

func (a *Aggregate) pop() (result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return result{}, false
	}

	res := a.queue[0]
	a.queue[0] = result{}
	a.queue = a.queue[1:]
	if len(a.queue) > 0 {
		a.notify()
	}
	return res, true
}

func (a *Aggregate) notify() {
	select {
	case a.signal <- struct{}{}:
	default:
	}
}
