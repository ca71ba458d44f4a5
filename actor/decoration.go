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

	"github.com/tochemey/redactor/lock"
)

const (
	// BlockingTag marks methods the proxy waits on before returning
	BlockingTag = "blocking"
	// SingularTag marks methods guarded by a cluster-wide lock
	SingularTag = "singular"
)

// Decoration is a cross-cutting behavior attached to a Method
type Decoration struct {
	// Tag names the decoration in the method table. It may be empty.
	Tag string
	// Before hooks run ahead of the method body, in order.
	Before []BeforeHook
	// After hooks run once the body returned, in order.
	After []AfterHook
}

// Blocking makes proxies wait for the result instead of handing back a
// pending Future. It adds no hook: the proxy consults the tag.
func Blocking() Decoration {
	return Decoration{Tag: BlockingTag}
}

// Singular lets one of the actors receiving the same call run it while the
// lock named after the method is held: that receiver runs the body, the
// others return false. The lock is released once the body completes, so a
// receiver that only reaches the call afterwards, for instance because it
// was busy with an earlier message, acquires the lock and runs the body too.
// A failing body leaves the lock in place until it expires.
func Singular(opts ...lock.Option) Decoration {
	return Decoration{
		Tag: SingularTag,
		Before: []BeforeHook{
			func(ctx context.Context, call *Call) (any, error) {
				acquired, err := lock.Acquire(ctx, call.Self().transport, call.Method(), opts...)
				if err != nil {
					return nil, err
				}
				if !acquired {
					return false, nil
				}
				return nil, nil
			},
		},
		After: []AfterHook{
			func(ctx context.Context, call *Call, _ any) (any, error) {
				return nil, lock.Release(ctx, call.Self().transport, call.Method(), opts...)
			},
		},
	}
}
