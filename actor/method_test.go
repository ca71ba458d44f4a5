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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/internal/codec"
)

func newTestCall(t *testing.T, method string, kwargs map[string]any, args ...any) *Call {
	t.Helper()
	envelope, err := codec.NewEnvelope("c1", "p1", method, args, kwargs)
	require.NoError(t, err)
	return newCall(nil, "", envelope)
}

func TestMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("With decorations merged on one descriptor", func(t *testing.T) {
		var trace []string
		first := Decoration{
			Tag: "first",
			Before: []BeforeHook{func(context.Context, *Call) (any, error) {
				trace = append(trace, "before-1")
				return nil, nil
			}},
			After: []AfterHook{func(context.Context, *Call, any) (any, error) {
				trace = append(trace, "after-1")
				return nil, nil
			}},
		}
		second := Decoration{
			Tag: "second",
			Before: []BeforeHook{func(context.Context, *Call) (any, error) {
				trace = append(trace, "before-2")
				return nil, nil
			}},
			After: []AfterHook{func(context.Context, *Call, any) (any, error) {
				trace = append(trace, "after-2")
				return nil, nil
			}},
		}

		method := NewMethod("elect", func(context.Context, *Call) (any, error) {
			trace = append(trace, "body")
			return "result", nil
		})
		decorated := method.Decorate(first).Decorate(second, Decoration{Tag: "first"})
		assert.Same(t, method, decorated)
		assert.Equal(t, []string{"first", "second"}, method.Tags())
		assert.True(t, method.HasTag("second"))
		assert.False(t, method.HasTag("third"))
		assert.Equal(t, "elect:first:second", method.String())
		assert.Equal(t, "elect", method.Name())

		result, err := method.Invoke(ctx, newTestCall(t, "elect", nil))
		require.NoError(t, err)
		assert.Equal(t, "result", result)
		assert.Equal(t, []string{"before-1", "before-2", "body", "after-1", "after-2"}, trace)
	})
	t.Run("With before hook short-circuit", func(t *testing.T) {
		executed := false
		laterHook := false
		method := NewMethod("elect", func(context.Context, *Call) (any, error) {
			executed = true
			return "result", nil
		}).Decorate(Decoration{
			Before: []BeforeHook{
				func(context.Context, *Call) (any, error) { return nil, nil },
				func(context.Context, *Call) (any, error) { return false, nil },
				func(context.Context, *Call) (any, error) {
					laterHook = true
					return nil, nil
				},
			},
		})

		result, err := method.Invoke(ctx, newTestCall(t, "elect", nil))
		require.NoError(t, err)
		assert.Equal(t, false, result)
		assert.False(t, executed)
		assert.False(t, laterHook)
	})
	t.Run("With after hook replacing the result", func(t *testing.T) {
		ran := 0
		method := NewMethod("greeting", func(context.Context, *Call) (any, error) {
			return "original", nil
		}).Decorate(Decoration{
			After: []AfterHook{
				func(_ context.Context, _ *Call, result any) (any, error) {
					ran++
					assert.Equal(t, "original", result)
					return nil, nil
				},
				func(context.Context, *Call, any) (any, error) {
					ran++
					return "replaced", nil
				},
				func(context.Context, *Call, any) (any, error) {
					ran++
					return "ignored", nil
				},
			},
		})

		result, err := method.Invoke(ctx, newTestCall(t, "greeting", nil))
		require.NoError(t, err)
		assert.Equal(t, "replaced", result)
		assert.Equal(t, 3, ran)
	})
	t.Run("With hook failures", func(t *testing.T) {
		method := NewMethod("greeting", func(context.Context, *Call) (any, error) {
			return "original", nil
		})
		method.Decorate(Decoration{
			Before: []BeforeHook{func(context.Context, *Call) (any, error) { return nil, assert.AnError }},
		})
		_, err := method.Invoke(ctx, newTestCall(t, "greeting", nil))
		require.ErrorIs(t, err, assert.AnError)

		failing := NewMethod("greeting", func(context.Context, *Call) (any, error) {
			return nil, errors.New("body failed")
		}).Decorate(Decoration{
			After: []AfterHook{func(context.Context, *Call, any) (any, error) {
				t.Fatal("after hooks must not run when the body fails")
				return nil, nil
			}},
		})
		_, err = failing.Invoke(ctx, newTestCall(t, "greeting", nil))
		require.EqualError(t, err, "body failed")
	})
	t.Run("With blocking and singular tags", func(t *testing.T) {
		method := NewMethod("elect", func(context.Context, *Call) (any, error) { return nil, nil }).
			Decorate(Blocking(), Singular())
		assert.Equal(t, "elect:blocking:singular", method.String())
		assert.True(t, method.HasTag(BlockingTag))
		assert.True(t, method.HasTag(SingularTag))
		assert.False(t, method.private())
		assert.True(t, NewMethod("_secret", nil).private())
	})
}

func TestCall(t *testing.T) {
	call := newTestCall(t, "greeting", map[string]any{"prefix": "Sir", "count": 2}, "Lancelot", 42)
	assert.Equal(t, "greeting", call.Method())
	assert.Equal(t, "c1", call.CorrelationID())
	assert.Empty(t, call.Channel())
	assert.Nil(t, call.Self())
	assert.Equal(t, 2, call.NumArgs())
	assert.Equal(t, []string{"count", "prefix"}, call.Kwargs())

	var name string
	require.NoError(t, call.Arg(0, &name))
	assert.Equal(t, "Lancelot", name)

	var number int
	require.NoError(t, call.Arg(1, &number))
	assert.Equal(t, 42, number)

	err := call.Arg(0, &number)
	require.ErrorIs(t, err, gerrors.ErrInvalidArgument)

	err = call.Arg(2, &number)
	require.ErrorIs(t, err, gerrors.ErrInvalidArgument)
	err = call.Arg(-1, &number)
	require.ErrorIs(t, err, gerrors.ErrInvalidArgument)

	var prefix string
	ok, err := call.Kwarg("prefix", &prefix)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sir", prefix)

	ok, err = call.Kwarg("missing", &prefix)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = call.Kwarg("prefix", &number)
	require.ErrorIs(t, err, gerrors.ErrInvalidArgument)
	assert.True(t, ok)
}
