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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/future"
)

func TestNewActorProxy(t *testing.T) {
	ctx := context.Background()

	t.Run("With neither actor nor identifier", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		_, err := NewActorProxy(ctx, registry)
		require.ErrorIs(t, err, gerrors.ErrInvalidProxy)
	})
	t.Run("With both actor and identifier", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))
		_, err := NewActorProxy(ctx, registry, WithActor(actor), WithActorID(actor.ID()))
		require.ErrorIs(t, err, gerrors.ErrInvalidProxy)
	})
	t.Run("With local actor", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))
		proxy, err := actor.ToProxy(ctx)
		require.NoError(t, err)
		closeProxy(t, proxy)

		assert.NotEmpty(t, proxy.ID())
		assert.Equal(t, actor.ID(), proxy.ActorID())
		assert.Equal(t, actor.ListMethods(), proxy.Methods())
	})
	t.Run("With remote discovery", func(t *testing.T) {
		registry, server := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))

		// the caller lives in another process
		peer := newPeerRegistry(t, server)
		proxy, err := peer.GetProxy(ctx, actor.ID())
		require.NoError(t, err)
		closeProxy(t, proxy)

		assert.Equal(t, actor.ListMethods(), proxy.Methods())
		assert.NotContains(t, proxy.Methods(), "_secret")
	})
	t.Run("With unknown identifier", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		_, err := registry.GetProxy(ctx, "nobody")
		require.ErrorIs(t, err, gerrors.ErrInvalidActor)
	})
	t.Run("With discovery timeout", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))
		// keep the actor busy so the method table lookup cannot be answered in time
		local, err := actor.ToProxy(ctx)
		require.NoError(t, err)
		closeProxy(t, local)
		_, err = local.Call(ctx, "slow")
		require.NoError(t, err)

		_, err = NewActorProxy(ctx, registry, WithActorID(actor.ID()), WithDiscoveryTimeout(50*time.Millisecond))
		require.ErrorIs(t, err, gerrors.ErrRequestTimeout)
	})
}

func TestActorProxyCall(t *testing.T) {
	ctx := context.Background()
	registry, server := newTestRegistry(t)
	actor := startActor(t, registry, new(greeter))

	peer := newPeerRegistry(t, server)
	proxy, err := peer.GetProxy(ctx, actor.ID())
	require.NoError(t, err)
	closeProxy(t, proxy)

	t.Run("With single call transparency", func(t *testing.T) {
		cases := []struct {
			method string
			args   []any
		}{
			{"greeting", []any{"The Great"}},
			{"add", []any{40, 2}},
			{"add", []any{-7, 3}},
		}

		for _, tc := range cases {
			direct, err := actor.Invoke(ctx, tc.method, tc.args...)
			require.NoError(t, err)

			pending, err := proxy.Call(ctx, tc.method, tc.args...)
			require.NoError(t, err)
			remote, err := pending.GetWithTimeout(time.Second)
			require.NoError(t, err)
			assert.Equal(t, direct.Bytes(), remote.Bytes())
		}
	})
	t.Run("With future", func(t *testing.T) {
		pending, err := proxy.Call(ctx, "slow")
		require.NoError(t, err)
		assert.False(t, pending.Ready())

		value, err := pending.GetWithTimeout(2 * time.Second)
		require.NoError(t, err)
		assert.True(t, pending.Ready())

		var result string
		require.NoError(t, value.Decode(&result))
		assert.Equal(t, "done", result)
	})
	t.Run("With blocking method", func(t *testing.T) {
		pending, err := proxy.Call(ctx, "longGreeting", "The Great")
		require.NoError(t, err)
		assert.True(t, pending.Ready())

		value, err := pending.Get(ctx)
		require.NoError(t, err)
		var greeting string
		require.NoError(t, value.Decode(&greeting))
		assert.Equal(t, "Hello, The Great", greeting)
	})
	t.Run("With keyword arguments", func(t *testing.T) {
		pending, err := proxy.CallWithKwargs(ctx, "greeting", map[string]any{"prefix": "Sir"}, "Lancelot")
		require.NoError(t, err)
		value, err := pending.GetWithTimeout(time.Second)
		require.NoError(t, err)
		var greeting string
		require.NoError(t, value.Decode(&greeting))
		assert.Equal(t, "Hello, Sir Lancelot", greeting)
	})
	t.Run("With method failure", func(t *testing.T) {
		pending, err := proxy.Call(ctx, "fail")
		require.NoError(t, err)
		_, err = pending.GetWithTimeout(time.Second)
		var remoteErr *gerrors.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "boom", remoteErr.Message())

		pending, err = proxy.Call(ctx, "explode")
		require.NoError(t, err)
		_, err = pending.GetWithTimeout(time.Second)
		require.ErrorAs(t, err, &remoteErr)
		assert.Contains(t, remoteErr.Message(), "kaboom")

		pending, err = proxy.Call(ctx, "add", "one")
		require.NoError(t, err)
		_, err = pending.GetWithTimeout(time.Second)
		require.ErrorAs(t, err, &remoteErr)
	})
	t.Run("With listener surviving failures", func(t *testing.T) {
		pending, err := proxy.Call(ctx, "add", 1, 1)
		require.NoError(t, err)
		value, err := pending.GetWithTimeout(time.Second)
		require.NoError(t, err)
		var sum int
		require.NoError(t, value.Decode(&sum))
		assert.Equal(t, 2, sum)
	})
	t.Run("With method missing from the table", func(t *testing.T) {
		_, err := proxy.Call(ctx, "shout")
		require.ErrorIs(t, err, gerrors.ErrUnknownMethod)
		_, err = proxy.Call(ctx, "_secret")
		require.ErrorIs(t, err, gerrors.ErrUnknownMethod)
	})
}

func TestActorProxyStoppedActor(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	actor := startActor(t, registry, new(greeter))

	proxy, err := actor.ToProxy(ctx)
	require.NoError(t, err)
	closeProxy(t, proxy)

	for range 3 {
		pending, err := proxy.Call(ctx, "add", 1, 2)
		require.NoError(t, err)
		_, err = pending.GetWithTimeout(time.Second)
		require.NoError(t, err)
	}

	require.NoError(t, actor.Stop(ctx))
	for range 3 {
		_, err = proxy.Call(ctx, "add", 1, 2)
		require.ErrorIs(t, err, gerrors.ErrInvalidActor)
	}

	// blocking methods fail the same way
	_, err = proxy.Call(ctx, "longGreeting", "The Great")
	require.ErrorIs(t, err, gerrors.ErrInvalidActor)
}

func TestActorProxyClose(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	actor := startActor(t, registry, new(greeter))

	proxy, err := actor.ToProxy(ctx)
	require.NoError(t, err)

	pending, err := proxy.Call(ctx, "slow")
	require.NoError(t, err)

	require.NoError(t, proxy.Close(ctx))
	require.NoError(t, proxy.Close(ctx))

	_, err = pending.GetWithTimeout(time.Second)
	require.ErrorIs(t, err, gerrors.ErrProxyClosed)

	_, err = proxy.Call(ctx, "add", 1, 2)
	require.ErrorIs(t, err, gerrors.ErrProxyClosed)

	// the late reply of the slow call reaches no subscriber
	other, err := actor.ToProxy(ctx)
	require.NoError(t, err)
	closeProxy(t, other)
	result, err := other.Call(ctx, "add", 2, 2)
	require.NoError(t, err)
	_, err = result.GetWithTimeout(2 * time.Second)
	require.NoError(t, err)
}

func TestActorProxyCloseWhileCalling(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)
	actor := startActor(t, registry, new(greeter))

	proxy, err := actor.ToProxy(ctx)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  []*future.Future
		failures []error
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := proxy.Call(ctx, "add", 1, 2)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			results = append(results, result)
		}()
	}

	require.NoError(t, proxy.Close(ctx))
	wg.Wait()

	for _, err := range failures {
		assert.ErrorIs(t, err, gerrors.ErrProxyClosed)
	}

	// every accepted call resolves, with its reply or with ErrProxyClosed
	for _, result := range results {
		_, err := result.GetWithTimeout(time.Second)
		if err != nil {
			assert.ErrorIs(t, err, gerrors.ErrProxyClosed)
		}
	}
}
