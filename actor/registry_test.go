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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/internal/testutil"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("With set operations", func(t *testing.T) {
		registry, server := newTestRegistry(t)
		require.NoError(t, registry.Register(ctx, "b"))
		require.NoError(t, registry.Register(ctx, "a"))

		err := registry.Register(ctx, "a")
		require.ErrorIs(t, err, gerrors.ErrRegistrationFailed)

		exists, err := registry.Exists(ctx, "a")
		require.NoError(t, err)
		assert.True(t, exists)

		actors, err := registry.Actors(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, actors)

		members, err := server.Members(DefaultRegistryKey)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, members)

		require.NoError(t, registry.Unregister(ctx, "a"))
		require.NoError(t, registry.Unregister(ctx, "a"))
		exists, err = registry.Exists(ctx, "a")
		require.NoError(t, err)
		assert.False(t, exists)
	})
	t.Run("With custom key", func(t *testing.T) {
		tr, server := testutil.NewTransport(t)
		registry, err := NewRegistry(tr, WithRegistryKey("workers"))
		require.NoError(t, err)
		assert.Same(t, tr, registry.Transport())
		assert.NotNil(t, registry.Logger())

		require.NoError(t, registry.Register(ctx, "a"))
		assert.True(t, server.Exists("workers"))
		assert.False(t, server.Exists(DefaultRegistryKey))
	})
	t.Run("With nil transport", func(t *testing.T) {
		_, err := NewRegistry(nil)
		require.ErrorIs(t, err, gerrors.ErrInvalidArgument)
	})
	t.Run("With transport failure", func(t *testing.T) {
		registry, server := newTestRegistry(t)
		server.SetError("server is down")
		require.Error(t, registry.Register(ctx, "a"))
		_, err := registry.Actors(ctx)
		require.Error(t, err)
		_, err = registry.Alive(ctx, "a")
		require.Error(t, err)
		_, err = New(ctx, registry, new(greeter))
		require.Error(t, err)
		server.SetError("")
	})
	t.Run("With shutdown", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		started := startActor(t, registry, new(greeter))
		idle, err := New(ctx, registry, new(greeter))
		require.NoError(t, err)

		actors, err := registry.Actors(ctx)
		require.NoError(t, err)
		assert.Len(t, actors, 2)

		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		require.NoError(t, registry.Shutdown(ctx))

		assert.False(t, started.IsAlive())
		assert.False(t, idle.IsAlive())

		actors, err = registry.Actors(ctx)
		require.NoError(t, err)
		assert.Empty(t, actors)

		// nothing left to stop
		require.NoError(t, registry.Shutdown(ctx))
	})
}
