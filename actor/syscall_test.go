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

//go:build !windows

package actor

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSignals(t *testing.T) {
	t.Run("With termination signal", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))

		received := make(chan os.Signal, 1)
		registry.signalExit = func(sig os.Signal) { received <- sig }

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		registry.HandleSignals(ctx)

		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
		select {
		case sig := <-received:
			assert.Equal(t, syscall.SIGTERM, sig)
		case <-time.After(5 * time.Second):
			t.Fatal("the signal was not handled")
		}

		assert.False(t, actor.IsAlive())
		exists, err := registry.Exists(context.Background(), actor.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})
	t.Run("With canceled watch", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		actor := startActor(t, registry, new(greeter))

		ctx, cancel := context.WithCancel(context.Background())
		registry.HandleSignals(ctx)
		cancel()

		assert.True(t, actor.IsAlive())
	})
}
