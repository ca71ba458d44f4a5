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

//go:build integration

package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/log"
)

func TestRedisContainer(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.Run(ctx, "redis:7.4-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	transport, err := NewRedis(ctx, WithAddress(endpoint), WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = transport.Close() })

	sub, err := transport.Subscribe(ctx, "actor:integration")
	require.NoError(t, err)

	count, err := transport.Publish(ctx, "actor:integration", []byte("ping"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "ping", string(msg.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	require.NoError(t, sub.Unsubscribe(ctx, "actor:integration"))
	count, err = transport.Publish(ctx, "actor:integration", []byte("ping"))
	require.NoError(t, err)
	assert.Zero(t, count)
	require.NoError(t, sub.Close())

	ok, err := transport.SetNX(ctx, "global.lock:it", "1")
	require.NoError(t, err)
	assert.True(t, ok)
	previous, err := transport.GetSet(ctx, "global.lock:it", "2")
	require.NoError(t, err)
	assert.Equal(t, "1", previous)
	require.NoError(t, transport.Expire(ctx, "global.lock:it", 100*time.Millisecond))
	require.Eventually(t, func() bool {
		_, err := transport.Get(ctx, "global.lock:it")
		return err == gerrors.ErrKeyNotFound
	}, 2*time.Second, 20*time.Millisecond)
}
