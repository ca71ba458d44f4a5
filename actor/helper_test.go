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
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/goleak"

	"github.com/tochemey/redactor/internal/testutil"
	"github.com/tochemey/redactor/log"
	"github.com/tochemey/redactor/transport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreAnyFunction("os/signal.loop"),
	)
}

const electDuration = 200 * time.Millisecond

// greeter is the behavior exercised throughout the tests
type greeter struct {
	counter int
}

func (g *greeter) Methods() []*Method {
	return []*Method{
		NewMethod("greeting", g.greeting),
		NewMethod("longGreeting", g.longGreeting).Decorate(Blocking()),
		NewMethod("add", func(_ context.Context, call *Call) (any, error) {
			var a, b int
			if err := call.Arg(0, &a); err != nil {
				return nil, err
			}
			if err := call.Arg(1, &b); err != nil {
				return nil, err
			}
			return a + b, nil
		}),
		NewMethod("count", func(context.Context, *Call) (any, error) {
			current := g.counter
			time.Sleep(time.Millisecond)
			g.counter = current + 1
			return g.counter, nil
		}),
		NewMethod("slow", func(context.Context, *Call) (any, error) {
			time.Sleep(300 * time.Millisecond)
			return "done", nil
		}),
		NewMethod("fail", func(context.Context, *Call) (any, error) {
			return nil, errors.New("boom")
		}),
		NewMethod("explode", func(context.Context, *Call) (any, error) {
			panic("kaboom")
		}),
		NewMethod("elect", func(_ context.Context, call *Call) (any, error) {
			time.Sleep(electDuration)
			return call.Self().ID(), nil
		}).Decorate(Singular()),
		NewMethod("_secret", func(context.Context, *Call) (any, error) {
			return "secret", nil
		}),
	}
}

func (g *greeter) greeting(_ context.Context, call *Call) (any, error) {
	var name string
	if err := call.Arg(0, &name); err != nil {
		return nil, err
	}

	var prefix string
	if ok, err := call.Kwarg("prefix", &prefix); err != nil {
		return nil, err
	} else if ok {
		name = prefix + " " + name
	}
	return fmt.Sprintf("Hello, %s", name), nil
}

func (g *greeter) longGreeting(ctx context.Context, call *Call) (any, error) {
	time.Sleep(50 * time.Millisecond)
	return g.greeting(ctx, call)
}

func newTestRegistry(t *testing.T) (*Registry, *miniredis.Miniredis) {
	t.Helper()
	tr, server := testutil.NewTransport(t)
	return newRegistryOn(t, tr), server
}

// newPeerRegistry returns a registry with its own connection to server,
// standing in for another process of the cluster
func newPeerRegistry(t *testing.T, server *miniredis.Miniredis) *Registry {
	t.Helper()
	return newRegistryOn(t, testutil.Connect(t, server))
}

func newRegistryOn(t *testing.T, tr transport.Transport) *Registry {
	t.Helper()
	registry, err := NewRegistry(tr,
		WithLogger(log.DiscardLogger),
		WithMeterProvider(noop.NewMeterProvider()),
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithShutdownTimeout(time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Shutdown(context.Background()) })
	return registry
}

func startActor(t *testing.T, registry *Registry, behavior Behavior, opts ...Option) *Actor {
	t.Helper()
	ctx := context.Background()
	actor, err := New(ctx, registry, behavior, opts...)
	require.NoError(t, err)
	require.NoError(t, actor.Start(ctx))
	t.Cleanup(func() { _ = actor.Stop(context.Background()) })
	return actor
}

func closeProxy(t *testing.T, proxy interface{ Close(context.Context) error }) {
	t.Helper()
	t.Cleanup(func() { _ = proxy.Close(context.Background()) })
}
