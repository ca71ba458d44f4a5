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
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/internal/codec"
	imetric "github.com/tochemey/redactor/internal/metric"
	"github.com/tochemey/redactor/internal/xsync"
	"github.com/tochemey/redactor/log"
	"github.com/tochemey/redactor/telemetry"
	"github.com/tochemey/redactor/transport"
)

// Registry tracks the live actor identifiers in a transport-backed set and
// owns the actors created through it. Create one per process and hand it
// to every actor and proxy.
type Registry struct {
	transport       transport.Transport
	logger          log.Logger
	key             string
	meterProvider   metric.MeterProvider
	tracerProvider  trace.TracerProvider
	shutdownTimeout time.Duration

	tracer      trace.Tracer
	actorMetric *imetric.ActorMetric
	proxyMetric *imetric.ProxyMetric

	// actors created through this registry and not stopped yet
	actors *xsync.Map[string, *Actor]

	// re-raises the signal once the shutdown on signal completed
	signalExit func(sig os.Signal)
}

// NewRegistry creates a Registry on top of the given transport
func NewRegistry(t transport.Transport, opts ...RegistryOption) (*Registry, error) {
	if t == nil {
		return nil, gerrors.NewErrInvalidArgument("transport", nil)
	}

	registry := &Registry{
		transport:       t,
		logger:          log.DefaultLogger,
		key:             DefaultRegistryKey,
		shutdownTimeout: DefaultShutdownTimeout,
		actors:          xsync.NewMap[string, *Actor](),
		signalExit:      reRaise,
	}

	for _, opt := range opts {
		opt.Apply(registry)
	}

	tel := telemetry.New(
		telemetry.WithMeterProvider(registry.meterProvider),
		telemetry.WithTracerProvider(registry.tracerProvider),
	)

	var err error
	if registry.actorMetric, err = imetric.NewActorMetric(tel.Meter()); err != nil {
		return nil, err
	}

	if registry.proxyMetric, err = imetric.NewProxyMetric(tel.Meter()); err != nil {
		return nil, err
	}

	registry.tracer = tel.Tracer()
	return registry, nil
}

// Transport returns the underlying transport
func (r *Registry) Transport() transport.Transport {
	return r.transport
}

// Logger returns the registry logger
func (r *Registry) Logger() log.Logger {
	return r.logger
}

// Register claims the identifier. It fails with ErrRegistrationFailed when
// the identifier is already in the set.
func (r *Registry) Register(ctx context.Context, id string) error {
	added, err := r.transport.SetAdd(ctx, r.key, id)
	if err != nil {
		return err
	}

	if !added {
		return gerrors.NewErrRegistrationFailed(id)
	}

	r.logger.Debugf("actor=(%s) registered", id)
	return nil
}

// Unregister releases the identifier
func (r *Registry) Unregister(ctx context.Context, id string) error {
	if err := r.transport.SetRemove(ctx, r.key, id); err != nil {
		return err
	}
	r.logger.Debugf("actor=(%s) unregistered", id)
	return nil
}

// Exists reports whether the identifier is registered
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	return r.transport.SetIsMember(ctx, r.key, id)
}

// Actors returns the sorted registered identifiers
func (r *Registry) Actors(ctx context.Context) ([]string, error) {
	ids, err := r.transport.SetMembers(ctx, r.key)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

// Alive reports whether an actor is listening on the identifier's inbox.
// The probe it publishes is ignored by the receiver.
func (r *Registry) Alive(ctx context.Context, id string) (bool, error) {
	payload, err := codec.EncodeEnvelope(&codec.Envelope{})
	if err != nil {
		return false, err
	}

	receivers, err := r.transport.Publish(ctx, actorChannel(id), payload)
	if err != nil {
		return false, err
	}
	return receivers > 0, nil
}

// GetProxy returns a proxy to the identified actor, which may live in
// another process
func (r *Registry) GetProxy(ctx context.Context, id string) (*ActorProxy, error) {
	return NewActorProxy(ctx, r, WithActorID(id))
}

// Shutdown stops every actor created through this registry that is still
// running. It is bounded by the shutdown timeout when ctx has no deadline.
func (r *Registry) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.shutdownTimeout)
		defer cancel()
	}

	actors := r.actors.Values()
	if len(actors) == 0 {
		return nil
	}

	r.logger.Infof("stopping %d actor(s)", len(actors))
	errs := make([]error, len(actors))
	eg, ctx := errgroup.WithContext(ctx)
	for index, actor := range actors {
		eg.Go(func() error {
			if err := actor.Stop(ctx); err != nil {
				errs[index] = err
				return nil
			}
			errs[index] = actor.wait(ctx)
			return nil
		})
	}

	_ = eg.Wait()
	return multierr.Combine(errs...)
}

func (r *Registry) track(actor *Actor) {
	r.actors.Set(actor.id, actor)
}

func (r *Registry) forget(actor *Actor) {
	r.actors.Delete(actor.id)
}
