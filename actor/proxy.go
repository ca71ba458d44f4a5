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
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/future"
	"github.com/tochemey/redactor/internal/codec"
	"github.com/tochemey/redactor/internal/xsync"
	"github.com/tochemey/redactor/log"
)

type pendingCall struct {
	method  string
	promise *future.Promise
}

// ActorProxy forwards method calls to one actor, wherever it runs, and
// hands back their results as futures.
type ActorProxy struct {
	actorID  string
	registry *Registry
	logger   log.Logger
	listener *replyListener

	methods map[string][]string
	listing []string
	pending *xsync.Map[string, *pendingCall]
}

// NewActorProxy creates a proxy from exactly one of WithActor or
// WithActorID, failing with ErrInvalidProxy otherwise. With WithActorID the
// method table is fetched from the remote actor.
func NewActorProxy(ctx context.Context, registry *Registry, opts ...ProxyOption) (*ActorProxy, error) {
	if registry == nil {
		return nil, gerrors.NewErrInvalidArgument("registry", nil)
	}

	config := &proxyConfig{discoveryTimeout: DefaultDiscoveryTimeout}
	for _, opt := range opts {
		opt.Apply(config)
	}

	if (config.actor == nil) == (config.actorID == "") {
		return nil, gerrors.ErrInvalidProxy
	}

	proxy := &ActorProxy{
		registry: registry,
		pending:  xsync.NewMap[string, *pendingCall](),
	}

	if config.actor != nil {
		proxy.actorID = config.actor.ID()
	} else {
		proxy.actorID = config.actorID
	}

	listener, err := openReplyListener(ctx, registry, registry.logger, proxy.resolve)
	if err != nil {
		return nil, err
	}

	proxy.listener = listener
	proxy.logger = listener.logger.With("actor", proxy.actorID)

	if config.actor != nil {
		proxy.setMethods(config.actor.ListMethods())
		return proxy, nil
	}

	listing, err := proxy.discover(ctx, config.discoveryTimeout)
	if err != nil {
		_ = proxy.Close(ctx)
		return nil, err
	}

	proxy.setMethods(listing)
	return proxy, nil
}

// ID returns the proxy identifier naming its reply channel
func (p *ActorProxy) ID() string {
	return p.listener.id
}

// ActorID returns the target actor identifier
func (p *ActorProxy) ActorID() string {
	return p.actorID
}

// Methods returns the target method table
func (p *ActorProxy) Methods() []string {
	return slices.Clone(p.listing)
}

// Call invokes the method with positional arguments. It fails with
// ErrInvalidActor when no actor listens on the target identifier. For a
// blocking method Call waits for the result and returns a resolved Future,
// reporting the remote failure as its error.
func (p *ActorProxy) Call(ctx context.Context, method string, args ...any) (*future.Future, error) {
	return p.CallWithKwargs(ctx, method, nil, args...)
}

// CallWithKwargs is like Call with keyword arguments
func (p *ActorProxy) CallWithKwargs(ctx context.Context, method string, kwargs map[string]any, args ...any) (*future.Future, error) {
	if p.listener.closed.Load() {
		return nil, gerrors.ErrProxyClosed
	}

	tags, ok := p.methods[method]
	if !ok {
		return nil, gerrors.NewErrUnknownMethod(method)
	}

	ctx, span := p.registry.tracer.Start(ctx, "ActorProxy.Call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("actor.id", p.actorID),
			attribute.String("method", method),
		))
	defer span.End()

	result, err := p.send(ctx, method, args, kwargs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !slices.Contains(tags, BlockingTag) {
		return result, nil
	}

	value, err := result.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return future.Completed(value, nil), nil
}

// Close releases the reply channel. Calls still pending fail with
// ErrProxyClosed.
func (p *ActorProxy) Close(ctx context.Context) error {
	err := p.listener.close(ctx)
	for _, call := range p.pending.Drain() {
		call.promise.Failure(gerrors.ErrProxyClosed)
	}
	p.logger.Debug("proxy closed")
	return err
}

// discover fetches the method table of the target actor
func (p *ActorProxy) discover(ctx context.Context, timeout time.Duration) ([]string, error) {
	result, err := p.send(ctx, listMethodsName, nil, nil)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	value, err := result.Get(ctx)
	if err != nil {
		return nil, err
	}

	var listing []string
	if err := value.Decode(&listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (p *ActorProxy) send(ctx context.Context, method string, args []any, kwargs map[string]any) (*future.Future, error) {
	correlationID := uuid.NewString()
	envelope, err := codec.NewEnvelope(correlationID, p.listener.id, method, args, kwargs)
	if err != nil {
		return nil, err
	}

	payload, err := codec.EncodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	// registered ahead of the publish since the reply can come back first
	promise := future.NewPromise()
	p.pending.Set(correlationID, &pendingCall{method: method, promise: promise})

	// Close may have drained the table before the call got in
	if p.listener.closed.Load() {
		p.pending.Delete(correlationID)
		return nil, gerrors.ErrProxyClosed
	}

	attrs := metric.WithAttributes(
		attribute.String("actor.id", p.actorID),
		attribute.String("method", method),
	)

	receivers, err := p.registry.transport.Publish(ctx, actorChannel(p.actorID), payload)
	if err != nil {
		p.pending.Delete(correlationID)
		return nil, err
	}

	p.registry.proxyMetric.CallCount().Add(ctx, 1, attrs)
	if receivers == 0 {
		p.pending.Delete(correlationID)
		p.registry.proxyMetric.UnreachableCount().Add(ctx, 1, attrs)
		return nil, gerrors.NewErrInvalidActor(p.actorID)
	}
	return promise.Future(), nil
}

func (p *ActorProxy) resolve(reply *codec.Reply) bool {
	call, ok := p.pending.Pop(reply.CorrelationID)
	if !ok {
		return false
	}

	if failure, failed := codec.DecodeFailure(reply.Result); failed {
		call.promise.Failure(failureError(call.method, failure))
		return true
	}

	call.promise.Success(future.NewValue(reply.Result))
	return true
}

func (p *ActorProxy) setMethods(listing []string) {
	p.listing = slices.Clone(listing)
	slices.Sort(p.listing)
	p.methods = make(map[string][]string, len(listing))
	for _, entry := range listing {
		name, tags := codec.ParseMethod(entry)
		p.methods[name] = tags
	}
}
