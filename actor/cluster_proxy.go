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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/future"
	"github.com/tochemey/redactor/internal/codec"
	"github.com/tochemey/redactor/log"
)

// clusterCall tracks the replies of one broadcast. Replies received before
// the receiver count is known are held in early.
type clusterCall struct {
	method    string
	aggregate *future.Aggregate
	seeded    bool
	remaining int64
	early     []*codec.Reply
}

// ClusterProxy broadcasts method calls to every actor that joined a
// cluster channel and aggregates their replies.
type ClusterProxy struct {
	name     string
	registry *Registry
	logger   log.Logger
	listener *replyListener

	mu      sync.Mutex
	pending map[string]*clusterCall
}

// NewClusterProxy creates a proxy addressing the named cluster
func NewClusterProxy(ctx context.Context, registry *Registry, name string) (*ClusterProxy, error) {
	if registry == nil {
		return nil, gerrors.NewErrInvalidArgument("registry", nil)
	}

	if name == "" {
		return nil, gerrors.NewErrInvalidArgument("name", nil)
	}

	proxy := &ClusterProxy{
		name:     name,
		registry: registry,
		pending:  make(map[string]*clusterCall),
	}

	listener, err := openReplyListener(ctx, registry, registry.logger, proxy.resolve)
	if err != nil {
		return nil, err
	}

	proxy.listener = listener
	proxy.logger = listener.logger.With("cluster", name)
	return proxy, nil
}

// ID returns the proxy identifier naming its reply channel
func (p *ClusterProxy) ID() string {
	return p.listener.id
}

// Name returns the cluster name
func (p *ClusterProxy) Name() string {
	return p.name
}

// Call broadcasts the method with positional arguments. It fails with
// ErrEmptyCluster when no actor joined the cluster. The first value of the
// returned Aggregate is the number n of actors that received the call; it
// is followed by exactly n replies in arrival order.
func (p *ClusterProxy) Call(ctx context.Context, method string, args ...any) (*future.Aggregate, error) {
	return p.CallWithKwargs(ctx, method, nil, args...)
}

// CallWithKwargs is like Call with keyword arguments
func (p *ClusterProxy) CallWithKwargs(ctx context.Context, method string, kwargs map[string]any, args ...any) (*future.Aggregate, error) {
	if p.listener.closed.Load() {
		return nil, gerrors.ErrProxyClosed
	}

	ctx, span := p.registry.tracer.Start(ctx, "ClusterProxy.Call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cluster", p.name),
			attribute.String("method", method),
		))
	defer span.End()

	aggregate, err := p.broadcast(ctx, method, args, kwargs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return aggregate, nil
}

// Pending returns the number of calls still awaiting replies
func (p *ClusterProxy) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Close releases the reply channel. Every reply still awaited is
// delivered as ErrProxyClosed.
func (p *ClusterProxy) Close(ctx context.Context) error {
	err := p.listener.close(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	for correlationID, call := range p.pending {
		for range call.remaining {
			call.aggregate.Fail(gerrors.ErrProxyClosed)
		}
		call.remaining = 0
		delete(p.pending, correlationID)
	}
	p.logger.Debug("proxy closed")
	return err
}

func (p *ClusterProxy) broadcast(ctx context.Context, method string, args []any, kwargs map[string]any) (*future.Aggregate, error) {
	correlationID := uuid.NewString()
	envelope, err := codec.NewEnvelope(correlationID, p.listener.id, method, args, kwargs)
	if err != nil {
		return nil, err
	}

	payload, err := codec.EncodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	call := &clusterCall{method: method, aggregate: future.NewAggregate()}
	p.mu.Lock()
	p.pending[correlationID] = call
	p.mu.Unlock()

	attrs := metric.WithAttributes(
		attribute.String("cluster", p.name),
		attribute.String("method", method),
	)

	receivers, err := p.registry.transport.Publish(ctx, clusterChannel(p.name), payload)
	if err != nil {
		p.forget(correlationID)
		return nil, err
	}

	p.registry.proxyMetric.CallCount().Add(ctx, 1, attrs)
	if receivers == 0 {
		p.forget(correlationID)
		p.registry.proxyMetric.UnreachableCount().Add(ctx, 1, attrs)
		return nil, gerrors.NewErrEmptyCluster(p.name)
	}

	seed, err := future.EncodeValue(receivers)
	if err != nil {
		p.forget(correlationID)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	call.aggregate.Put(seed)
	call.seeded = true
	call.remaining = receivers
	for _, reply := range call.early {
		p.deliver(call, reply)
	}
	call.early = nil

	// Close ran while publishing and found nothing to fail yet
	if p.listener.closed.Load() {
		for range call.remaining {
			call.aggregate.Fail(gerrors.ErrProxyClosed)
		}
		call.remaining = 0
	}

	if call.remaining <= 0 {
		delete(p.pending, correlationID)
	}
	return call.aggregate, nil
}

func (p *ClusterProxy) resolve(reply *codec.Reply) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	call, ok := p.pending[reply.CorrelationID]
	if !ok {
		return false
	}

	if !call.seeded {
		call.early = append(call.early, reply)
		return true
	}

	p.deliver(call, reply)
	if call.remaining <= 0 {
		delete(p.pending, reply.CorrelationID)
	}
	return true
}

// deliver hands one reply to the aggregate. The caller holds the lock.
func (p *ClusterProxy) deliver(call *clusterCall, reply *codec.Reply) {
	if call.remaining <= 0 {
		return
	}

	call.remaining--
	if failure, failed := codec.DecodeFailure(reply.Result); failed {
		call.aggregate.Fail(failureError(call.method, failure))
		return
	}
	call.aggregate.Put(future.NewValue(reply.Result))
}

func (p *ClusterProxy) forget(correlationID string) {
	p.mu.Lock()
	delete(p.pending, correlationID)
	p.mu.Unlock()
}
