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
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/internal/codec"
	imetric "github.com/tochemey/redactor/internal/metric"
	"github.com/tochemey/redactor/log"
	"github.com/tochemey/redactor/transport"
)

// replyListener owns the reply channel of a proxy. Every decoded reply is
// handed to resolve, which reports whether a pending call matched it.
type replyListener struct {
	id           string
	channel      string
	subscription transport.Subscription
	logger       log.Logger
	metric       *imetric.ProxyMetric
	resolve      func(reply *codec.Reply) bool

	closed    *atomic.Bool
	stopping  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func openReplyListener(ctx context.Context, registry *Registry, logger log.Logger, resolve func(reply *codec.Reply) bool) (*replyListener, error) {
	id := uuid.NewString()
	channel := proxyChannel(id)

	subscription, err := registry.transport.Subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}

	listener := &replyListener{
		id:           id,
		channel:      channel,
		subscription: subscription,
		logger:       logger.With("proxy", id),
		metric:       registry.proxyMetric,
		resolve:      resolve,
		closed:       atomic.NewBool(false),
		stopping:     make(chan struct{}),
		done:         make(chan struct{}),
	}

	go listener.listen()
	return listener, nil
}

func (x *replyListener) listen() {
	defer close(x.done)
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("proxy.id", x.id))
	messages := x.subscription.Messages()
	for {
		select {
		case <-x.stopping:
			return
		case message, ok := <-messages:
			if !ok {
				return
			}

			reply, err := codec.DecodeReply(message.Payload)
			if err != nil {
				x.logger.Errorf("failed to decode reply: %v", err)
				continue
			}

			x.metric.ReplyCount().Add(ctx, 1, attrs)
			if !x.resolve(reply) {
				x.metric.DroppedReplyCount().Add(ctx, 1, attrs)
				x.logger.Debugf("dropping reply for unknown correlation id=(%s)", reply.CorrelationID)
			}
		}
	}
}

func (x *replyListener) close(ctx context.Context) error {
	x.closeOnce.Do(func() {
		x.closed.Store(true)
		close(x.stopping)
		x.subscription.Drain()
		x.closeErr = multierr.Combine(
			x.subscription.Unsubscribe(ctx, x.channel),
			x.subscription.Close(),
		)
	})
	return x.closeErr
}

// failureError turns a failure reply into the caller's error
func failureError(method string, failure *codec.Failure) error {
	if failure.Kind == codec.FailureUnknownMethod {
		return gerrors.NewErrUnknownMethod(method)
	}
	return gerrors.NewRemoteError(method, failure.Message)
}
