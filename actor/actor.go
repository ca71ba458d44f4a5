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

// Package actor implements location-transparent actors over a pub/sub
// transport.
//
// An Actor listens on its private channel actor:<id> and any cluster
// channel cluster:<name> it joined, dispatching every envelope to the
// method it names and publishing the result on proxy:<reply_to>.
// Messages sent to one actor are processed one after the other.
package actor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/future"
	"github.com/tochemey/redactor/internal/codec"
	imetric "github.com/tochemey/redactor/internal/metric"
	"github.com/tochemey/redactor/log"
	"github.com/tochemey/redactor/transport"
)

// listMethodsName is the management call answering the method table
const listMethodsName = "listMethods"

// reservedNames cannot be used as method names
var reservedNames = mapset.NewSet("start", "stop", "join", "part", "proxy", listMethodsName)

// ChannelHandler replaces the standard dispatch for the messages received
// on a joined channel. It produces no reply.
type ChannelHandler func(ctx context.Context, call *Call)

// Actor is an addressable unit of behavior with a private inbound channel
type Actor struct {
	id        string
	registry  *Registry
	transport transport.Transport
	logger    log.Logger
	metric    *imetric.ActorMetric

	methods map[string]*Method
	listing []string

	mu           sync.Mutex
	subscription transport.Subscription
	channels     mapset.Set[string]
	handlers     map[string]ChannelHandler
	cancel       context.CancelFunc

	started  *atomic.Bool
	stopped  *atomic.Bool
	stopping chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// New creates an actor and registers its identifier. It fails with
// ErrNameConflict when another actor already listens on or registered the
// identifier.
func New(ctx context.Context, registry *Registry, behavior Behavior, opts ...Option) (*Actor, error) {
	if registry == nil {
		return nil, gerrors.NewErrInvalidArgument("registry", nil)
	}

	if behavior == nil {
		return nil, gerrors.NewErrInvalidArgument("behavior", nil)
	}

	config := new(actorConfig)
	for _, opt := range opts {
		opt.Apply(config)
	}

	id := config.id
	if id == "" {
		id = uuid.NewString()
	}

	methods, listing, err := methodTable(behavior.Methods())
	if err != nil {
		return nil, err
	}

	alive, err := registry.Alive(ctx, id)
	if err != nil {
		return nil, err
	}

	if alive {
		return nil, gerrors.NewErrNameConflict(id)
	}

	if err := registry.Register(ctx, id); err != nil {
		if errors.Is(err, gerrors.ErrRegistrationFailed) {
			return nil, errors.Join(gerrors.NewErrNameConflict(id), err)
		}
		return nil, err
	}

	actor := &Actor{
		id:        id,
		registry:  registry,
		transport: registry.transport,
		logger:    registry.logger.With("actor", id),
		metric:    registry.actorMetric,
		methods:   methods,
		listing:   listing,
		channels:  mapset.NewThreadUnsafeSet[string](),
		handlers:  make(map[string]ChannelHandler),
		started:   atomic.NewBool(false),
		stopped:   atomic.NewBool(false),
		stopping:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	registry.track(actor)
	return actor, nil
}

// methodTable indexes the declared methods and renders the public listing
func methodTable(declared []*Method) (map[string]*Method, []string, error) {
	methods := make(map[string]*Method, len(declared))
	for _, method := range declared {
		if method == nil {
			continue
		}

		if method.name == "" || reservedNames.Contains(method.name) {
			return nil, nil, gerrors.NewErrReservedName(method.name)
		}

		if method.handler == nil {
			return nil, nil, gerrors.NewErrInvalidArgument(method.name, nil)
		}

		methods[method.name] = method
	}

	listing := make([]string, 0, len(methods))
	for _, method := range methods {
		if !method.private() {
			listing = append(listing, method.String())
		}
	}
	slices.Sort(listing)
	return methods, listing, nil
}

// ID returns the actor identifier
func (a *Actor) ID() string {
	return a.id
}

// IsAlive reports whether the actor has not been stopped
func (a *Actor) IsAlive() bool {
	return !a.stopped.Load()
}

// ListMethods returns the sorted public method table, each entry rendered
// as name or name:tag1:tag2
func (a *Actor) ListMethods() []string {
	return slices.Clone(a.listing)
}

// Channels returns the sorted channels the actor listens on or will listen
// on once started
func (a *Actor) Channels() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	channels := append(a.channels.ToSlice(), actorChannel(a.id))
	slices.Sort(channels)
	return channels
}

// Start subscribes to the private channel and the joined channels and
// processes incoming envelopes in the background
func (a *Actor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped.Load() {
		return gerrors.ErrActorStopped
	}

	if a.started.Load() {
		return gerrors.ErrAlreadyStarted
	}

	channels := append([]string{actorChannel(a.id)}, a.channels.ToSlice()...)
	subscription, err := a.transport.Subscribe(ctx, channels...)
	if err != nil {
		return fmt.Errorf("failed to start actor=(%s): %w", a.id, err)
	}

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.subscription = subscription
	a.cancel = cancel
	a.started.Store(true)

	go a.listen(listenCtx, subscription.Messages())
	a.logger.Info("actor started")
	return nil
}

// Stop terminates the listener and unregisters the identifier.
// Only the first call has an effect; later calls return its result.
func (a *Actor) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		a.stopped.Store(true)
		subscription := a.subscription
		cancel := a.cancel
		channels := append([]string{actorChannel(a.id)}, a.channels.ToSlice()...)
		a.mu.Unlock()

		close(a.stopping)

		var err error
		if subscription != nil {
			// the backlog is dropped so the unsubscription gets confirmed,
			// after which later publishes reach nobody
			subscription.Drain()
			err = multierr.Append(err, subscription.Unsubscribe(ctx, channels...))
			err = multierr.Append(err, subscription.Close())
		} else {
			close(a.done)
		}

		if cancel != nil {
			cancel()
		}

		err = multierr.Append(err, a.registry.Unregister(context.WithoutCancel(ctx), a.id))
		a.registry.forget(a)
		a.stopErr = err

		if err != nil {
			a.logger.Errorf("actor stopped with error: %v", err)
			return
		}
		a.logger.Info("actor stopped")
	})
	return a.stopErr
}

// Join subscribes the actor to the named cluster channel. An optional
// handler replaces the standard dispatch for that channel.
func (a *Actor) Join(ctx context.Context, name string, handler ...ChannelHandler) error {
	channel := clusterChannel(name)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped.Load() {
		return gerrors.ErrActorStopped
	}

	if a.subscription != nil && !a.channels.Contains(channel) {
		if err := a.subscription.Subscribe(ctx, channel); err != nil {
			return err
		}
	}

	a.channels.Add(channel)
	if len(handler) > 0 && handler[0] != nil {
		a.handlers[channel] = handler[0]
		return nil
	}
	delete(a.handlers, channel)
	return nil
}

// Part unsubscribes the actor from the named cluster channel
func (a *Actor) Part(ctx context.Context, name string) error {
	channel := clusterChannel(name)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped.Load() {
		return gerrors.ErrActorStopped
	}

	if !a.channels.Contains(channel) {
		return nil
	}

	if a.subscription != nil {
		if err := a.subscription.Unsubscribe(ctx, channel); err != nil {
			return err
		}
	}

	a.channels.Remove(channel)
	delete(a.handlers, channel)
	return nil
}

// Invoke calls a method directly, on the caller goroutine, through its
// decoration pipeline. Private methods can be invoked.
func (a *Actor) Invoke(ctx context.Context, method string, args ...any) (future.Value, error) {
	return a.InvokeWithKwargs(ctx, method, nil, args...)
}

// InvokeWithKwargs is like Invoke with keyword arguments
func (a *Actor) InvokeWithKwargs(ctx context.Context, name string, kwargs map[string]any, args ...any) (future.Value, error) {
	method, ok := a.methods[name]
	if !ok {
		return future.Value{}, gerrors.NewErrUnknownMethod(name)
	}

	envelope, err := codec.NewEnvelope("", "", name, args, kwargs)
	if err != nil {
		return future.Value{}, err
	}

	result, err := a.invoke(ctx, method, newCall(a, "", envelope))
	if err != nil {
		return future.Value{}, err
	}
	return future.EncodeValue(result)
}

// ToProxy returns a proxy to this actor built from its method table
func (a *Actor) ToProxy(ctx context.Context) (*ActorProxy, error) {
	return NewActorProxy(ctx, a.registry, WithActor(a))
}

func (a *Actor) wait(ctx context.Context) error {
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Actor) listen(ctx context.Context, messages <-chan *transport.Message) {
	defer close(a.done)
	for {
		select {
		case <-a.stopping:
			return
		case message, ok := <-messages:
			if !ok {
				return
			}

			select {
			case <-a.stopping:
				return
			default:
			}
			a.handle(ctx, message)
		}
	}
}

func (a *Actor) handle(ctx context.Context, message *transport.Message) {
	envelope, err := codec.DecodeEnvelope(message.Payload)
	if err != nil {
		a.logger.Errorf("failed to decode message received on %s: %v", message.Channel, err)
		return
	}

	// liveness probe
	if envelope.Method == "" {
		return
	}

	if handler := a.channelHandler(message.Channel); handler != nil {
		a.handleWith(ctx, handler, newCall(a, message.Channel, envelope))
		return
	}

	a.dispatch(ctx, message.Channel, envelope)
}

func (a *Actor) channelHandler(channel string) ChannelHandler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handlers[channel]
}

func (a *Actor) handleWith(ctx context.Context, handler ChannelHandler, call *Call) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorf("channel handler on %s panicked: %v", call.channel, r)
		}
	}()
	handler(ctx, call)
}

// dispatch runs the named method and replies to the caller.
// Every failure is replied so the caller's future does not hang.
func (a *Actor) dispatch(ctx context.Context, channel string, envelope *codec.Envelope) {
	if envelope.Method == listMethodsName {
		a.reply(ctx, envelope, a.ListMethods())
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("actor.id", a.id),
		attribute.String("method", envelope.Method),
	)

	method, ok := a.methods[envelope.Method]
	if !ok || method.private() {
		err := gerrors.NewErrUnknownMethod(envelope.Method)
		a.logger.Error(err)
		a.metric.UnknownMethodCount().Add(ctx, 1, attrs)
		a.replyFailure(ctx, envelope, codec.FailureUnknownMethod, err.Error())
		return
	}

	start := time.Now()
	result, err := a.invoke(ctx, method, newCall(a, channel, envelope))
	a.metric.DispatchedCount().Add(ctx, 1, attrs)
	a.metric.DispatchDuration().Record(ctx, time.Since(start).Milliseconds(), attrs)

	if err != nil {
		a.metric.FailureCount().Add(ctx, 1, attrs)
		a.logger.Errorf("method=(%s) failed: %v", envelope.Method, err)
		a.replyFailure(ctx, envelope, codec.FailureMethod, err.Error())
		return
	}

	a.reply(ctx, envelope, result)
}

func (a *Actor) invoke(ctx context.Context, method *Method, call *Call) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = gerrors.NewPanicError(e)
				return
			}
			err = gerrors.NewPanicError(fmt.Errorf("%v", r))
		}
	}()
	return method.Invoke(ctx, call)
}

func (a *Actor) reply(ctx context.Context, envelope *codec.Envelope, result any) {
	if envelope.ReplyTo == "" {
		return
	}

	raw, err := codec.Marshal(result)
	if err != nil {
		a.logger.Errorf("failed to encode the result of method=(%s): %v", envelope.Method, err)
		a.replyFailure(ctx, envelope, codec.FailureMethod, fmt.Sprintf("failed to encode result: %v", err))
		return
	}
	a.publishReply(ctx, envelope, raw)
}

func (a *Actor) replyFailure(ctx context.Context, envelope *codec.Envelope, kind, message string) {
	if envelope.ReplyTo == "" {
		return
	}

	raw, err := codec.EncodeFailure(kind, message)
	if err != nil {
		a.logger.Errorf("failed to encode failure of method=(%s): %v", envelope.Method, err)
		return
	}
	a.publishReply(ctx, envelope, raw)
}

func (a *Actor) publishReply(ctx context.Context, envelope *codec.Envelope, result []byte) {
	payload, err := codec.EncodeReply(&codec.Reply{CorrelationID: envelope.CorrelationID, Result: result})
	if err != nil {
		a.logger.Errorf("failed to encode reply of method=(%s): %v", envelope.Method, err)
		return
	}

	if _, err := a.transport.Publish(ctx, proxyChannel(envelope.ReplyTo), payload); err != nil {
		a.logger.Errorf("failed to publish reply of method=(%s): %v", envelope.Method, err)
	}
}
