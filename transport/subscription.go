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

package transport

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/log"
)

const (
	kindSubscribe   = "subscribe"
	kindUnsubscribe = "unsubscribe"
)

// subscription consumes a go-redis PubSub from a single goroutine. Server
// acknowledgements release the callers waiting in Subscribe/Unsubscribe and
// published payloads are forwarded to messages.
type subscription struct {
	pubsub   *redis.PubSub
	incoming <-chan any
	messages chan *Message
	logger   log.Logger

	mu      sync.Mutex
	waiters map[string][]chan struct{}

	draining  chan struct{}
	drainOnce sync.Once
	closing   chan struct{}
	closeOnce sync.Once
}

var _ Subscription = (*subscription)(nil)

func newSubscription(pubsub *redis.PubSub, buffer int, logger log.Logger) *subscription {
	sub := &subscription{
		pubsub:   pubsub,
		incoming: pubsub.ChannelWithSubscriptions(redis.WithChannelSize(buffer)),
		messages: make(chan *Message, buffer),
		logger:   logger,
		waiters:  make(map[string][]chan struct{}),
		draining: make(chan struct{}),
		closing:  make(chan struct{}),
	}
	go sub.consume()
	return sub
}

// Subscribe adds channels and waits for their acknowledgements
func (x *subscription) Subscribe(ctx context.Context, channels ...string) error {
	return x.change(ctx, kindSubscribe, channels, x.pubsub.Subscribe)
}

// Unsubscribe removes channels and waits for their acknowledgements
func (x *subscription) Unsubscribe(ctx context.Context, channels ...string) error {
	return x.change(ctx, kindUnsubscribe, channels, x.pubsub.Unsubscribe)
}

// Messages returns the received messages
func (x *subscription) Messages() <-chan *Message {
	return x.messages
}

// Drain discards the messages received from now on
func (x *subscription) Drain() {
	x.drainOnce.Do(func() { close(x.draining) })
}

// Close terminates the pub/sub connection. It is safe to call multiple times.
func (x *subscription) Close() error {
	var err error
	x.closeOnce.Do(func() {
		close(x.closing)
		err = x.pubsub.Close()
	})
	return err
}

func (x *subscription) change(ctx context.Context, kind string, channels []string, send func(context.Context, ...string) error) error {
	if len(channels) == 0 {
		return nil
	}

	select {
	case <-x.closing:
		return gerrors.ErrSubscriptionClosed
	default:
	}

	acks := make([]chan struct{}, 0, len(channels))
	x.mu.Lock()
	for _, channel := range channels {
		ack := make(chan struct{})
		key := kind + ":" + channel
		x.waiters[key] = append(x.waiters[key], ack)
		acks = append(acks, ack)
	}
	x.mu.Unlock()

	if err := send(ctx, channels...); err != nil {
		x.discard(kind, channels, acks)
		return err
	}

	for _, ack := range acks {
		select {
		case <-ack:
		case <-x.closing:
			return gerrors.ErrSubscriptionClosed
		case <-ctx.Done():
			x.discard(kind, channels, acks)
			return ctx.Err()
		}
	}
	return nil
}

// acknowledge releases the oldest waiter registered for the confirmation
func (x *subscription) acknowledge(kind, channel string) {
	key := kind + ":" + channel
	x.mu.Lock()
	defer x.mu.Unlock()

	pending := x.waiters[key]
	if len(pending) == 0 {
		return
	}

	close(pending[0])
	if len(pending) == 1 {
		delete(x.waiters, key)
		return
	}
	x.waiters[key] = pending[1:]
}

// discard removes waiters that will never be acknowledged
func (x *subscription) discard(kind string, channels []string, acks []chan struct{}) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, channel := range channels {
		key := kind + ":" + channel
		pending := x.waiters[key]
		for j, ack := range pending {
			if ack == acks[i] {
				pending = append(pending[:j], pending[j+1:]...)
				break
			}
		}
		if len(pending) == 0 {
			delete(x.waiters, key)
			continue
		}
		x.waiters[key] = pending
	}
}

// consume reads incoming until go-redis closes it after Close, so its
// receiving goroutine never blocks on a full channel
func (x *subscription) consume() {
	defer close(x.messages)
	for received := range x.incoming {
		switch msg := received.(type) {
		case *redis.Subscription:
			x.acknowledge(msg.Kind, msg.Channel)
		case *redis.Message:
			x.deliver(&Message{Channel: msg.Channel, Payload: []byte(msg.Payload)})
		default:
			x.logger.Debugf("ignoring pub/sub notification %T", received)
		}
	}
}

func (x *subscription) deliver(message *Message) {
	select {
	case x.messages <- message:
	case <-x.draining:
	case <-x.closing:
	}
}
