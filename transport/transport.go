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

// Package transport defines the publish/subscribe and atomic key-value
// primitives the actor runtime is built on, together with a redis
// implementation backed by go-redis.
package transport

import (
	"context"
	"time"
)

// Message is a payload received on a subscribed channel
type Message struct {
	// Channel is the channel the payload was published on
	Channel string
	// Payload is the raw published payload
	Payload []byte
}

// Transport is the pub/sub collaborator shared by actors, proxies and the registry.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Publish sends payload on channel and returns the number of subscribers that received it.
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
	// Subscribe opens a subscription already confirmed on the given channels.
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)
	// SetNX stores value under key only when the key does not exist.
	SetNX(ctx context.Context, key, value string) (bool, error)
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// GetSet stores value under key and returns the previous value or ErrKeyNotFound.
	GetSet(ctx context.Context, key, value string) (string, error)
	// Expire sets a time to live on key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
	// SetAdd adds member to set and reports whether the set changed.
	SetAdd(ctx context.Context, set, member string) (bool, error)
	// SetRemove removes member from set.
	SetRemove(ctx context.Context, set, member string) error
	// SetIsMember reports whether member belongs to set.
	SetIsMember(ctx context.Context, set, member string) (bool, error)
	// SetMembers lists the members of set.
	SetMembers(ctx context.Context, set string) ([]string, error)
	// Close releases the underlying connections.
	Close() error
}

// Subscription is a single connection listening on a changing set of channels.
//
// Subscribe and Unsubscribe return once the server acknowledged the change:
// a publish issued after Subscribe returns counts this subscription and a
// publish issued after Unsubscribe returns does not.
type Subscription interface {
	// Subscribe adds channels to the subscription.
	Subscribe(ctx context.Context, channels ...string) error
	// Unsubscribe removes channels from the subscription.
	Unsubscribe(ctx context.Context, channels ...string) error
	// Messages returns the stream of received messages. It is closed when the
	// subscription is closed.
	Messages() <-chan *Message
	// Drain discards every message received from now on. Acknowledgements are
	// still processed, so Unsubscribe completes when nobody reads Messages.
	Drain()
	// Close terminates the subscription.
	Close() error
}
