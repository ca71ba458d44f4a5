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
	"errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/redis/go-redis/v9"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/log"
)

// Redis implements Transport on top of a go-redis client
type Redis struct {
	client             redis.UniversalClient
	logger             log.Logger
	subscriptionBuffer int
	ownsClient         bool
}

// enforce compilation error
var _ Transport = (*Redis)(nil)

// NewRedis connects to redis and verifies the connection with a ping,
// retried up to the configured number of attempts.
func NewRedis(ctx context.Context, opts ...Option) (*Redis, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.address,
		Username:    config.username,
		Password:    config.password,
		DB:          config.db,
		PoolSize:    config.poolSize,
		DialTimeout: config.dialTimeout,
		TLSConfig:   config.tlsConfig,
	})

	retrier := retry.NewRetrier(config.connectRetries, 100*time.Millisecond, config.dialTimeout)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.address, err)
	}

	config.logger.Infof("connected to redis at %s", config.address)
	return &Redis{
		client:             client,
		logger:             config.logger,
		subscriptionBuffer: config.subscriptionBuffer,
		ownsClient:         true,
	}, nil
}

// FromClient wraps an existing go-redis client. Closing the returned
// Transport leaves the client open.
func FromClient(client redis.UniversalClient, opts ...Option) *Redis {
	config := defaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}
	return &Redis{
		client:             client,
		logger:             config.logger,
		subscriptionBuffer: config.subscriptionBuffer,
	}
}

// Publish sends the payload and returns the number of receiving subscribers
func (x *Redis) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	return x.client.Publish(ctx, channel, payload).Result()
}

// Subscribe opens a dedicated pub/sub connection
func (x *Redis) Subscribe(ctx context.Context, channels ...string) (Subscription, error) {
	sub := newSubscription(x.client.Subscribe(ctx), x.subscriptionBuffer, x.logger)
	if len(channels) == 0 {
		return sub, nil
	}

	if err := sub.Subscribe(ctx, channels...); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

// SetNX stores value when key is absent
func (x *Redis) SetNX(ctx context.Context, key, value string) (bool, error) {
	return x.client.SetNX(ctx, key, value, 0).Result()
}

// Get returns the value of key
func (x *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := x.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", gerrors.ErrKeyNotFound
	}
	return value, err
}

// GetSet swaps the value of key and returns the previous one
func (x *Redis) GetSet(ctx context.Context, key, value string) (string, error) {
	previous, err := x.client.GetSet(ctx, key, value).Result()
	if errors.Is(err, redis.Nil) {
		return "", gerrors.ErrKeyNotFound
	}
	return previous, err
}

// Expire sets a millisecond precision time to live on key
func (x *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return x.client.PExpire(ctx, key, ttl).Err()
}

// Delete removes key
func (x *Redis) Delete(ctx context.Context, key string) error {
	return x.client.Del(ctx, key).Err()
}

// SetAdd adds member to set
func (x *Redis) SetAdd(ctx context.Context, set, member string) (bool, error) {
	added, err := x.client.SAdd(ctx, set, member).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

// SetRemove removes member from set
func (x *Redis) SetRemove(ctx context.Context, set, member string) error {
	return x.client.SRem(ctx, set, member).Err()
}

// SetIsMember checks the membership of member
func (x *Redis) SetIsMember(ctx context.Context, set, member string) (bool, error) {
	return x.client.SIsMember(ctx, set, member).Result()
}

// SetMembers lists the members of set
func (x *Redis) SetMembers(ctx context.Context, set string) ([]string, error) {
	return x.client.SMembers(ctx, set).Result()
}

// Close closes the client when it was created by NewRedis
func (x *Redis) Close() error {
	if !x.ownsClient {
		return nil
	}
	return x.client.Close()
}
