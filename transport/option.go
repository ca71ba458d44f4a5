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
	"crypto/tls"
	"time"

	"github.com/tochemey/redactor/log"
)

const (
	defaultAddress            = "127.0.0.1:6379"
	defaultDialTimeout        = 5 * time.Second
	defaultConnectRetries     = 3
	defaultSubscriptionBuffer = 256
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

// Apply applies the options to Config
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// Config holds the redis connection settings
type Config struct {
	address            string
	username           string
	password           string
	db                 int
	poolSize           int
	dialTimeout        time.Duration
	tlsConfig          *tls.Config
	connectRetries     int
	subscriptionBuffer int
	logger             log.Logger
}

func defaultConfig() *Config {
	return &Config{
		address:            defaultAddress,
		dialTimeout:        defaultDialTimeout,
		connectRetries:     defaultConnectRetries,
		subscriptionBuffer: defaultSubscriptionBuffer,
		logger:             log.DefaultLogger,
	}
}

// WithAddress sets the redis host:port
func WithAddress(address string) Option {
	return OptionFunc(func(c *Config) {
		c.address = address
	})
}

// WithUsername sets the ACL username
func WithUsername(username string) Option {
	return OptionFunc(func(c *Config) {
		c.username = username
	})
}

// WithPassword sets the connection password
func WithPassword(password string) Option {
	return OptionFunc(func(c *Config) {
		c.password = password
	})
}

// WithDB selects the redis logical database.
// Pub/sub channels are shared across databases, keys and sets are not.
func WithDB(db int) Option {
	return OptionFunc(func(c *Config) {
		c.db = db
	})
}

// WithPoolSize sets the maximum number of socket connections
func WithPoolSize(size int) Option {
	return OptionFunc(func(c *Config) {
		c.poolSize = size
	})
}

// WithDialTimeout sets the timeout for establishing new connections
func WithDialTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.dialTimeout = timeout
	})
}

// WithTLSConfig enables TLS towards the redis server
func WithTLSConfig(config *tls.Config) Option {
	return OptionFunc(func(c *Config) {
		c.tlsConfig = config
	})
}

// WithConnectRetries sets how many times the initial ping is attempted
func WithConnectRetries(retries int) Option {
	return OptionFunc(func(c *Config) {
		if retries > 0 {
			c.connectRetries = retries
		}
	})
}

// WithSubscriptionBuffer sets the number of messages buffered per subscription
func WithSubscriptionBuffer(size int) Option {
	return OptionFunc(func(c *Config) {
		if size > 0 {
			c.subscriptionBuffer = size
		}
	})
}

// WithLogger sets the transport logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *Config) {
		c.logger = logger
	})
}
