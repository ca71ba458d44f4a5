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

package lock

import "time"

const (
	// DefaultExpiry is the lock duration applied when none is given
	DefaultExpiry = 3 * time.Second
	// DefaultContext is the namespace applied to lock names when none is given
	DefaultContext = "global.lock"
)

// Option is the interface that applies a lock option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *config)

// Apply applies the option to the config
func (f OptionFunc) Apply(c *config) {
	f(c)
}

type config struct {
	expiry  time.Duration
	context string
	clock   func() time.Time
}

func newConfig(opts ...Option) *config {
	c := &config{
		expiry:  DefaultExpiry,
		context: DefaultContext,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	return c
}

// WithExpiry sets how long an acquired lock is held at most
func WithExpiry(expiry time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.expiry = expiry
	})
}

// WithContext sets the namespace of the lock key
func WithContext(context string) Option {
	return OptionFunc(func(c *config) {
		c.context = context
	})
}

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return OptionFunc(func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	})
}
