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
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tochemey/redactor/log"
)

const (
	// DefaultRegistryKey is the transport set holding the live actor identifiers
	DefaultRegistryKey = "actors"
	// DefaultShutdownTimeout bounds Registry.Shutdown when the context has no deadline
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultDiscoveryTimeout bounds the remote method table lookup of a proxy
	DefaultDiscoveryTimeout = 5 * time.Second
)

// Option is the interface that applies an actor option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *actorConfig)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *actorConfig)

// Apply applies the option
func (f OptionFunc) Apply(c *actorConfig) {
	f(c)
}

type actorConfig struct {
	id string
}

// WithID sets the actor identifier. A random identifier is generated otherwise.
func WithID(id string) Option {
	return OptionFunc(func(c *actorConfig) {
		c.id = id
	})
}

// ProxyOption is the interface that applies an ActorProxy option.
type ProxyOption interface {
	// Apply sets the Option value of a config.
	Apply(config *proxyConfig)
}

var _ ProxyOption = ProxyOptionFunc(nil)

// ProxyOptionFunc implements the ProxyOption interface.
type ProxyOptionFunc func(config *proxyConfig)

// Apply applies the option
func (f ProxyOptionFunc) Apply(c *proxyConfig) {
	f(c)
}

type proxyConfig struct {
	actor            *Actor
	actorID          string
	discoveryTimeout time.Duration
}

// WithActor builds the proxy from a live local actor
func WithActor(actor *Actor) ProxyOption {
	return ProxyOptionFunc(func(c *proxyConfig) {
		c.actor = actor
	})
}

// WithActorID builds the proxy by fetching the method table of the identified actor
func WithActorID(id string) ProxyOption {
	return ProxyOptionFunc(func(c *proxyConfig) {
		c.actorID = id
	})
}

// WithDiscoveryTimeout bounds the remote method table lookup
func WithDiscoveryTimeout(timeout time.Duration) ProxyOption {
	return ProxyOptionFunc(func(c *proxyConfig) {
		c.discoveryTimeout = timeout
	})
}

// RegistryOption is the interface that applies a Registry option.
type RegistryOption interface {
	// Apply sets the Option value of a config.
	Apply(registry *Registry)
}

var _ RegistryOption = RegistryOptionFunc(nil)

// RegistryOptionFunc implements the RegistryOption interface.
type RegistryOptionFunc func(registry *Registry)

// Apply applies the option
func (f RegistryOptionFunc) Apply(r *Registry) {
	f(r)
}

// WithLogger sets the logger shared by the registry, its actors and proxies
func WithLogger(logger log.Logger) RegistryOption {
	return RegistryOptionFunc(func(r *Registry) {
		r.logger = logger
	})
}

// WithRegistryKey sets the transport set holding the live actor identifiers
func WithRegistryKey(key string) RegistryOption {
	return RegistryOptionFunc(func(r *Registry) {
		r.key = key
	})
}

// WithMeterProvider sets the meter provider of the dispatch and call instruments
func WithMeterProvider(provider metric.MeterProvider) RegistryOption {
	return RegistryOptionFunc(func(r *Registry) {
		r.meterProvider = provider
	})
}

// WithTracerProvider sets the tracer provider of the proxy call spans
func WithTracerProvider(provider trace.TracerProvider) RegistryOption {
	return RegistryOptionFunc(func(r *Registry) {
		r.tracerProvider = provider
	})
}

// WithShutdownTimeout bounds Shutdown when its context has no deadline
func WithShutdownTimeout(timeout time.Duration) RegistryOption {
	return RegistryOptionFunc(func(r *Registry) {
		r.shutdownTimeout = timeout
	})
}
