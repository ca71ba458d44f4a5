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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ActorMetric defines the actor dispatch instrumentation
type ActorMetric struct {
	// Specifies the total number of envelopes dispatched to a method
	dispatchedCount metric.Int64Counter
	// Specifies the total number of envelopes naming an unknown method
	unknownMethodCount metric.Int64Counter
	// Specifies the total number of methods that returned an error or panicked
	failureCount metric.Int64Counter
	// Specifies the dispatch duration expressed in milliseconds
	dispatchDuration metric.Int64Histogram
}

// NewActorMetric creates an instance of ActorMetric
func NewActorMetric(meter metric.Meter) (*ActorMetric, error) {
	actorMetric := new(ActorMetric)
	var err error
	if actorMetric.dispatchedCount, err = meter.Int64Counter(
		"actor_dispatched_count",
		metric.WithDescription("Total number of envelopes dispatched to a method"),
	); err != nil {
		return nil, fmt.Errorf("failed to create dispatchedCount instrument, %w", err)
	}

	if actorMetric.unknownMethodCount, err = meter.Int64Counter(
		"actor_unknown_method_count",
		metric.WithDescription("Total number of envelopes naming an unknown method"),
	); err != nil {
		return nil, fmt.Errorf("failed to create unknownMethodCount instrument, %w", err)
	}

	if actorMetric.failureCount, err = meter.Int64Counter(
		"actor_method_failure_count",
		metric.WithDescription("Total number of method invocations that failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failureCount instrument, %w", err)
	}

	if actorMetric.dispatchDuration, err = meter.Int64Histogram(
		"actor_dispatch_duration",
		metric.WithDescription("The latency of a dispatched method in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create dispatchDuration instrument, %w", err)
	}

	return actorMetric, nil
}

// DispatchedCount returns the total number of envelopes dispatched to a method
func (x *ActorMetric) DispatchedCount() metric.Int64Counter {
	return x.dispatchedCount
}

// UnknownMethodCount returns the total number of envelopes naming an unknown method
func (x *ActorMetric) UnknownMethodCount() metric.Int64Counter {
	return x.unknownMethodCount
}

// FailureCount returns the total number of failed method invocations
func (x *ActorMetric) FailureCount() metric.Int64Counter {
	return x.failureCount
}

// DispatchDuration returns the dispatch latency in milliseconds
func (x *ActorMetric) DispatchDuration() metric.Int64Histogram {
	return x.dispatchDuration
}
