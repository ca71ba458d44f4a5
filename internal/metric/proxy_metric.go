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

// ProxyMetric defines the proxy instrumentation
type ProxyMetric struct {
	// Specifies the total number of calls published
	callCount metric.Int64Counter
	// Specifies the total number of calls that reached no subscriber
	unreachableCount metric.Int64Counter
	// Specifies the total number of replies received
	replyCount metric.Int64Counter
	// Specifies the total number of replies dropped for an unknown correlation id
	droppedReplyCount metric.Int64Counter
}

// NewProxyMetric creates an instance of ProxyMetric
func NewProxyMetric(meter metric.Meter) (*ProxyMetric, error) {
	proxyMetric := new(ProxyMetric)
	var err error
	if proxyMetric.callCount, err = meter.Int64Counter(
		"proxy_call_count",
		metric.WithDescription("Total number of calls published"),
	); err != nil {
		return nil, fmt.Errorf("failed to create callCount instrument, %w", err)
	}

	if proxyMetric.unreachableCount, err = meter.Int64Counter(
		"proxy_unreachable_count",
		metric.WithDescription("Total number of calls that reached no subscriber"),
	); err != nil {
		return nil, fmt.Errorf("failed to create unreachableCount instrument, %w", err)
	}

	if proxyMetric.replyCount, err = meter.Int64Counter(
		"proxy_reply_count",
		metric.WithDescription("Total number of replies received"),
	); err != nil {
		return nil, fmt.Errorf("failed to create replyCount instrument, %w", err)
	}

	if proxyMetric.droppedReplyCount, err = meter.Int64Counter(
		"proxy_dropped_reply_count",
		metric.WithDescription("Total number of replies dropped for an unknown correlation id"),
	); err != nil {
		return nil, fmt.Errorf("failed to create droppedReplyCount instrument, %w", err)
	}

	return proxyMetric, nil
}

// CallCount returns the total number of calls published
func (x *ProxyMetric) CallCount() metric.Int64Counter {
	return x.callCount
}

// UnreachableCount returns the total number of calls that reached no subscriber
func (x *ProxyMetric) UnreachableCount() metric.Int64Counter {
	return x.unreachableCount
}

// ReplyCount returns the total number of replies received
func (x *ProxyMetric) ReplyCount() metric.Int64Counter {
	return x.replyCount
}

// DroppedReplyCount returns the total number of dropped replies
func (x *ProxyMetric) DroppedReplyCount() metric.Int64Counter {
	return x.droppedReplyCount
}
