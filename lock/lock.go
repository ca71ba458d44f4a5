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

// Package lock implements a time-boxed mutual exclusion shared by every
// process connected to the same transport.
//
// A lock is a key holding the unix time, in seconds, at which it expires.
// A holder that crashes leaves a stale value behind that the next acquirer
// reclaims. The key also carries a transport TTL.
package lock

import (
	"context"
	"errors"
	"strconv"
	"time"

	gerrors "github.com/tochemey/redactor/errors"
	"github.com/tochemey/redactor/transport"
)

// Key returns the transport key of the named lock in the given namespace
func Key(context, name string) string {
	return context + ":" + name
}

// Acquire tries to take the named lock. It reports false without error when
// the lock is held by someone else.
func Acquire(ctx context.Context, t transport.Transport, name string, opts ...Option) (bool, error) {
	config := newConfig(opts...)
	if config.expiry <= 0 {
		return false, gerrors.ErrInvalidLockExpiry
	}

	key := Key(config.context, name)
	now := config.clock()
	expires := formatTimestamp(now.Add(config.expiry))

	acquired, err := t.SetNX(ctx, key, expires)
	if err != nil {
		return false, err
	}

	if !acquired {
		current, err := t.Get(ctx, key)
		if err != nil && !errors.Is(err, gerrors.ErrKeyNotFound) {
			return false, err
		}

		if !expired(current, now) {
			return false, nil
		}

		previous, err := t.GetSet(ctx, key, expires)
		if err != nil && !errors.Is(err, gerrors.ErrKeyNotFound) {
			return false, err
		}

		// someone else reclaimed it between the read and the swap
		if !expired(previous, now) {
			return false, nil
		}
	}

	if err := t.Expire(ctx, key, config.expiry); err != nil {
		return false, err
	}
	return true, nil
}

// Release deletes the named lock
func Release(ctx context.Context, t transport.Transport, name string, opts ...Option) error {
	config := newConfig(opts...)
	return t.Delete(ctx, Key(config.context, name))
}

func formatTimestamp(at time.Time) string {
	return strconv.FormatFloat(float64(at.UnixMicro())/1e6, 'f', 6, 64)
}

// expired reports whether value denotes an expiry at or before now.
// Missing and unparsable values count as expired.
func expired(value string, now time.Time) bool {
	expiresAt, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return true
	}
	return float64(now.UnixMicro())/1e6 >= expiresAt
}
