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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNameConflict is returned when an actor identifier is already claimed in the cluster.
	ErrNameConflict = errors.New("actor identifier is already in use")

	// ErrRegistrationFailed is returned when the registry set did not change on add.
	ErrRegistrationFailed = errors.New("failed adding actor to the registry")

	// ErrInvalidProxy is returned when a proxy is given neither or both of an actor and an identifier.
	ErrInvalidProxy = errors.New("proxy requires exactly one of an actor or an actor identifier")

	// ErrInvalidActor is returned when a call reaches no subscriber on the actor inbox.
	ErrInvalidActor = errors.New("actor does not exist")

	// ErrEmptyCluster is returned when a call reaches no subscriber on the cluster channel.
	ErrEmptyCluster = errors.New("cluster channel has no members")

	// ErrUnknownMethod is returned when a method name is absent from the target method table.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrAlreadyStarted is returned when starting an actor twice.
	ErrAlreadyStarted = errors.New("actor is already started")

	// ErrActorStopped is returned when operating on a stopped actor.
	ErrActorStopped = errors.New("actor is stopped")

	// ErrProxyClosed is returned when calling through a closed proxy.
	ErrProxyClosed = errors.New("proxy is closed")

	// ErrReservedName is returned when an actor declares a method with a lifecycle name.
	ErrReservedName = errors.New("method name is reserved")

	// ErrInvalidArgument is returned when a call argument is missing or cannot be decoded.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRequestTimeout indicates that a Future was not resolved before its deadline.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrKeyNotFound is returned by the transport when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrSubscriptionClosed is returned when using a closed subscription.
	ErrSubscriptionClosed = errors.New("subscription is closed")

	// ErrInvalidLockExpiry is returned when a lock expiry is not strictly positive.
	ErrInvalidLockExpiry = errors.New("lock expiry must be greater than zero")

	// ErrInvalidEnvelope is returned when a wire message cannot be decoded.
	ErrInvalidEnvelope = errors.New("invalid envelope")
)

// NewErrNameConflict formats an ErrNameConflict with the given actor identifier.
func NewErrNameConflict(id string) error {
	return fmt.Errorf("(actor=%s) %w", id, ErrNameConflict)
}

// NewErrRegistrationFailed formats an ErrRegistrationFailed with the given actor identifier.
func NewErrRegistrationFailed(id string) error {
	return fmt.Errorf("(actor=%s) %w", id, ErrRegistrationFailed)
}

// NewErrInvalidActor formats an ErrInvalidActor with the given actor identifier.
func NewErrInvalidActor(id string) error {
	return fmt.Errorf("(actor=%s) %w", id, ErrInvalidActor)
}

// NewErrEmptyCluster formats an ErrEmptyCluster with the given cluster name.
func NewErrEmptyCluster(name string) error {
	return fmt.Errorf("(cluster=%s) %w", name, ErrEmptyCluster)
}

// NewErrUnknownMethod formats an ErrUnknownMethod with the given method name.
func NewErrUnknownMethod(method string) error {
	return fmt.Errorf("(method=%s) %w", method, ErrUnknownMethod)
}

// NewErrReservedName formats an ErrReservedName with the given method name.
func NewErrReservedName(method string) error {
	return fmt.Errorf("(method=%s) %w", method, ErrReservedName)
}

// NewErrInvalidArgument wraps the decoding failure of a call argument.
func NewErrInvalidArgument(position string, err error) error {
	if err == nil {
		return fmt.Errorf("(argument=%s) %w", position, ErrInvalidArgument)
	}
	return fmt.Errorf("(argument=%s) %w: %w", position, ErrInvalidArgument, err)
}

// NewErrInvalidEnvelope wraps a decoding failure into an ErrInvalidEnvelope.
func NewErrInvalidEnvelope(err error) error {
	return errors.Join(ErrInvalidEnvelope, err)
}

// RemoteError carries the failure reported by a remote method
type RemoteError struct {
	method  string
	message string
}

// enforce compilation error
var _ error = (*RemoteError)(nil)

// NewRemoteError creates an instance of RemoteError
func NewRemoteError(method, message string) *RemoteError {
	return &RemoteError{method: method, message: message}
}

// Error implements the standard error interface
func (e *RemoteError) Error() string {
	if e.method == "" {
		return fmt.Sprintf("remote failure: %s", e.message)
	}
	return fmt.Sprintf("remote failure (method=%s): %s", e.method, e.message)
}

// Message returns the failure message sent by the remote actor
func (e *RemoteError) Message() string {
	return e.message
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
