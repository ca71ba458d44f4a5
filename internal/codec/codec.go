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

// Package codec implements the wire format shared by actors and proxies.
//
// Every message is CBOR. An envelope is the 5-element array
// [correlation_id, reply_to, method, args, kwargs] and a reply is the
// 2-element array [correlation_id, result]. A failed call carries, as its
// result, the tag FailureTag wrapping [kind, message].
package codec

import (
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"

	gerrors "github.com/tochemey/redactor/errors"
)

// FailureTag is the CBOR tag number marking a failed call result
const FailureTag uint64 = 64017

const (
	// FailureUnknownMethod is reported when the callee has no such method
	FailureUnknownMethod = "unknown-method"
	// FailureMethod is reported when the method returned an error or panicked
	FailureMethod = "method-failure"
)

const tagSeparator = ":"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		Time:          cbor.TimeUnixDynamic,
		NilContainers: cbor.NilContainerAsEmpty,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		IntDec:          cbor.IntDecConvertSigned,
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Envelope is a method invocation on the wire. An empty Method marks a
// liveness probe.
type Envelope struct {
	_             struct{} `cbor:",toarray"`
	CorrelationID string
	ReplyTo       string
	Method        string
	Args          []cbor.RawMessage
	Kwargs        map[string]cbor.RawMessage
}

// Reply carries the result of one invocation back to the caller
type Reply struct {
	_             struct{} `cbor:",toarray"`
	CorrelationID string
	Result        cbor.RawMessage
}

// Failure describes a failed invocation
type Failure struct {
	_       struct{} `cbor:",toarray"`
	Kind    string
	Message string
}

// NewEnvelope encodes the positional and keyword arguments of a call
func NewEnvelope(correlationID, replyTo, method string, args []any, kwargs map[string]any) (*Envelope, error) {
	envelope := &Envelope{
		CorrelationID: correlationID,
		ReplyTo:       replyTo,
		Method:        method,
		Args:          make([]cbor.RawMessage, 0, len(args)),
		Kwargs:        make(map[string]cbor.RawMessage, len(kwargs)),
	}

	for _, arg := range args {
		raw, err := Marshal(arg)
		if err != nil {
			return nil, err
		}
		envelope.Args = append(envelope.Args, raw)
	}

	for name, arg := range kwargs {
		raw, err := Marshal(arg)
		if err != nil {
			return nil, err
		}
		envelope.Kwargs[name] = raw
	}
	return envelope, nil
}

// Marshal encodes a single value
func Marshal(value any) (cbor.RawMessage, error) {
	return encMode.Marshal(value)
}

// Unmarshal decodes a single value into target
func Unmarshal(raw []byte, target any) error {
	return decMode.Unmarshal(raw, target)
}

// EncodeEnvelope serializes an envelope
func EncodeEnvelope(envelope *Envelope) ([]byte, error) {
	return encMode.Marshal(envelope)
}

// DecodeEnvelope deserializes an envelope
func DecodeEnvelope(payload []byte) (*Envelope, error) {
	envelope := new(Envelope)
	if err := decMode.Unmarshal(payload, envelope); err != nil {
		return nil, gerrors.NewErrInvalidEnvelope(err)
	}
	return envelope, nil
}

// EncodeReply serializes a reply
func EncodeReply(reply *Reply) ([]byte, error) {
	return encMode.Marshal(reply)
}

// DecodeReply deserializes a reply
func DecodeReply(payload []byte) (*Reply, error) {
	reply := new(Reply)
	if err := decMode.Unmarshal(payload, reply); err != nil {
		return nil, gerrors.NewErrInvalidEnvelope(err)
	}
	return reply, nil
}

// EncodeFailure builds the tagged result of a failed invocation
func EncodeFailure(kind, message string) (cbor.RawMessage, error) {
	return encMode.Marshal(cbor.Tag{
		Number:  FailureTag,
		Content: &Failure{Kind: kind, Message: message},
	})
}

// DecodeFailure reports whether raw is a failure result and decodes it
func DecodeFailure(raw []byte) (*Failure, bool) {
	// major type 6 is a tag
	if len(raw) == 0 || raw[0]>>5 != 6 {
		return nil, false
	}

	var tag cbor.RawTag
	if err := decMode.Unmarshal(raw, &tag); err != nil || tag.Number != FailureTag {
		return nil, false
	}

	failure := new(Failure)
	if err := decMode.Unmarshal(tag.Content, failure); err != nil {
		return nil, false
	}
	return failure, true
}

// FormatMethod renders a method table entry as name or name:tag1:tag2
func FormatMethod(name string, tags []string) string {
	if len(tags) == 0 {
		return name
	}
	return name + tagSeparator + strings.Join(tags, tagSeparator)
}

// ParseMethod splits a method table entry into its name and tags
func ParseMethod(entry string) (string, []string) {
	parts := strings.Split(entry, tagSeparator)
	return parts[0], parts[1:]
}
