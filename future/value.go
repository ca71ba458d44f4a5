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

package future

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/redactor/internal/codec"
)

// Value is an encoded call result. The zero Value holds nothing and
// decodes as nil.
type Value struct {
	raw cbor.RawMessage
}

// NewValue wraps an already encoded result
func NewValue(raw []byte) Value {
	return Value{raw: raw}
}

// EncodeValue encodes v into a Value
func EncodeValue(v any) (Value, error) {
	raw, err := codec.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: raw}, nil
}

// MustEncodeValue is like EncodeValue but panics when v cannot be encoded
func MustEncodeValue(v any) Value {
	value, err := EncodeValue(v)
	if err != nil {
		panic(err)
	}
	return value
}

// Decode decodes the result into target, which must be a pointer
func (v Value) Decode(target any) error {
	if v.IsZero() {
		return codec.Unmarshal(nullValue, target)
	}
	return codec.Unmarshal(v.raw, target)
}

// Interface decodes the result into its generic representation
func (v Value) Interface() (any, error) {
	var out any
	if err := v.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bytes returns the encoded result
func (v Value) Bytes() []byte {
	return v.raw
}

// IsZero reports whether the Value holds nothing
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

var nullValue = []byte{0xf6}
