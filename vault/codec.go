// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

// Codec is the capability a payload type must offer to be stored in a vault:
// deterministic encoding to bytes, decoding back into the same type, and a
// human-readable rendering for diagnostics.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
	Describe(v T) string
}

// JSONCodec encodes payloads with encoding/json.
//
// Decoding is strict: unknown object keys and trailing data are errors, so a
// vault written for one struct type does not silently decode into another.
type JSONCodec[T any] struct{}

// Encode implements [Codec].
func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements [Codec].
func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, errors.New("unexpected data after JSON value")
	}

	return v, nil
}

// Describe implements [Codec].
func (JSONCodec[T]) Describe(v T) string {
	return fmt.Sprintf("%+v", v)
}

// ProtoCodec encodes protobuf messages with deterministic field ordering.
// T must be a generated message pointer type such as *pb.Profile.
type ProtoCodec[T proto.Message] struct{}

// Encode implements [Codec].
func (ProtoCodec[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

// Decode implements [Codec].
func (ProtoCodec[T]) Decode(data []byte) (T, error) {
	var zero T

	msg, ok := zero.ProtoReflect().Type().New().Interface().(T)
	if !ok {
		return zero, fmt.Errorf("cannot instantiate %T", zero)
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return zero, err
	}
	return msg, nil
}

// Describe implements [Codec].
func (ProtoCodec[T]) Describe(v T) string {
	return prototext.Format(v)
}
