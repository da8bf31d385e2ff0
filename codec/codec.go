// Copyright 2024 KVLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package codec defines the value transform between the objects callers work
// with and the data backends store, plus the stock codecs.
package codec

import (
	"encoding/json"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Codec converts between interface objects and backend data. Decode should
// invert Encode up to the value equality the backend cares about; lossy
// codecs must document which direction is approximate.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// Bytes is the identity codec, the default and terminal case of the value
// transform chain.
type Bytes struct{}

var _ Codec[[]byte] = Bytes{}

func (Bytes) Encode(v []byte) ([]byte, error) {
	return v, nil
}

func (Bytes) Decode(data []byte) ([]byte, error) {
	return data, nil
}

// String decodes backend bytes as UTF-8 text and encodes the reverse.
// Invalid UTF-8 sequences survive the round trip byte-for-byte but decode to
// replacement-character text when printed; callers storing arbitrary binary
// should use Bytes instead.
type String struct{}

var _ Codec[string] = String{}

func (String) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (String) Decode(data []byte) (string, error) {
	return string(data), nil
}

type jsonCodec[V any] struct{}

// JSON returns a codec that serializes values of type V as JSON. Round trips
// are approximate under JSON's equality: map ordering is not preserved and
// numeric types normalize per encoding/json rules.
func JSON[V any]() Codec[V] {
	return jsonCodec[V]{}
}

func (jsonCodec[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	return data, errors.Wrap(err, "codec: json encode")
}

func (jsonCodec[V]) Decode(data []byte) (V, error) {
	var v V
	err := json.Unmarshal(data, &v)
	return v, errors.Wrap(err, "codec: json decode")
}

// Snappy stores byte values snappy-compressed.
type Snappy struct{}

var _ Codec[[]byte] = Snappy{}

func (Snappy) Encode(v []byte) ([]byte, error) {
	return snappy.Encode(nil, v), nil
}

func (Snappy) Decode(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	return out, errors.Wrap(err, "codec: snappy decode")
}
