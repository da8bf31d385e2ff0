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

// Package wrap layers key transforms, value codecs, access guards, and
// derived capabilities over a kv.Store backend, producing one mapping-like
// object addressed by interface keys and objects.
//
// Every layer implements Map and delegates to an inner Map, so independent
// behaviors (read-only enforcement, overwrite prevention, filtered views,
// caching, logging) stack in any order over the same base.
package wrap

import (
	"context"

	"github.com/kvlens/kvlens/codec"
	"github.com/kvlens/kvlens/kv"
)

// Map is the caller-facing shape of a composed store: the backend's
// operations translated to interface keys and objects, plus containment and
// size. All layers in a composition implement it.
type Map[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error

	// Iter calls f for each key, in the backend's iteration order surfaced
	// through the key transform. f returns false to stop early.
	Iter(ctx context.Context, f func(key string) (bool, error)) error

	Has(ctx context.Context, key string) (bool, error)
	Len(ctx context.Context) (int, error)
}

// Store is the base composition: one backend, one key transform, one value
// codec. Reads and writes pass key and value through the transforms at the
// boundary; the backend's content and iteration order are otherwise
// untouched.
type Store[V any] struct {
	backend kv.Store
	keys    KeyTransform
	vals    codec.Codec[V]
	cond    kv.ConditionalSetter // nil when the backend has no native conditional write
}

var _ Map[[]byte] = (*Store[[]byte])(nil)

// NewStore composes backend, key transform, and codec. The structure is
// fixed from here on; transforms are not swapped at runtime.
func NewStore[V any](backend kv.Store, keys KeyTransform, vals codec.Codec[V]) *Store[V] {
	cond, _ := backend.(kv.ConditionalSetter)
	return &Store[V]{backend: backend, keys: keys, vals: vals, cond: cond}
}

// Backend returns the wrapped backend. The store holds only this reference
// and has no teardown of its own.
func (s *Store[V]) Backend() kv.Store {
	return s.backend
}

func (s *Store[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	id, err := s.keys.IDOfKey(key)
	if err != nil {
		return zero, err
	}
	data, err := s.backend.Get(ctx, id)
	if err != nil {
		if kv.IsNotFound(err) {
			return zero, kv.NotFound{Key: key}
		}
		return zero, err
	}
	return s.vals.Decode(data)
}

func (s *Store[V]) Set(ctx context.Context, key string, value V) error {
	id, err := s.keys.IDOfKey(key)
	if err != nil {
		return err
	}
	data, err := s.vals.Encode(value)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, id, data)
}

// SetIfAbsent writes only when the key is not already present, reporting
// whether the write happened. When the backend implements
// kv.ConditionalSetter this is atomic; otherwise it falls back to a
// check-then-write sequence that is only safe for a single writer.
func (s *Store[V]) SetIfAbsent(ctx context.Context, key string, value V) (bool, error) {
	id, err := s.keys.IDOfKey(key)
	if err != nil {
		return false, err
	}
	data, err := s.vals.Encode(value)
	if err != nil {
		return false, err
	}
	if s.cond != nil {
		return s.cond.SetIfAbsent(ctx, id, data)
	}
	has, err := kv.HasFromGet(ctx, s.backend, id)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}
	return true, s.backend.Set(ctx, id, data)
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	id, err := s.keys.IDOfKey(key)
	if err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		if kv.IsNotFound(err) {
			return kv.NotFound{Key: key}
		}
		return err
	}
	return nil
}

func (s *Store[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return s.backend.Iter(ctx, func(id string) (bool, error) {
		return f(s.keys.KeyOfID(id))
	})
}

// Has derives containment from a single backend lookup; NotFound becomes
// false, any other failure propagates.
func (s *Store[V]) Has(ctx context.Context, key string) (bool, error) {
	id, err := s.keys.IDOfKey(key)
	if err != nil {
		return false, err
	}
	return kv.HasFromGet(ctx, s.backend, id)
}

// Len derives size by counting the backend's iteration.
func (s *Store[V]) Len(ctx context.Context) (int, error) {
	return kv.CountFromIter(ctx, s.backend)
}
