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

package wrap

import (
	"context"

	"github.com/kvlens/kvlens/kv"
)

type readOnly[V any] struct {
	inner Map[V]
}

// ReadOnly denies every mutating operation before it reaches the next
// layer: Set fails with kv.WritesNotAllowed, Delete with
// kv.DeletionsNotAllowed. Reads pass through unaffected.
func ReadOnly[V any](m Map[V]) Map[V] {
	return readOnly[V]{inner: m}
}

func (r readOnly[V]) Get(ctx context.Context, key string) (V, error) {
	return r.inner.Get(ctx, key)
}

func (r readOnly[V]) Set(ctx context.Context, key string, value V) error {
	return kv.WritesNotAllowed{Key: key}
}

func (r readOnly[V]) Delete(ctx context.Context, key string) error {
	return kv.DeletionsNotAllowed{Key: key}
}

func (r readOnly[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return r.inner.Iter(ctx, f)
}

func (r readOnly[V]) Has(ctx context.Context, key string) (bool, error) {
	return r.inner.Has(ctx, key)
}

func (r readOnly[V]) Len(ctx context.Context) (int, error) {
	return r.inner.Len(ctx)
}

// conditional is satisfied by layers that expose an atomic
// create-if-absent, such as *Store over a kv.ConditionalSetter backend.
type conditional[V any] interface {
	SetIfAbsent(ctx context.Context, key string, value V) (bool, error)
}

type noOverwrite[V any] struct {
	inner Map[V]
	cond  conditional[V] // nil when the inner layer offers no conditional write
}

// NoOverwrite allows Set only for keys not already present; writing to an
// existing key fails with kv.OverwriteNotAllowed and leaves the stored value
// untouched. When layered directly over a store with a conditional write the
// check and the write are one atomic operation; otherwise they are two
// sequential calls, safe only under a single writer.
func NoOverwrite[V any](m Map[V]) Map[V] {
	cond, _ := m.(conditional[V])
	return noOverwrite[V]{inner: m, cond: cond}
}

func (n noOverwrite[V]) Get(ctx context.Context, key string) (V, error) {
	return n.inner.Get(ctx, key)
}

func (n noOverwrite[V]) Set(ctx context.Context, key string, value V) error {
	if n.cond != nil {
		written, err := n.cond.SetIfAbsent(ctx, key, value)
		if err != nil {
			return err
		}
		if !written {
			return kv.OverwriteNotAllowed{Key: key}
		}
		return nil
	}
	has, err := n.inner.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return kv.OverwriteNotAllowed{Key: key}
	}
	return n.inner.Set(ctx, key, value)
}

func (n noOverwrite[V]) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, key)
}

func (n noOverwrite[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return n.inner.Iter(ctx, f)
}

func (n noOverwrite[V]) Has(ctx context.Context, key string) (bool, error) {
	return n.inner.Has(ctx, key)
}

func (n noOverwrite[V]) Len(ctx context.Context) (int, error) {
	return n.inner.Len(ctx)
}
