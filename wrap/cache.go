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

type readThrough[V any] struct {
	cache  Map[V]
	source Map[V]
}

// ReadThrough layers a cache Map over a source Map. Get consults the cache
// first and populates it from the source on a miss; Set writes through to
// both. Iteration, containment, and size come from the source, since the
// cache may hold only a subset.
func ReadThrough[V any](cache, source Map[V]) Map[V] {
	return readThrough[V]{cache: cache, source: source}
}

func (rt readThrough[V]) Get(ctx context.Context, key string) (V, error) {
	v, err := rt.cache.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	if !kv.IsNotFound(err) {
		var zero V
		return zero, err
	}
	v, err = rt.source.Get(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	if err := rt.cache.Set(ctx, key, v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

func (rt readThrough[V]) Set(ctx context.Context, key string, value V) error {
	if err := rt.source.Set(ctx, key, value); err != nil {
		return err
	}
	return rt.cache.Set(ctx, key, value)
}

func (rt readThrough[V]) Delete(ctx context.Context, key string) error {
	if err := rt.source.Delete(ctx, key); err != nil {
		return err
	}
	if err := rt.cache.Delete(ctx, key); err != nil && !kv.IsNotFound(err) {
		return err
	}
	return nil
}

func (rt readThrough[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return rt.source.Iter(ctx, f)
}

func (rt readThrough[V]) Has(ctx context.Context, key string) (bool, error) {
	has, err := rt.cache.Has(ctx, key)
	if err != nil {
		return false, err
	}
	if has {
		return true, nil
	}
	return rt.source.Has(ctx, key)
}

func (rt readThrough[V]) Len(ctx context.Context) (int, error) {
	return rt.source.Len(ctx)
}

// WriteCache buffers writes in a cache Map and pushes them to the source
// only on Flush. Reads consult the cache first, so a writer sees its own
// unflushed entries; iteration and size come from the source and do not see
// pending writes until they are flushed.
//
// WriteCache is not safe for concurrent writers; serialize Set, Delete, and
// Flush externally.
type WriteCache[V any] struct {
	cache   Map[V]
	source  Map[V]
	pending []string
	queued  map[string]bool
	flushIf func(pending int) bool
}

// WriteCacheOption configures NewWriteCache.
type WriteCacheOption[V any] func(*WriteCache[V])

// FlushWhen flushes automatically after any Set that leaves the pending
// count satisfying cond.
func FlushWhen[V any](cond func(pending int) bool) WriteCacheOption[V] {
	return func(wc *WriteCache[V]) {
		wc.flushIf = cond
	}
}

func NewWriteCache[V any](cache, source Map[V], opts ...WriteCacheOption[V]) *WriteCache[V] {
	wc := &WriteCache[V]{
		cache:  cache,
		source: source,
		queued: map[string]bool{},
	}
	for _, opt := range opts {
		opt(wc)
	}
	return wc
}

// Pending returns the number of buffered writes.
func (wc *WriteCache[V]) Pending() int {
	return len(wc.pending)
}

// Flush writes every buffered entry to the source in the order the keys
// were first set, then clears the buffer. On error the failed key and its
// successors stay pending.
func (wc *WriteCache[V]) Flush(ctx context.Context) error {
	for len(wc.pending) > 0 {
		key := wc.pending[0]
		v, err := wc.cache.Get(ctx, key)
		if err != nil {
			return err
		}
		if err := wc.source.Set(ctx, key, v); err != nil {
			return err
		}
		wc.pending = wc.pending[1:]
		delete(wc.queued, key)
	}
	return nil
}

func (wc *WriteCache[V]) Get(ctx context.Context, key string) (V, error) {
	v, err := wc.cache.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	if !kv.IsNotFound(err) {
		var zero V
		return zero, err
	}
	return wc.source.Get(ctx, key)
}

func (wc *WriteCache[V]) Set(ctx context.Context, key string, value V) error {
	if err := wc.cache.Set(ctx, key, value); err != nil {
		return err
	}
	if !wc.queued[key] {
		wc.queued[key] = true
		wc.pending = append(wc.pending, key)
	}
	if wc.flushIf != nil && wc.flushIf(len(wc.pending)) {
		return wc.Flush(ctx)
	}
	return nil
}

// Delete drops any pending write for key and removes it from cache and
// source. The key must exist in at least one of them.
func (wc *WriteCache[V]) Delete(ctx context.Context, key string) error {
	if wc.queued[key] {
		delete(wc.queued, key)
		for i, k := range wc.pending {
			if k == key {
				wc.pending = append(wc.pending[:i], wc.pending[i+1:]...)
				break
			}
		}
	}
	cacheErr := wc.cache.Delete(ctx, key)
	if cacheErr != nil && !kv.IsNotFound(cacheErr) {
		return cacheErr
	}
	sourceErr := wc.source.Delete(ctx, key)
	if sourceErr != nil && !kv.IsNotFound(sourceErr) {
		return sourceErr
	}
	if kv.IsNotFound(cacheErr) && sourceErr != nil {
		return kv.NotFound{Key: key}
	}
	return nil
}

func (wc *WriteCache[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return wc.source.Iter(ctx, f)
}

func (wc *WriteCache[V]) Has(ctx context.Context, key string) (bool, error) {
	has, err := wc.cache.Has(ctx, key)
	if err != nil {
		return false, err
	}
	if has {
		return true, nil
	}
	return wc.source.Has(ctx, key)
}

func (wc *WriteCache[V]) Len(ctx context.Context) (int, error) {
	return wc.source.Len(ctx)
}

var _ Map[string] = (*WriteCache[string])(nil)
