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

import "context"

type filtered[V any] struct {
	inner Map[V]
	keep  func(key string) bool
}

// Filtered restricts which keys are visible: Iter yields only keys the
// predicate accepts, Has reports false for rejected keys without consulting
// the inner layer, and Len counts the filtered view. The filter is purely a
// view — Get, Set, and Delete are unaffected and the stored content is
// unchanged.
func Filtered[V any](m Map[V], keep func(key string) bool) Map[V] {
	return filtered[V]{inner: m, keep: keep}
}

func (fl filtered[V]) Get(ctx context.Context, key string) (V, error) {
	return fl.inner.Get(ctx, key)
}

func (fl filtered[V]) Set(ctx context.Context, key string, value V) error {
	return fl.inner.Set(ctx, key, value)
}

func (fl filtered[V]) Delete(ctx context.Context, key string) error {
	return fl.inner.Delete(ctx, key)
}

func (fl filtered[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return fl.inner.Iter(ctx, func(key string) (bool, error) {
		if !fl.keep(key) {
			return true, nil
		}
		return f(key)
	})
}

func (fl filtered[V]) Has(ctx context.Context, key string) (bool, error) {
	if !fl.keep(key) {
		return false, nil
	}
	return fl.inner.Has(ctx, key)
}

func (fl filtered[V]) Len(ctx context.Context) (int, error) {
	count := 0
	err := fl.Iter(ctx, func(string) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
