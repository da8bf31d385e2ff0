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

package wrap_test

import (
	"context"

	"github.com/kvlens/kvlens/wrap"
)

// countingMap wraps a Map and counts operations, so tests can observe which
// layer actually served a call.
type countingMap[V any] struct {
	inner wrap.Map[V]

	getCalls    int
	setCalls    int
	deleteCalls int
	hasCalls    int
}

var _ wrap.Map[string] = (*countingMap[string])(nil)

func (c *countingMap[V]) Get(ctx context.Context, key string) (V, error) {
	c.getCalls++
	return c.inner.Get(ctx, key)
}

func (c *countingMap[V]) Set(ctx context.Context, key string, value V) error {
	c.setCalls++
	return c.inner.Set(ctx, key, value)
}

func (c *countingMap[V]) Delete(ctx context.Context, key string) error {
	c.deleteCalls++
	return c.inner.Delete(ctx, key)
}

func (c *countingMap[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	return c.inner.Iter(ctx, f)
}

func (c *countingMap[V]) Has(ctx context.Context, key string) (bool, error) {
	c.hasCalls++
	return c.inner.Has(ctx, key)
}

func (c *countingMap[V]) Len(ctx context.Context) (int, error) {
	return c.inner.Len(ctx)
}
