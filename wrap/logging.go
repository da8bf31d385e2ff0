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

	"go.uber.org/zap"
)

type logged[V any] struct {
	inner Map[V]
	lg    *zap.Logger
}

// Logged records every operation and its outcome on lg at debug level.
// Install it as the outermost layer to observe what callers see; without it
// the composition does no logging at all.
func Logged[V any](m Map[V], lg *zap.Logger) Map[V] {
	return logged[V]{inner: m, lg: lg}
}

func (l logged[V]) Get(ctx context.Context, key string) (V, error) {
	v, err := l.inner.Get(ctx, key)
	l.lg.Debug("get", zap.String("key", key), zap.Error(err))
	return v, err
}

func (l logged[V]) Set(ctx context.Context, key string, value V) error {
	err := l.inner.Set(ctx, key, value)
	l.lg.Debug("set", zap.String("key", key), zap.Error(err))
	return err
}

func (l logged[V]) Delete(ctx context.Context, key string) error {
	err := l.inner.Delete(ctx, key)
	l.lg.Debug("delete", zap.String("key", key), zap.Error(err))
	return err
}

func (l logged[V]) Iter(ctx context.Context, f func(key string) (bool, error)) error {
	err := l.inner.Iter(ctx, f)
	l.lg.Debug("iter", zap.Error(err))
	return err
}

func (l logged[V]) Has(ctx context.Context, key string) (bool, error) {
	has, err := l.inner.Has(ctx, key)
	l.lg.Debug("has", zap.String("key", key), zap.Bool("has", has), zap.Error(err))
	return has, err
}

func (l logged[V]) Len(ctx context.Context) (int, error) {
	n, err := l.inner.Len(ctx)
	l.lg.Debug("len", zap.Int("len", n), zap.Error(err))
	return n, err
}
