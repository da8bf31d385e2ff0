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
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kvlens/kvlens/kv"
)

const getManyConcurrency = 8

// GetMany fetches the given keys concurrently, calling found for each key
// that exists. Absent keys are silently skipped; any other failure cancels
// the remaining fetches and is returned. found is never called
// concurrently.
func GetMany[V any](ctx context.Context, m Map[V], keys []string, found func(key string, value V)) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(getManyConcurrency)

	var mu sync.Mutex
	for _, key := range keys {
		key := key
		eg.Go(func() error {
			v, err := m.Get(ctx, key)
			if err != nil {
				if kv.IsNotFound(err) {
					return nil
				}
				return err
			}
			mu.Lock()
			found(key, v)
			mu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}
