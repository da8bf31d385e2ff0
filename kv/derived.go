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

package kv

import "context"

// HasFromGet derives containment from a single lookup: a NotFound error
// becomes false, any other error propagates. Costs one Get.
func HasFromGet(ctx context.Context, s Store, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// HasFromIter derives containment by scanning identifiers until a match or
// exhaustion. O(n); a fallback for backends without indexed lookup.
func HasFromIter(ctx context.Context, s Store, id string) (bool, error) {
	found := false
	err := s.Iter(ctx, func(candidate string) (bool, error) {
		if candidate == id {
			found = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// CountFromIter derives size by counting identifiers. O(n); backends with a
// cheaper native count should be preferred where it matters.
func CountFromIter(ctx context.Context, s Store) (int, error) {
	count := 0
	err := s.Iter(ctx, func(string) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// KeysOf materializes the store's identifiers in iteration order.
func KeysOf(ctx context.Context, s Store) ([]string, error) {
	var ids []string
	err := s.Iter(ctx, func(id string) (bool, error) {
		ids = append(ids, id)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// First returns the first entry in iteration order. ok is false when the
// store is empty.
func First(ctx context.Context, s Store) (id string, data []byte, ok bool, err error) {
	err = s.Iter(ctx, func(candidate string) (bool, error) {
		id = candidate
		ok = true
		return false, nil
	})
	if err != nil || !ok {
		return "", nil, false, err
	}
	data, err = s.Get(ctx, id)
	if err != nil {
		return "", nil, false, err
	}
	return id, data, true, nil
}
