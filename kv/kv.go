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

// Package kv defines the backend contract for key-value stores: the
// identifiers and data a backend works with, as opposed to the keys and
// objects the wrapping layer exposes to callers. Backends own their storage
// and its lifecycle; the wrapping layer only holds a reference.
package kv

import "context"

// Store is the minimal contract a backend must provide. Identifiers and data
// are the backend's own representation; key and value translation happens in
// the wrap package, above this interface.
type Store interface {
	// Get returns the data stored under id. Returns a NotFound error when
	// the identifier is absent.
	Get(ctx context.Context, id string) ([]byte, error)

	// Set stores data under id, creating or overwriting.
	Set(ctx context.Context, id string, data []byte) error

	// Delete removes the entry for id. Returns a NotFound error when the
	// identifier is absent.
	Delete(ctx context.Context, id string) error

	// Iter calls f for each identifier in the store, in the backend's
	// iteration order. Iteration stops early when f returns false or an
	// error; the error is returned as-is.
	Iter(ctx context.Context, f func(id string) (bool, error)) error
}

// KeyValidator is an optional backend capability. A backend that can only
// accept certain identifiers exposes the predicate here so composition can
// reject bad keys before any mutating call.
type KeyValidator interface {
	IsValidKey(id string) bool
}

// ConditionalSetter is an optional backend capability: an atomic
// create-if-absent. Backends that implement it let the overwrite guard avoid
// the non-atomic check-then-write sequence.
type ConditionalSetter interface {
	// SetIfAbsent stores data under id only if id is not already present.
	// Returns true if the write happened.
	SetIfAbsent(ctx context.Context, id string, data []byte) (bool, error)
}

// Pathed is an optional backend capability reporting the root location the
// backend stores under. Composition uses it to derive a key prefix from the
// backend instance itself rather than from separately supplied config.
type Pathed interface {
	Path() string
}
