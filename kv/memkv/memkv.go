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

// Package memkv provides an in-memory implementation of the kv.Store
// interface. Iteration follows insertion order, so layered stores observe a
// stable backend order.
package memkv

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kvlens/kvlens/kv"
)

// Option configures a Store at construction time.
type Option func(*Store)

// WithValidKeys installs the predicate reported through kv.KeyValidator.
// Without it every identifier is accepted.
func WithValidKeys(valid func(id string) bool) Option {
	return func(s *Store) {
		s.valid = valid
	}
}

// Store is an in-memory kv.Store. Safe for concurrent use.
type Store struct {
	path  string
	valid func(id string) bool

	mu       sync.RWMutex
	order    []string
	data     map[string][]byte
	versions map[string]string
}

var _ kv.Store = (*Store)(nil)
var _ kv.ConditionalSetter = (*Store)(nil)
var _ kv.KeyValidator = (*Store)(nil)
var _ kv.Pathed = (*Store)(nil)

// New creates an empty Store rooted (nominally) at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		data:     make(map[string][]byte),
		versions: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) IsValidKey(id string) bool {
	if s.valid == nil {
		return true
	}
	return s.valid(id)
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[id]
	if !ok {
		return nil, kv.NotFound{Key: id}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Set(ctx context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, data)
	return nil
}

// SetIfAbsent stores data under id only when id is not already present.
func (s *Store) SetIfAbsent(ctx context.Context, id string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; ok {
		return false, nil
	}
	s.put(id, data)
	return true, nil
}

// CheckAndSet updates id only if its current version matches
// expectedVersion. An empty expectedVersion means the key must be absent.
// On success the new version is returned.
func (s *Store) CheckAndSet(ctx context.Context, expectedVersion, id string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ver, ok := s.versions[id]
	check := !ok && expectedVersion == "" || ok && expectedVersion == ver
	if !check {
		return "", CheckAndSetError{Key: id, ExpectedVersion: expectedVersion, ActualVersion: ver}
	}
	return s.put(id, data), nil
}

// Version returns the current version string for id, and whether id exists.
func (s *Store) Version(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ver, ok := s.versions[id]
	return ver, ok
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return kv.NotFound{Key: id}
	}
	delete(s.data, id)
	delete(s.versions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Iter(ctx context.Context, f func(id string) (bool, error)) error {
	s.mu.RLock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	for _, id := range ids {
		cont, err := f(id)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// put requires s.mu held for writing.
func (s *Store) put(id string, data []byte) string {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	ver := uuid.New().String()
	s.data[id] = stored
	s.versions[id] = ver
	return ver
}
