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

// Package kvtest provides a conformance suite every kv.Store implementation
// should pass.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kvlens/kvlens/kv"
)

// StoreSuite exercises the kv.Store contract. Backend packages embed it and
// supply a MakeStore factory.
type StoreSuite struct {
	suite.Suite
	MakeStore func(t *testing.T) kv.Store

	store kv.Store
}

func (s *StoreSuite) SetupTest() {
	s.store = s.MakeStore(s.T())
}

func (s *StoreSuite) TestSetGet() {
	ctx := context.Background()
	s.NoError(s.store.Set(ctx, "a", []byte("alpha")))

	data, err := s.store.Get(ctx, "a")
	s.NoError(err)
	s.Equal([]byte("alpha"), data)
}

func (s *StoreSuite) TestGetAbsent() {
	_, err := s.store.Get(context.Background(), "nope")
	s.Error(err)
	s.True(kv.IsNotFound(err))
}

func (s *StoreSuite) TestOverwrite() {
	ctx := context.Background()
	s.NoError(s.store.Set(ctx, "a", []byte("one")))
	s.NoError(s.store.Set(ctx, "a", []byte("two")))

	data, err := s.store.Get(ctx, "a")
	s.NoError(err)
	s.Equal([]byte("two"), data)
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	s.NoError(s.store.Set(ctx, "a", []byte("alpha")))
	s.NoError(s.store.Delete(ctx, "a"))

	_, err := s.store.Get(ctx, "a")
	s.True(kv.IsNotFound(err))
}

func (s *StoreSuite) TestDeleteAbsent() {
	err := s.store.Delete(context.Background(), "nope")
	s.Error(err)
	s.True(kv.IsNotFound(err))
}

func (s *StoreSuite) TestIterVisitsAll() {
	ctx := context.Background()
	want := map[string]bool{"a": true, "b": true, "c": true}
	for id := range want {
		s.NoError(s.store.Set(ctx, id, []byte(id)))
	}

	seen := map[string]bool{}
	err := s.store.Iter(ctx, func(id string) (bool, error) {
		seen[id] = true
		return true, nil
	})
	s.NoError(err)
	s.Equal(want, seen)
}

func (s *StoreSuite) TestIterStopsEarly() {
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		s.NoError(s.store.Set(ctx, id, nil))
	}

	visits := 0
	err := s.store.Iter(ctx, func(id string) (bool, error) {
		visits++
		return false, nil
	})
	s.NoError(err)
	s.Equal(1, visits)
}

func (s *StoreSuite) TestEmptyValue() {
	ctx := context.Background()
	s.NoError(s.store.Set(ctx, "empty", []byte{}))

	data, err := s.store.Get(ctx, "empty")
	s.NoError(err)
	s.Empty(data)

	has, err := kv.HasFromGet(ctx, s.store, "empty")
	s.NoError(err)
	s.True(has)
}
