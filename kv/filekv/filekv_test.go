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

package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/kvlens/kvlens/kv"
	"github.com/kvlens/kvlens/kv/kvtest"
)

func TestStoreSuite(t *testing.T) {
	suite.Run(t, &kvtest.StoreSuite{
		MakeStore: func(t *testing.T) kv.Store {
			s, err := New(t.TempDir())
			require.NoError(t, err)
			return s
		},
	})
}

func TestNestedKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "sub/dir/item", []byte("deep")))

	data, err := s.Get(ctx, "sub/dir/item")
	require.NoError(t, err)
	assert.Equal(t, []byte("deep"), data)

	ids, err := kv.KeysOf(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/dir/item"}, ids)
}

func TestIsValidKey(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "plain", id: "foo", want: true},
		{name: "nested", id: "a/b/c", want: true},
		{name: "empty", id: "", want: false},
		{name: "absolute", id: "/etc/passwd", want: false},
		{name: "parent_escape", id: "../outside", want: false},
		{name: "sneaky_escape", id: "a/../../outside", want: false},
		{name: "internal_dotdot", id: "a/../b", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, s.IsValidKey(tt.id), "IsValidKey(%q)", tt.id)
		})
	}
}

func TestRejectsEscapingIdentifiers(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "store")
	s, err := New(root)
	require.NoError(t, err)

	for _, id := range []string{"../intruder", "a/../../intruder", "/etc/intruder", ""} {
		err := s.Set(ctx, id, []byte("x"))
		require.Errorf(t, err, "Set(%q)", id)
		assert.True(t, kv.IsInvalidKey(err), "Set(%q): %v", id, err)

		_, err = s.Get(ctx, id)
		assert.True(t, kv.IsInvalidKey(err), "Get(%q): %v", id, err)

		err = s.Delete(ctx, id)
		assert.True(t, kv.IsInvalidKey(err), "Delete(%q): %v", id, err)
	}

	// nothing was written next to the root
	_, err = os.Stat(filepath.Join(filepath.Dir(root), "intruder"))
	assert.True(t, os.IsNotExist(err))
}

func TestPath(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
}
