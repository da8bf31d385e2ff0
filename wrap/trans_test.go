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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvlens/kvlens/kv"
	"github.com/kvlens/kvlens/kv/memkv"
	"github.com/kvlens/kvlens/wrap"
)

func TestIdentityTransform(t *testing.T) {
	id, err := wrap.Identity{}.IDOfKey("a")
	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.Equal(t, "a", wrap.Identity{}.KeyOfID("a"))
}

func TestPrefixRoundTrip(t *testing.T) {
	p := wrap.NewPrefixRelativizer("/root/of/data/")

	for _, key := range []string{"foo", "", "nested/path", "with space", "ütf8"} {
		id, err := p.IDOfKey(key)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "/root/of/data/"))
		assert.Equal(t, key, p.KeyOfID(id), "KeyOfID(IDOfKey(%q))", key)
	}
}

func TestPrefixStripsExactly(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		wantID string
	}{
		{name: "path_prefix", prefix: "/root/of/data/", key: "foo", wantID: "/root/of/data/foo"},
		{name: "empty_prefix", prefix: "", key: "foo", wantID: "foo"},
		{name: "namespace_prefix", prefix: "ns:", key: "a:b", wantID: "ns:a:b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := wrap.NewPrefixRelativizer(tt.prefix)
			id, err := p.IDOfKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.key, id[len(tt.prefix):])
			assert.Equal(t, tt.key, p.KeyOfID(id))
		})
	}
}

func TestValidatedRejectsBeforeBackend(t *testing.T) {
	backend := memkv.New("mem://validated", memkv.WithValidKeys(func(id string) bool {
		return !strings.ContainsRune(id, ' ')
	}))
	kt := wrap.Validated(wrap.NewPrefixRelativizer("data/"), backend)

	id, err := kt.IDOfKey("fine")
	require.NoError(t, err)
	assert.Equal(t, "data/fine", id)

	_, err = kt.IDOfKey("not fine")
	require.Error(t, err)
	assert.True(t, kv.IsInvalidKey(err))
	assert.Equal(t, kv.InvalidKey{Key: "not fine"}, err, "error must carry the interface key")
}
