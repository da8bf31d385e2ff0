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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvlens/kvlens/codec"
	"github.com/kvlens/kvlens/kv"
	"github.com/kvlens/kvlens/kv/memkv"
	"github.com/kvlens/kvlens/wrap"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix = "/root/of/data/"
read_only = true
prevent_overwrite = true
validate_keys = true
`), 0644))

	cfg, err := wrap.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, wrap.Config{
		Prefix:           "/root/of/data/",
		ReadOnly:         true,
		PreventOverwrite: true,
		ValidateKeys:     true,
	}, cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := wrap.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestComposePrefixed(t *testing.T) {
	ctx := context.Background()
	backend := memkv.New("mem://compose")

	m, err := wrap.Compose[string](backend, codec.String{}, wrap.Config{Prefix: "/root/of/data/"})
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "foo", "bar"))

	data, err := backend.Get(ctx, "/root/of/data/foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), data)
}

func TestComposePrefixFromBackend(t *testing.T) {
	ctx := context.Background()
	backend := memkv.New("bucket/data/")

	m, err := wrap.Compose[string](backend, codec.String{}, wrap.Config{PrefixFromBackend: true})
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "foo", "bar"))

	data, err := backend.Get(ctx, "bucket/data/foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), data)
}

func TestComposePrefixFromBackendRequiresPath(t *testing.T) {
	backend := plainStore{inner: memkv.New("mem://plain")}
	_, err := wrap.Compose[string](backend, codec.String{}, wrap.Config{PrefixFromBackend: true})
	assert.Error(t, err)
}

func TestComposeValidateKeysRequiresValidator(t *testing.T) {
	backend := plainStore{inner: memkv.New("mem://plain")}
	_, err := wrap.Compose[string](backend, codec.String{}, wrap.Config{ValidateKeys: true})
	assert.Error(t, err)
}

func TestComposeFullStack(t *testing.T) {
	ctx := context.Background()
	backend := memkv.New("mem://full", memkv.WithValidKeys(func(id string) bool {
		return !strings.Contains(id, "..")
	}))

	m, err := wrap.Compose[string](backend, codec.String{},
		wrap.Config{Prefix: "data/", PreventOverwrite: true, ValidateKeys: true},
		wrap.WithKeyFilter[string](func(key string) bool {
			return !strings.HasPrefix(key, "tmp/")
		}))
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "foo", "bar"))

	err = m.Set(ctx, "foo", "again")
	require.Error(t, err)
	assert.True(t, kv.IsOverwriteNotAllowed(err))

	err = m.Set(ctx, "../escape", "nope")
	require.Error(t, err)
	assert.True(t, kv.IsInvalidKey(err))

	require.NoError(t, m.Set(ctx, "tmp/scratch", "hidden"))
	assert.Equal(t, []string{"foo"}, keysOf(t, m))

	has, err := m.Has(ctx, "tmp/scratch")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestComposeReadOnly(t *testing.T) {
	ctx := context.Background()
	backend := memkv.New("mem://ro")
	require.NoError(t, backend.Set(ctx, "a", []byte("v")))

	m, err := wrap.Compose[string](backend, codec.String{}, wrap.Config{ReadOnly: true})
	require.NoError(t, err)

	err = m.Set(ctx, "b", "v")
	assert.True(t, kv.IsWritesNotAllowed(err))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
