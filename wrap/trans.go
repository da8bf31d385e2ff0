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

import "github.com/kvlens/kvlens/kv"

// KeyTransform maps between the keys callers address items by and the
// identifiers the backend stores under. Implementations must be inverse
// pairs: KeyOfID(IDOfKey(k)) == k for every valid key k.
type KeyTransform interface {
	IDOfKey(key string) (string, error)
	KeyOfID(id string) string
}

// Identity is the no-op key transform, the default and terminal case of the
// transform chain.
type Identity struct{}

var _ KeyTransform = Identity{}

func (Identity) IDOfKey(key string) (string, error) {
	return key, nil
}

func (Identity) KeyOfID(id string) string {
	return id
}

// PrefixRelativizer exposes keys relative to a fixed prefix while the
// backend receives fully qualified identifiers. The canonical use is
// addressing files by path relative to a root directory instead of by
// absolute path.
type PrefixRelativizer struct {
	prefix    string
	prefixLen int
}

var _ KeyTransform = (*PrefixRelativizer)(nil)

// NewPrefixRelativizer builds the transform for prefix. The prefix is
// immutable for the transform's lifetime, so its length is computed here
// once.
func NewPrefixRelativizer(prefix string) *PrefixRelativizer {
	return &PrefixRelativizer{prefix: prefix, prefixLen: len(prefix)}
}

func (p *PrefixRelativizer) Prefix() string {
	return p.prefix
}

func (p *PrefixRelativizer) IDOfKey(key string) (string, error) {
	return p.prefix + key, nil
}

// KeyOfID strips the prefix. The id must have been produced by IDOfKey;
// identifiers not starting with the prefix are a caller contract violation
// and are not checked here.
func (p *PrefixRelativizer) KeyOfID(id string) string {
	return id[p.prefixLen:]
}

type validated struct {
	inner KeyTransform
	valid kv.KeyValidator
}

var _ KeyTransform = validated{}

// Validated wraps kt so that identifiers rejected by the backend's validity
// predicate fail with kv.InvalidKey carrying the interface key. The rejected
// identifier never reaches the backend.
func Validated(kt KeyTransform, valid kv.KeyValidator) KeyTransform {
	return validated{inner: kt, valid: valid}
}

func (v validated) IDOfKey(key string) (string, error) {
	id, err := v.inner.IDOfKey(key)
	if err != nil {
		return "", err
	}
	if !v.valid.IsValidKey(id) {
		return "", kv.InvalidKey{Key: key}
	}
	return id, nil
}

func (v validated) KeyOfID(id string) string {
	return v.inner.KeyOfID(id)
}
