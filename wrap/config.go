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
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kvlens/kvlens/codec"
	"github.com/kvlens/kvlens/kv"
)

// Config declares how a store is composed over its backend. Zero value:
// identity key transform, no guards, no validation.
type Config struct {
	// Prefix relativizes keys: the backend receives Prefix+key and callers
	// see the suffix. Ignored when PrefixFromBackend is set.
	Prefix string `toml:"prefix"`

	// PrefixFromBackend derives the prefix from the backend's own Path()
	// instead of taking it from config, so the two can't diverge. The
	// backend must implement kv.Pathed.
	PrefixFromBackend bool `toml:"prefix_from_backend"`

	// ReadOnly denies Set and Delete.
	ReadOnly bool `toml:"read_only"`

	// PreventOverwrite denies Set for keys that already exist.
	PreventOverwrite bool `toml:"prevent_overwrite"`

	// ValidateKeys rejects keys whose identifiers the backend is not
	// willing to accept, before any backend call. The backend must
	// implement kv.KeyValidator.
	ValidateKeys bool `toml:"validate_keys"`
}

// LoadConfig reads a Config from a TOML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, errors.Wrap(err, "wrap: load config")
}

// ComposeOption supplies the pieces of a composition that cannot live in a
// config file.
type ComposeOption[V any] func(*composeState[V])

type composeState[V any] struct {
	keep func(key string) bool
	lg   *zap.Logger
}

// WithKeyFilter restricts the composed store's visible keys to those the
// predicate accepts.
func WithKeyFilter[V any](keep func(key string) bool) ComposeOption[V] {
	return func(st *composeState[V]) {
		st.keep = keep
	}
}

// WithLogger installs a logging layer as the outermost decorator.
func WithLogger[V any](lg *zap.Logger) ComposeOption[V] {
	return func(st *composeState[V]) {
		st.lg = lg
	}
}

// Compose layers the configured transforms and guards over backend. The
// backend's optional capabilities are checked here, once, so a bad
// combination fails at composition time rather than mid-operation.
//
// Layer order, inside out: base store, overwrite guard (so it observes the
// backend's actual containment and can use a native conditional write),
// key filter, read-only guard, logging. Guard order never changes which
// operations are allowed, only which denial is reported first.
func Compose[V any](backend kv.Store, vals codec.Codec[V], cfg Config, opts ...ComposeOption[V]) (Map[V], error) {
	var st composeState[V]
	for _, opt := range opts {
		opt(&st)
	}

	prefix := cfg.Prefix
	if cfg.PrefixFromBackend {
		pathed, ok := backend.(kv.Pathed)
		if !ok {
			return nil, errors.New("wrap: prefix_from_backend requires a backend with a Path")
		}
		prefix = pathed.Path()
	}

	var kt KeyTransform = Identity{}
	if prefix != "" {
		kt = NewPrefixRelativizer(prefix)
	}
	if cfg.ValidateKeys {
		valid, ok := backend.(kv.KeyValidator)
		if !ok {
			return nil, errors.New("wrap: validate_keys requires a backend with a key validity predicate")
		}
		kt = Validated(kt, valid)
	}

	var m Map[V] = NewStore(backend, kt, vals)
	if cfg.PreventOverwrite {
		m = NoOverwrite(m)
	}
	if st.keep != nil {
		m = Filtered(m, st.keep)
	}
	if cfg.ReadOnly {
		m = ReadOnly(m)
	}
	if st.lg != nil {
		m = Logged(m, st.lg)
	}
	return m, nil
}
