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

// Package filekv provides a filesystem implementation of the kv.Store
// interface: one file per entry under a root directory. Identifiers are
// slash-separated paths relative to the root; iteration follows lexical
// walk order.
package filekv

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/kvlens/kvlens/kv"
)

// Store is a kv.Store over a directory tree.
type Store struct {
	root string
}

var _ kv.Store = (*Store)(nil)
var _ kv.KeyValidator = (*Store)(nil)
var _ kv.Pathed = (*Store)(nil)

// New creates the root directory if needed and returns a Store over it.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "filekv: mkdir root")
	}
	return &Store{root: root}, nil
}

func (s *Store) Path() string {
	return s.root
}

// IsValidKey rejects identifiers that are empty, absolute, or escape the
// root directory.
func (s *Store) IsValidKey(id string) bool {
	if id == "" || strings.HasPrefix(id, "/") {
		return false
	}
	clean := filepath.Clean(filepath.FromSlash(id))
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if !s.IsValidKey(id) {
		return nil, kv.InvalidKey{Key: id}
	}
	data, err := os.ReadFile(s.filename(id))
	if os.IsNotExist(err) {
		return nil, kv.NotFound{Key: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "filekv: get")
	}
	return data, nil
}

// Set rejects identifiers that fail IsValidKey, so no caller can write
// outside the root even without a validating layer on top.
func (s *Store) Set(ctx context.Context, id string, data []byte) error {
	if !s.IsValidKey(id) {
		return kv.InvalidKey{Key: id}
	}
	name := s.filename(id)
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return errors.Wrap(err, "filekv: mkdir")
	}
	return errors.Wrap(os.WriteFile(name, data, 0644), "filekv: set")
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.IsValidKey(id) {
		return kv.InvalidKey{Key: id}
	}
	err := os.Remove(s.filename(id))
	if os.IsNotExist(err) {
		return kv.NotFound{Key: id}
	}
	return errors.Wrap(err, "filekv: delete")
}

func (s *Store) Iter(ctx context.Context, f func(id string) (bool, error)) error {
	stop := errors.New("stop")
	var cbErr error
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		cont, err := f(filepath.ToSlash(rel))
		if err != nil {
			cbErr = err
			return stop
		}
		if !cont {
			return stop
		}
		return nil
	})
	if err == stop {
		return cbErr
	}
	return errors.Wrap(err, "filekv: iter")
}

func (s *Store) filename(id string) string {
	return filepath.Join(s.root, filepath.FromSlash(id))
}
