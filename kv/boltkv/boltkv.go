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

// Package boltkv provides a BoltDB-backed implementation of the kv.Store
// interface. All entries live in a single bucket; iteration follows bolt's
// byte order over identifiers.
package boltkv

import (
	"bytes"
	"context"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/kvlens/kvlens/kv"
)

var bucketName = []byte("kvlens")

// Store is a kv.Store persisted in a BoltDB file. Safe for concurrent use;
// conditional writes are atomic within a bolt transaction.
type Store struct {
	db   *bolt.DB
	path string
}

var _ kv.Store = (*Store)(nil)
var _ kv.ConditionalSetter = (*Store)(nil)
var _ kv.Pathed = (*Store)(nil)

// New opens (creating if needed) the bolt database at path.
func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "boltkv: open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "boltkv: create bucket")
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "boltkv: close")
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if !exists(b, []byte(id)) {
			return kv.NotFound{Key: id}
		}
		v := b.Get([]byte(id))
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, id string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(id), data)
	})
	return errors.Wrap(err, "boltkv: set")
}

// SetIfAbsent stores data under id only when absent, atomically within one
// bolt write transaction.
func (s *Store) SetIfAbsent(ctx context.Context, id string, data []byte) (bool, error) {
	written := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if exists(b, []byte(id)) {
			return nil
		}
		written = true
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return false, errors.Wrap(err, "boltkv: set if absent")
	}
	return written, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if !exists(b, []byte(id)) {
			return kv.NotFound{Key: id}
		}
		return b.Delete([]byte(id))
	})
}

func (s *Store) Iter(ctx context.Context, f func(id string) (bool, error)) error {
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			cont, err := f(string(k))
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	})
}

// exists distinguishes a missing key from a stored empty value, which
// Bucket.Get alone cannot do.
func exists(b *bolt.Bucket, key []byte) bool {
	k, _ := b.Cursor().Seek(key)
	return k != nil && bytes.Equal(k, key)
}
