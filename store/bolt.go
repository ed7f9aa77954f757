/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

const boltStoreFileName = "bolt-store"

var boltBucketName = []byte("structdb-store")

// BoltStore defines a B+ tree storage backend
//
// refer to [https://github.com/etcd-io/bbolt]
type BoltStore struct {
	tree *bbolt.DB
}

// NewBoltStore opens (creating if missing) a bbolt database file in the directory
func NewBoltStore(directoryPath string, syncWrites bool) (*BoltStore, error) {
	options := *bbolt.DefaultOptions
	options.NoSync = !syncWrites

	if err := os.MkdirAll(directoryPath, os.ModePerm); err != nil {
		return nil, err
	}

	tree, err := bbolt.Open(filepath.Join(directoryPath, boltStoreFileName), 0644, &options)
	if err != nil {
		return nil, err
	}

	// create new bucket
	if err := tree.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucketName)
		return err
	}); err != nil {
		_ = tree.Close()
		return nil, err
	}

	return &BoltStore{tree: tree}, nil
}

func (bs *BoltStore) Get(key []byte) ([]byte, error) {
	var value []byte

	err := bs.tree.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltBucketName).Get(key)
		if v != nil {
			// the slice is only valid within the transaction
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, ErrKeyNotFound
	}

	return value, nil
}

func (bs *BoltStore) Put(key, value []byte) error {
	return bs.tree.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucketName).Put(key, value)
	})
}

func (bs *BoltStore) Delete(key []byte) error {
	return bs.tree.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucketName).Delete(key)
	})
}

func (bs *BoltStore) Iterator(reverse bool) (Iterator, error) {
	// copy the items out so that writes issued during the iteration do not
	// block on the open read transaction
	var items []kvItem
	err := bs.tree.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(boltBucketName).Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			key := make([]byte, len(k))
			copy(key, k)
			value := make([]byte, len(v))
			copy(value, v)
			items = append(items, kvItem{key: key, value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	return &snapshotIterator{items: items, reverse: reverse}, nil
}

// CompactRange is a no-op, B+ tree pages are reused in place
func (bs *BoltStore) CompactRange(start, end []byte) error {
	return nil
}

func (bs *BoltStore) Close() error {
	return bs.tree.Close()
}
